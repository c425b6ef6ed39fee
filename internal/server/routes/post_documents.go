package routes

import (
	"encoding/json"
	"net/http"

	"github.com/docunet-ai/docunet/backend/internal/queue"
	"github.com/docunet-ai/docunet/backend/internal/server/middleware"
	"github.com/docunet-ai/docunet/backend/pkg/loader"
	"github.com/docunet-ai/docunet/backend/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PostDocumentsHandler validates an ingestion request and enqueues it for
// the worker. The response carries the job id for correlation; processing
// happens asynchronously.
func PostDocumentsHandler(c echo.Context) error {
	type postDocumentsParams struct {
		FileName   string `json:"file_name" validate:"required"`
		Location   string `json:"location" validate:"required"`
		SourceType string `json:"source_type" validate:"required,oneof=local s3 web wikipedia youtube"`
	}

	type postDocumentsResponse struct {
		Message string `json:"message"`
		JobID   string `json:"job_id,omitempty"`
	}

	params := new(postDocumentsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, postDocumentsResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, postDocumentsResponse{
			Message: "file_name, location and a valid source_type are required",
		})
	}

	jobID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, postDocumentsResponse{
			Message: "Failed to create job",
		})
	}

	payload, err := json.Marshal(queue.IngestMessage{
		JobID:      jobID,
		FileName:   params.FileName,
		Location:   params.Location,
		SourceType: loader.SourceType(params.SourceType),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, postDocumentsResponse{
			Message: "Failed to create job",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.IngestQueue, payload); err != nil {
		logger.Error("[Server] Failed to enqueue ingest job", "file_name", params.FileName, "err", err)
		return c.JSON(http.StatusInternalServerError, postDocumentsResponse{
			Message: "Failed to enqueue document",
		})
	}

	return c.JSON(http.StatusAccepted, postDocumentsResponse{
		Message: "Document queued for ingestion",
		JobID:   jobID,
	})
}
