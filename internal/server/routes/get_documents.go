package routes

import (
	"net/http"

	"github.com/docunet-ai/docunet/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetDocumentsHandler lists the file names of all completely ingested
// documents.
func GetDocumentsHandler(c echo.Context) error {
	type getDocumentsResponse struct {
		Documents []string `json:"documents"`
	}

	graph := c.(*middleware.AppContext).App.Graph
	documents, err := graph.CompletedDocuments()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to list documents"})
	}

	return c.JSON(http.StatusOK, getDocumentsResponse{Documents: documents})
}
