package routes

import (
	"net/http"

	"github.com/docunet-ai/docunet/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetChunkTextHandler returns one page of a document's stored chunk text.
// A page number past the last page yields an empty page with the correct
// total, matching the pagination contract.
func GetChunkTextHandler(c echo.Context) error {
	type getChunkTextParams struct {
		FileName string `param:"file_name" validate:"required"`
		PageNo   int64  `query:"page_no"`
	}

	params := new(getChunkTextParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "file_name is required"})
	}
	if params.PageNo == 0 {
		params.PageNo = 1
	}
	if params.PageNo < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "page_no must be at least 1"})
	}

	graph := c.(*middleware.AppContext).App.Graph
	result, err := graph.ChunkTextResults(params.FileName, params.PageNo)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to query chunk text"})
	}

	return c.JSON(http.StatusOK, result)
}
