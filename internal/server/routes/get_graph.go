package routes

import (
	"net/http"
	"strings"

	"github.com/docunet-ai/docunet/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetGraphHandler returns the deduplicated entity subgraph for a
// comma-separated list of document names.
func GetGraphHandler(c echo.Context) error {
	type getGraphParams struct {
		DocumentNames string `query:"document_names" validate:"required"`
	}

	params := new(getGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "document_names is required"})
	}

	names := make([]string, 0)
	for _, name := range strings.Split(params.DocumentNames, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "document_names is required"})
	}

	graph := c.(*middleware.AppContext).App.Graph
	result, err := graph.GraphResults(names)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to query graph"})
	}

	return c.JSON(http.StatusOK, result)
}
