package routes

import (
	"net/http"

	"github.com/docunet-ai/docunet/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetSchemaHandler returns the database schema as nodes and relationships
// for visualization.
func GetSchemaHandler(c echo.Context) error {
	graph := c.(*middleware.AppContext).App.Graph
	result, err := graph.VisualizeSchema()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to retrieve schema"})
	}

	return c.JSON(http.StatusOK, result)
}
