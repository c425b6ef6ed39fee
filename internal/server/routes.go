package server

import (
	"github.com/docunet-ai/docunet/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	apiRoutes := e.Group("/api")

	// Graph retrieval routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)
	apiRoutes.GET("/schema", routes.GetSchemaHandler)

	// Document routes
	apiRoutes.GET("/documents", routes.GetDocumentsHandler)
	apiRoutes.GET("/documents/:file_name/chunks", routes.GetChunkTextHandler)
	apiRoutes.POST("/documents", routes.PostDocumentsHandler)
}
