package middleware

import (
	"github.com/docunet-ai/docunet/backend/internal/config"
	"github.com/docunet-ai/docunet/backend/pkg/graphdb"

	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
)

// App bundles the shared dependencies handlers need.
type App struct {
	Config *config.Config
	Graph  *graphdb.Client
	Queue  *amqp091.Channel
}

// AppContext extends the echo context with the application dependencies.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware wraps every request context in an AppContext.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
