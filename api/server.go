// Package api the HTTP API of the cookie store
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/crumb"
)

// Options the api server configuration
type Options struct {
	Logger  *slog.Logger
	Token   string
	Timeout time.Duration
	// Defaults the options merged into every write.
	Defaults crumb.Options
}

// Server the api service. Cookies under /cookies live in the given store,
// cookies under /session are the caller's own request cookies.
func Server(store crumb.Store, opt Options) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = errorHandler
	e.HideBanner = true
	e.HidePort = true
	e.Use(loggerMiddleware(opt), authMiddleware(opt))
	if opt.Timeout > 0 {
		e.Server.ReadTimeout = opt.Timeout
		e.Server.WriteTimeout = opt.Timeout
	}
	e.Any("/ping", ping)

	h := &handler{codec: crumb.NewCodec(store)}
	RouteCookie(e.Group("/cookies"), h.storeCodec, opt.Defaults)
	RouteCookie(e.Group("/session"), h.sessionCodec, opt.Defaults)
	return e
}

func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		err = errors.New(http.StatusText(code))
		if msg, ok := he.Message.(string); ok {
			err = errors.New(msg)
		}
	case errors.Is(err, crumb.ErrInvalidArgument):
		code = http.StatusBadRequest
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if c.Response().Committed {
		return
	}
	if err = c.JSON(code, map[string]string{"msg": err.Error()}); err != nil {
		c.Logger().Error(err)
	}
}

func ping(ctx echo.Context) error {
	return ctx.NoContent(http.StatusOK)
}
