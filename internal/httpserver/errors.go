package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/jsonshop/internal/logging"
	"github.com/Skotchmaster/jsonshop/internal/transport"
)

// HTTPErrorHandler writes every error, echo's own included, as the
// {status:"error", error} envelope. Errors that are not *echo.HTTPError never
// leak their text to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		case nil:
			msg = http.StatusText(code)
		default:
			msg = fmt.Sprint(m)
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, transport.Failure(msg))
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response_failed", "error", err)
	}
}
