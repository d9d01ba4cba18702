package reports

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	cerr "github.com/brewcap/capsule-metrics/internal/errors"
)

// ErrResponse maps pipeline errors onto transport responses: caller input
// and configuration problems are 4xx, upstream failures are 502, everything
// else is 500.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// badParamError is a malformed query parameter; always a 400.
type badParamError struct {
	param, value, want string
}

func (e *badParamError) Error() string {
	return fmt.Sprintf("unknown %s %q, want %s", e.param, e.value, e.want)
}

func errResponse(err error) render.Renderer {
	var bpe *badParamError
	switch {
	case errors.As(err, &bpe):
		return badRequest(err.Error())
	case errors.Is(err, cerr.ErrInvalidDateFormat), errors.Is(err, cerr.ErrInvalidRange):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusBadRequest,
			StatusText:     "Invalid request.",
			ErrorText:      err.Error(),
		}
	case errors.Is(err, cerr.ErrChannelNotUsable):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusUnprocessableEntity,
			StatusText:     "Channel not configured.",
			ErrorText:      err.Error(),
		}
	case cerr.IsUpstream(err):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusBadGateway,
			StatusText:     "Upstream error.",
			ErrorText:      err.Error(),
		}
	default:
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusInternalServerError,
			StatusText:     http.StatusText(http.StatusInternalServerError),
			ErrorText:      err.Error(),
		}
	}
}

func badRequest(msg string) render.Renderer {
	return &ErrResponse{
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      msg,
	}
}

func errUnknownPeriod(period string) error {
	return &badParamError{param: "period", value: period, want: "today, yesterday, past-calendar-month, past-calendar-month-to-date or a month count"}
}
