package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// ErrResponse is the JSON body of every failed request.
type ErrResponse struct {
	HTTPStatusCode int               `json:"-"`
	Code           string            `json:"code"`
	Message        string            `json:"message"`
	Fields         map[string]string `json:"fields,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// errInvalidRequest maps a parse or validation failure to a 400 response.
func errInvalidRequest(err error) render.Renderer {
	resp := &ErrResponse{
		HTTPStatusCode: http.StatusBadRequest,
		Code:           "INVALID_REQUEST",
		Message:        err.Error(),
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Code = "VALIDATION_FAILED"
		resp.Message = "filter criteria failed validation"
		resp.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.Fields[fe.Namespace()] = fe.Tag()
		}
	}

	var perr *paramError
	if errors.As(err, &perr) {
		resp.Fields = map[string]string{perr.param: "parse"}
	}
	return resp
}

func errInternal(err error) render.Renderer {
	return &ErrResponse{
		HTTPStatusCode: http.StatusInternalServerError,
		Code:           "INTERNAL",
		Message:        err.Error(),
	}
}

// paramError reports a query parameter that could not be parsed.
type paramError struct {
	param string
	err   error
}

func (e *paramError) Error() string {
	return "invalid query parameter " + e.param + ": " + e.err.Error()
}

func (e *paramError) Unwrap() error { return e.err }
