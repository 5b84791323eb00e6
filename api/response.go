package api

import (
	stderrors "errors"
	"net/http"
	customerrors "pto-advisor/errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Error codes returned in the envelope.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidState = "INVALID_STATE"
	CodeInternal     = "INTERNAL_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Ok    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func success(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Ok: true, Data: data})
}

func failure(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, Envelope{
		Ok:    false,
		Error: &ErrorBody{Code: code, Message: message, Details: details},
	})
}

// HTTPError is the transport view of a domain error.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

// ToHTTP maps domain errors onto status codes.
func ToHTTP(err error) HTTPError {
	switch {
	case stderrors.Is(err, customerrors.ErrRequestNotFound),
		stderrors.Is(err, customerrors.ErrEmployeeNotFound):
		return HTTPError{Status: http.StatusNotFound, Code: CodeNotFound, Message: err.Error()}
	case stderrors.Is(err, customerrors.ErrRequestAlreadyReviewed):
		return HTTPError{Status: http.StatusConflict, Code: CodeInvalidState, Message: err.Error()}
	case stderrors.Is(err, customerrors.ErrInvalidDate),
		stderrors.Is(err, customerrors.ErrInvalidDateRange),
		stderrors.Is(err, customerrors.ErrInvalidLeaveType),
		stderrors.Is(err, customerrors.ErrInvalidStatus),
		stderrors.Is(err, customerrors.ErrInvalidRecord),
		stderrors.Is(err, customerrors.ErrReviewerRequired):
		return HTTPError{Status: http.StatusBadRequest, Code: CodeInvalidInput, Message: err.Error()}
	default:
		return HTTPError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "an unexpected error occurred"}
	}
}

// InitValidator makes binding errors report json field names.
func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// validationDetails lists "field: tag" pairs for a binding failure.
func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, len(verrs))
	for i, e := range verrs {
		out[i] = e.Field() + ": " + e.Tag()
	}
	return out
}
