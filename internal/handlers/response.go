package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trainhub/trainhub-backend/internal/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondError maps a typed api error to its status and code; anything
// untyped is a 500 without internals in the body.
func RespondError(c *gin.Context, err error) {
	if apiErr := apierr.From(err); apiErr != nil {
		c.JSON(apiErr.Status, ErrorEnvelope{
			Error: APIError{
				Message: apiErr.Error(),
				Code:    apiErr.Code,
				Reason:  apiErr.Reason,
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{
		Error: APIError{Message: "internal error"},
	})
}
