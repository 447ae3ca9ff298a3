package response

import (
	"ticketcore/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps a service error to its HTTP status and standard envelope.
// The error kind rides along in Errors so clients can distinguish "retry with
// a different seat" from "this will never succeed".
func RespondError(c *gin.Context, err error) {
	code := apperrors.HTTPStatus(err)
	kind := apperrors.KindOf(err)
	RespondJSON(c, "error", code, err.Error(), nil, gin.H{"kind": string(kind)})
}
