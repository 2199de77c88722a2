package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizgen/internal/questiongen"
)

type APIError struct {
	Message string                     `json:"message"`
	Code    string                     `json:"code,omitempty"`
	Fields  []questiongen.FieldProblem `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes the standard error envelope.
func RespondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: message, Code: code}})
}
