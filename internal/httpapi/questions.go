package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizgen/internal/logger"
	"github.com/abhisek/quizgen/internal/questiongen"
)

// Error codes returned in the envelope.
const (
	CodeInvalidBody      = "invalid_body"
	CodeValidation       = "validation_failed"
	CodeNotConfigured    = "not_configured"
	CodeGenerationFailed = "generation_failed"
	CodeInternal         = "internal"
)

// Generator is the part of questiongen.Generator the handlers need.
type Generator interface {
	Generate(ctx context.Context, req questiongen.GenerationRequest) ([]questiongen.Question, error)
}

type QuestionHandler struct {
	log *logger.Logger
	gen Generator
}

func NewQuestionHandler(log *logger.Logger, gen Generator) *QuestionHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &QuestionHandler{
		log: log.With("handler", "QuestionHandler"),
		gen: gen,
	}
}

// generateBody decodes requestedTypes loosely: entries that are not strings
// are dropped rather than failing the whole body.
type generateBody struct {
	questiongen.GenerationRequest
	RequestedTypes []any `json:"requestedTypes"`
}

func (b generateBody) request() questiongen.GenerationRequest {
	req := b.GenerationRequest
	req.RequestedTypes = nil
	for _, v := range b.RequestedTypes {
		if s, ok := v.(string); ok {
			req.RequestedTypes = append(req.RequestedTypes, questiongen.TypeID(s))
		}
	}
	return req
}

// POST /api/questions/generate
// Generate exactly totalCount questions in the requested type mix.
func (h *QuestionHandler) Generate(c *gin.Context) {
	var body generateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, CodeInvalidBody, "invalid request body")
		return
	}

	qs, err := h.gen.Generate(c.Request.Context(), body.request())
	if err != nil {
		h.respondGenerateError(c, err)
		return
	}
	c.JSON(http.StatusOK, qs)
}

// GET /api/question-types
// List the question types a request may ask for.
func (h *QuestionHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": questiongen.SupportedTypes})
}

func (h *QuestionHandler) respondGenerateError(c *gin.Context, err error) {
	var (
		ve *questiongen.ValidationError
		ce *questiongen.ConfigurationError
		se *questiongen.ServiceError
		pe *questiongen.ParseError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{
			Message: ve.Error(),
			Code:    CodeValidation,
			Fields:  ve.Problems,
		}})
	case errors.As(err, &ce):
		h.log.Error("generation not configured", "error", err.Error())
		RespondError(c, http.StatusInternalServerError, CodeNotConfigured, "question generation is not configured")
	case errors.As(err, &se):
		h.log.Warn("generation service failed", "attempts", se.Attempts, "error", err.Error())
		RespondError(c, http.StatusInternalServerError, CodeGenerationFailed, "question generation service is unavailable, try again later")
	case errors.As(err, &pe):
		h.log.Warn("generation output unusable", "length", pe.Length, "snippet", pe.Snippet)
		RespondError(c, http.StatusInternalServerError, CodeGenerationFailed, "could not read questions from the model output")
	default:
		h.log.Error("generation failed", "error", err.Error())
		RespondError(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// GET /healthz
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
