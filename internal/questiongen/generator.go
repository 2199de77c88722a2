// Package questiongen turns a topic and a requested mix of question types
// into a quiz question list, using an LLM for the content and repairing
// whatever the model returns until it matches the requested mix exactly.
package questiongen

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logger"
)

// Purpose labels model calls made by the generator in the event log.
const Purpose = "question-gen"

// Result is the full outcome of one generation.
type Result struct {
	RequestID string
	Target    Distribution
	Strategy  string
	Report    ReconcileReport
	Questions []Question
}

// Generator composes planning, prompting, the model call, extraction and
// reconciliation. It holds no per-request state and is safe for
// concurrent use as long as its Rand is.
type Generator struct {
	client     *Client
	reconciler *Reconciler
	config     Config
	log        *logger.Logger
}

// New creates a Generator. A nil provider is allowed: every Generate call
// then fails with *ConfigurationError without contacting anything.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	g := &Generator{
		reconciler: NewReconciler(cfg.Rand),
		config:     cfg,
		log:        log,
	}
	if provider != nil {
		g.client = NewClient(provider, cfg)
	}
	return g
}

// Generate returns exactly req.TotalCount questions in the requested type
// mix, or a *ValidationError, *ConfigurationError, *ServiceError or
// *ParseError. No partial results are returned.
func (g *Generator) Generate(ctx context.Context, req GenerationRequest) ([]Question, error) {
	res, err := g.GenerateResult(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Questions, nil
}

// GenerateResult is Generate with the plan and repair details attached.
func (g *Generator) GenerateResult(ctx context.Context, req GenerationRequest) (*Result, error) {
	if err := g.validate(req); err != nil {
		return nil, err
	}
	if g.client == nil {
		return nil, &ConfigurationError{Err: ErrNoProvider}
	}

	requestID := uuid.NewString()
	ctx = llm.WithRequestID(llm.WithPurpose(ctx, Purpose), requestID)
	log := g.log.With("request_id", requestID)

	types := NormalizeTypes(req.RequestedTypes)
	target := Plan(types, req.TotalCount)
	log.Info("generating questions",
		"topic", req.Topic,
		"complexity", string(req.Complexity),
		"target", target.String(),
		"model", g.client.ModelID(),
		"max_retries", g.client.MaxRetries(),
	)

	callCtx := ctx
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}
	raw, err := g.client.Call(callCtx, BuildPrompt(req, target))
	if err != nil {
		log.Error("model call failed", "error", err.Error())
		return nil, err
	}

	parsed, strategy, err := extract(raw)
	if err != nil {
		log.Error("extraction failed", "error", err.Error(), "length", len(raw))
		return nil, err
	}

	questions, report := g.reconciler.Reconcile(parsed, target, req.Topic)
	log.Info("questions generated",
		"strategy", strategy,
		"parsed", report.Parsed,
		"converted", report.Converted,
		"synthesized", report.Synthesized,
		"dropped", report.Dropped,
	)

	return &Result{
		RequestID: requestID,
		Target:    target,
		Strategy:  strategy,
		Report:    report,
		Questions: questions,
	}, nil
}

func (g *Generator) validate(req GenerationRequest) error {
	var problems []FieldProblem
	if strings.TrimSpace(req.Topic) == "" {
		problems = append(problems, FieldProblem{Field: "topic", Reason: "is required"})
	}
	switch {
	case strings.TrimSpace(string(req.Complexity)) == "":
		problems = append(problems, FieldProblem{Field: "complexity", Reason: "is required"})
	case !req.Complexity.Valid():
		problems = append(problems, FieldProblem{Field: "complexity", Reason: "must be one of basic, intermediate, advanced"})
	}
	if strings.TrimSpace(req.Category) == "" {
		problems = append(problems, FieldProblem{Field: "category", Reason: "is required"})
	}
	switch {
	case req.TotalCount < 1:
		problems = append(problems, FieldProblem{Field: "totalCount", Reason: "must be at least 1"})
	case g.config.MaxQuestions > 0 && req.TotalCount > g.config.MaxQuestions:
		problems = append(problems, FieldProblem{Field: "totalCount", Reason: fmt.Sprintf("must not exceed %d", g.config.MaxQuestions)})
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
