package questiongen

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/quizgen/internal/llm"
)

// Extraction strategies, in the order they are tried.
const (
	StrategyRaw       = "raw"
	StrategyJSONFence = "json_fence"
	StrategyAnyFence  = "fence"
	StrategyEmbedded  = "embedded"
)

var (
	jsonFence = regexp.MustCompile("(?is)```json[ \\t]*\\r?\\n?(.*?)```")
	anyFence  = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n?(.*?)```")
)

var errNoCandidate = errors.New("no JSON object with a questions array found")

// Extract recovers the question list from raw model output. It tries, in
// order: the whole text as JSON, the first ```json fenced block, the first
// fenced block of any kind, and finally any balanced {...} object embedded
// in prose. Trailing commas are tolerated. Failure is a *ParseError.
func Extract(raw string) ([]Question, error) {
	qs, _, err := extract(raw)
	return qs, err
}

func extract(raw string) ([]Question, string, error) {
	type candidate struct {
		strategy string
		text     string
	}

	candidates := []candidate{{StrategyRaw, strings.TrimSpace(raw)}}
	if m := jsonFence.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, candidate{StrategyJSONFence, m[1]})
	}
	if m := anyFence.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, candidate{StrategyAnyFence, m[1]})
	}
	for _, obj := range balancedObjects(raw) {
		candidates = append(candidates, candidate{StrategyEmbedded, obj})
	}

	lastErr := errNoCandidate
	for _, c := range candidates {
		qs, err := decodeEnvelope(c.text)
		if err == nil {
			return qs, c.strategy, nil
		}
		if c.strategy != StrategyEmbedded {
			lastErr = fmt.Errorf("%s: %w", c.strategy, err)
		}
	}
	return nil, "", newParseError(raw, lastErr)
}

func decodeEnvelope(text string) ([]Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty input")
	}
	cleaned := []byte(stripTrailingCommas(text))

	var generic any
	if err := json.Unmarshal(cleaned, &generic); err != nil {
		return nil, err
	}
	if err := llm.ValidateValue(EnvelopeSchema, generic); err != nil {
		return nil, err
	}

	var env struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal(cleaned, &env); err != nil {
		return nil, err
	}
	if env.Questions == nil {
		env.Questions = []Question{}
	}
	return env.Questions, nil
}

// stripTrailingCommas removes commas that directly precede a closing } or ]
// (ignoring whitespace). String literals are left alone.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isJSONSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// balancedObjects returns every top-level {...} span in s whose braces
// balance, skipping braces inside string literals.
func balancedObjects(s string) []string {
	var out []string
	depth, start := 0, -1
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				out = append(out, s[start:i+1])
			}
		}
	}
	return out
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
