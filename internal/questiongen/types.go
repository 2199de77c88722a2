package questiongen

import (
	"fmt"
	"strings"
)

// TypeID identifies a question format.
type TypeID string

const (
	TypeMultipleChoice TypeID = "multiple_choice"
	TypeTrueFalse      TypeID = "true_false"
	TypeMatching       TypeID = "matching"

	// Pass-through formats. They may come back from the model but are
	// never requested and never synthesized.
	TypeParagraph    TypeID = "paragraph"
	TypeFillInBlanks TypeID = "fill_in_blanks"
	TypeFileUpload   TypeID = "file_upload"
	TypeDropdown     TypeID = "dropdown"
)

// SupportedTypes lists the formats a request may ask for, in canonical order.
var SupportedTypes = []TypeID{TypeMultipleChoice, TypeTrueFalse, TypeMatching}

// Synthesizable reports whether the reconciler can build questions of type t.
func (t TypeID) Synthesizable() bool {
	switch t {
	case TypeMultipleChoice, TypeTrueFalse, TypeMatching:
		return true
	}
	return false
}

// ParseTypeID normalizes spelling variants ("True-False", "multiple choice")
// to the canonical snake_case form. Unknown names are returned normalized
// but otherwise untouched.
func ParseTypeID(s string) TypeID {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_", "/", "_").Replace(s)
	switch s {
	case "mcq", "multiplechoice":
		return TypeMultipleChoice
	case "truefalse", "boolean", "true_or_false":
		return TypeTrueFalse
	case "match":
		return TypeMatching
	case "fill_in_the_blank", "fill_in_the_blanks", "fill_in_blank":
		return TypeFillInBlanks
	}
	return TypeID(s)
}

// NormalizeTypes filters raw to the supported set, drops duplicates keeping
// the first occurrence, and falls back to multiple_choice when nothing
// survives. The result is never empty.
func NormalizeTypes(raw []TypeID) []TypeID {
	seen := make(map[TypeID]bool, len(raw))
	out := make([]TypeID, 0, len(raw))
	for _, r := range raw {
		t := ParseTypeID(string(r))
		if !t.Synthesizable() || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return []TypeID{TypeMultipleChoice}
	}
	return out
}

// Complexity is the requested difficulty of the generated questions.
type Complexity string

const (
	ComplexityBasic        Complexity = "basic"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// Valid reports whether c is one of the known levels.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexityBasic, ComplexityIntermediate, ComplexityAdvanced:
		return true
	}
	return false
}

// GenerationRequest is one call's worth of input. It is not modified by
// the generator.
type GenerationRequest struct {
	Topic          string     `json:"topic"`
	Instructions   string     `json:"instructions,omitempty"`
	Complexity     Complexity `json:"complexity"`
	Category       string     `json:"category"`
	TotalCount     int        `json:"totalCount"`
	RequestedTypes []TypeID   `json:"requestedTypes"`
}

// TypeCount is one entry of a Distribution.
type TypeCount struct {
	Type  TypeID `json:"type"`
	Count int    `json:"count"`
}

// Distribution holds per-type target counts in request order.
type Distribution []TypeCount

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	n := 0
	for _, tc := range d {
		n += tc.Count
	}
	return n
}

// Count returns the target for t, or 0 if t is not a target.
func (d Distribution) Count(t TypeID) int {
	for _, tc := range d {
		if tc.Type == t {
			return tc.Count
		}
	}
	return 0
}

// Has reports whether t is a target type.
func (d Distribution) Has(t TypeID) bool {
	for _, tc := range d {
		if tc.Type == t {
			return true
		}
	}
	return false
}

func (d Distribution) String() string {
	parts := make([]string, len(d))
	for i, tc := range d {
		parts[i] = fmt.Sprintf("%s=%d", tc.Type, tc.Count)
	}
	return strings.Join(parts, ", ")
}
