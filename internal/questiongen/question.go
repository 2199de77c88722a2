package questiongen

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// Question is a single generated quiz question.
//
// The shape of Options and CorrectAnswer depends on Type:
//   - multiple_choice: plain options, CorrectAnswer is a single index.
//   - true_false: options "True" and "False", CorrectAnswer 0 or 1.
//   - matching: each option carries its right-hand item in Match and
//     CorrectAnswer lists, for every left item i, the index of its pair.
type Question struct {
	Type          TypeID    `json:"type"`
	Text          string    `json:"text"`
	Options       []Option  `json:"options"`
	CorrectAnswer AnswerKey `json:"correctAnswer"`
	Explanation   string    `json:"explanation,omitempty"`
}

// questionWire accepts the field names models actually produce.
type questionWire struct {
	Type           string     `json:"type"`
	Text           string     `json:"text"`
	Question       string     `json:"question"`
	Options        []Option   `json:"options"`
	Choices        []Option   `json:"choices"`
	CorrectAnswer  *AnswerKey `json:"correctAnswer"`
	CorrectAnswer2 *AnswerKey `json:"correct_answer"`
	Answer         *AnswerKey `json:"answer"`
	Explanation    string     `json:"explanation"`
}

// UnmarshalJSON decodes a question leniently: "question" stands in for
// "text", "choices" for "options", and "correct_answer" or "answer" for
// "correctAnswer". Answers given as option text are resolved to indices.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*q = Question{
		Type:        ParseTypeID(w.Type),
		Text:        firstNonEmpty(w.Text, w.Question),
		Options:     w.Options,
		Explanation: strings.TrimSpace(w.Explanation),
	}
	if q.Options == nil {
		q.Options = w.Choices
	}

	for _, k := range []*AnswerKey{w.CorrectAnswer, w.CorrectAnswer2, w.Answer} {
		if k != nil && !k.IsZero() {
			q.CorrectAnswer = k.resolve(q.Options)
			break
		}
	}

	// Strict schemas send every answer as a list.
	if q.Type != TypeMatching && q.CorrectAnswer.IsList() {
		if idx := q.CorrectAnswer.Indices(); len(idx) == 1 {
			q.CorrectAnswer = SingleAnswer(idx[0])
		}
	}
	return nil
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	q.Options = slices.Clone(q.Options)
	q.CorrectAnswer.indices = slices.Clone(q.CorrectAnswer.indices)
	return q
}

// OptionTexts returns the non-empty option texts in order.
func (q Question) OptionTexts() []string {
	var out []string
	for _, o := range q.Options {
		if t := strings.TrimSpace(o.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Option is an answer choice. Match is only used by matching questions
// and holds the right-hand item shown in position i.
type Option struct {
	Text  string `json:"text"`
	Match string `json:"match,omitempty"`
}

// MarshalJSON writes plain options as bare strings.
func (o Option) MarshalJSON() ([]byte, error) {
	if o.Match == "" {
		return json.Marshal(o.Text)
	}
	type plain Option
	return json.Marshal(plain(o))
}

// UnmarshalJSON accepts a bare string, a number, or an object with
// text/match (or left/right) keys.
func (o *Option) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*o = Option{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = Option{Text: s}
		return nil
	case data[0] == '{':
		var w struct {
			Text  string `json:"text"`
			Left  string `json:"left"`
			Match string `json:"match"`
			Right string `json:"right"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*o = Option{Text: firstNonEmpty(w.Text, w.Left), Match: firstNonEmpty(w.Match, w.Right)}
		return nil
	default:
		// Numbers and booleans show up as option values now and then.
		*o = Option{Text: string(data)}
		return nil
	}
}

// AnswerKey is either a single option index or a list of indices.
// The zero value means no answer was given.
type AnswerKey struct {
	indices []int
	list    bool

	// text holds an answer given as option text until it is resolved
	// against the question's options.
	text string
}

// SingleAnswer returns a key pointing at option i.
func SingleAnswer(i int) AnswerKey {
	return AnswerKey{indices: []int{i}}
}

// ListAnswer returns a key holding an index per item.
func ListAnswer(indices ...int) AnswerKey {
	return AnswerKey{indices: slices.Clone(indices), list: true}
}

// IsZero reports whether no answer is set.
func (k AnswerKey) IsZero() bool {
	return len(k.indices) == 0 && !k.list && k.text == ""
}

// IsList reports whether k is an index list.
func (k AnswerKey) IsList() bool { return k.list }

// Index returns the single index, and false for lists and unset keys.
func (k AnswerKey) Index() (int, bool) {
	if k.list || len(k.indices) != 1 {
		return 0, false
	}
	return k.indices[0], true
}

// Indices returns a copy of all indices held by k.
func (k AnswerKey) Indices() []int {
	return slices.Clone(k.indices)
}

func (k AnswerKey) MarshalJSON() ([]byte, error) {
	switch {
	case k.list:
		if k.indices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(k.indices)
	case len(k.indices) == 1:
		return json.Marshal(k.indices[0])
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts integers, numeric strings, booleans (true is 0,
// false is 1, matching the True/False option order), arrays of those, and
// free text which is resolved against the options later. Values that fit
// none of these leave the key unset rather than failing the whole reply.
func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*k = AnswerKey{}
	switch t := v.(type) {
	case []any:
		indices := make([]int, 0, len(t))
		for _, e := range t {
			i, ok := scalarIndex(e)
			if !ok {
				return nil
			}
			indices = append(indices, i)
		}
		*k = AnswerKey{indices: indices, list: true}
	case string:
		if i, ok := scalarIndex(t); ok {
			*k = SingleAnswer(i)
		} else {
			k.text = strings.TrimSpace(t)
		}
	default:
		if i, ok := scalarIndex(t); ok {
			*k = SingleAnswer(i)
		}
	}
	return nil
}

// resolve turns a text answer into an index using options: exact option
// text first (case-insensitive), then a letter label ("B"), then the words
// true/false. Unresolvable text leaves the key unset.
func (k AnswerKey) resolve(options []Option) AnswerKey {
	if k.text == "" {
		return k
	}
	for i, o := range options {
		if strings.EqualFold(strings.TrimSpace(o.Text), k.text) {
			return SingleAnswer(i)
		}
	}
	if len(k.text) == 1 {
		if c := k.text[0] | 0x20; c >= 'a' && c <= 'z' && int(c-'a') < len(options) {
			return SingleAnswer(int(c - 'a'))
		}
	}
	switch strings.ToLower(k.text) {
	case "true":
		return SingleAnswer(0)
	case "false":
		return SingleAnswer(1)
	}
	return AnswerKey{}
}

func scalarIndex(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) || t < 0 {
			return 0, false
		}
		return int(t), true
	case bool:
		if t {
			return 0, true
		}
		return 1, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil || i < 0 {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
