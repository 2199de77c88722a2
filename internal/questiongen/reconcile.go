package questiongen

import (
	"fmt"
	"slices"
)

// ReconcileReport summarizes what the Reconciler changed.
type ReconcileReport struct {
	Parsed      int `json:"parsed"`
	Converted   int `json:"converted"`
	Synthesized int `json:"synthesized"`
	Dropped     int `json:"dropped"`
}

// Reconciler repairs a parsed question list so its per-type counts match a
// Distribution exactly. Apart from the true/false answer, which comes from
// the injected Rand, the result depends only on its inputs.
type Reconciler struct {
	rng Rand
}

// NewReconciler returns a Reconciler drawing true/false answers from rng.
// A nil rng uses the global math/rand/v2 source. An injected *rand.Rand is
// not safe for concurrent use; share it only between sequential calls.
func NewReconciler(rng Rand) *Reconciler {
	if rng == nil {
		rng = globalRand{}
	}
	return &Reconciler{rng: rng}
}

// Reconcile returns a new list of exactly target.Total() questions whose
// count of every type equals its target. parsed is not modified.
//
// Only Synthesizable types are ever produced. A target type that is not
// (paragraph) keeps parsed entries of that type up to its count and is
// otherwise left short, so the result falls below target.Total() only when
// the target names such a type. Plan never emits one.
//
// Steps:
//  1. Tally the parsed types.
//  2. For each synthesizable target type short of its count, in target
//     order, scan the list from the start and convert excess entries in
//     place. An entry is excess when its type is not a target, or its
//     type's tally is above target. The first excess entry found goes to
//     the first type in need.
//  3. Append synthesized questions for any synthesizable deficit left.
//  4. Drop entries still in excess, keeping earlier ones, and truncate.
func (r *Reconciler) Reconcile(parsed []Question, target Distribution, topic string) ([]Question, ReconcileReport) {
	report := ReconcileReport{Parsed: len(parsed)}

	out := make([]Question, len(parsed))
	for i, q := range parsed {
		out[i] = q.Clone()
	}

	actual := make(map[TypeID]int)
	for _, q := range out {
		actual[q.Type]++
	}

	isExcess := func(t TypeID) bool {
		return !target.Has(t) || actual[t] > target.Count(t)
	}

	for _, tc := range target {
		if !tc.Type.Synthesizable() {
			continue
		}
		for i := 0; i < len(out) && actual[tc.Type] < tc.Count; i++ {
			from := out[i].Type
			if !isExcess(from) {
				continue
			}
			out[i] = r.convert(out[i], tc.Type, topic)
			actual[from]--
			actual[tc.Type]++
			report.Converted++
		}
	}

	n := 0
	for _, tc := range target {
		if !tc.Type.Synthesizable() {
			continue
		}
		for actual[tc.Type] < tc.Count {
			n++
			out = append(out, r.synthesize(tc.Type, topic, n))
			actual[tc.Type]++
			report.Synthesized++
		}
	}

	kept := make(map[TypeID]int, len(target))
	final := out[:0]
	for _, q := range out {
		if kept[q.Type] >= target.Count(q.Type) {
			report.Dropped++
			continue
		}
		kept[q.Type]++
		final = append(final, q)
	}

	if total := target.Total(); len(final) > total {
		report.Dropped += len(final) - total
		final = final[:total]
	}
	return slices.Clip(final), report
}

// convert rebuilds q as type t, reusing whatever content fits.
func (r *Reconciler) convert(q Question, t TypeID, topic string) Question {
	switch t {
	case TypeTrueFalse:
		return r.trueFalse(q, topic)
	case TypeMatching:
		return matching(q, topic)
	default:
		return multipleChoice(q, topic)
	}
}

// synthesize builds the n-th brand-new question of type t.
func (r *Reconciler) synthesize(t TypeID, topic string, n int) Question {
	var text string
	switch t {
	case TypeTrueFalse:
		text = fmt.Sprintf("Statement %d: %s is an important subject of study.", n, topic)
	case TypeMatching:
		text = fmt.Sprintf("Question %d: Match each item about %s with its pair.", n, topic)
	default:
		text = fmt.Sprintf("Question %d: Which of the following relates to %s?", n, topic)
	}
	return r.convert(Question{Text: text}, t, topic)
}

func (r *Reconciler) trueFalse(q Question, topic string) Question {
	text := q.Text
	if text == "" {
		text = fmt.Sprintf("Is it true that %s is important?", topic)
	}
	return Question{
		Type:          TypeTrueFalse,
		Text:          text,
		Options:       []Option{{Text: "True"}, {Text: "False"}},
		CorrectAnswer: SingleAnswer(r.rng.IntN(2)),
		Explanation:   explanationOr(q, topic),
	}
}

func matching(q Question, topic string) Question {
	left := q.OptionTexts()
	if len(left) > 2 {
		left = left[:2]
	}
	for len(left) < 2 {
		left = append(left, fmt.Sprintf("Item %d about %s", len(left)+1, topic))
	}

	n := len(left)
	options := make([]Option, n)
	answer := make([]int, n)
	for i := range left {
		options[i] = Option{Text: left[i], Match: left[n-1-i]}
		answer[i] = n - 1 - i
	}

	text := q.Text
	if text == "" {
		text = fmt.Sprintf("Match each item about %s with its pair.", topic)
	}
	return Question{
		Type:          TypeMatching,
		Text:          text,
		Options:       options,
		CorrectAnswer: ListAnswer(answer...),
		Explanation:   explanationOr(q, topic),
	}
}

func multipleChoice(q Question, topic string) Question {
	var options []Option
	for _, t := range q.OptionTexts() {
		options = append(options, Option{Text: t})
	}
	if len(options) == 0 {
		for i := 1; i <= 4; i++ {
			options = append(options, Option{Text: fmt.Sprintf("Option %d about %s", i, topic)})
		}
	}

	text := q.Text
	if text == "" {
		text = fmt.Sprintf("Which of the following relates to %s?", topic)
	}
	return Question{
		Type:          TypeMultipleChoice,
		Text:          text,
		Options:       options,
		CorrectAnswer: SingleAnswer(0),
		Explanation:   explanationOr(q, topic),
	}
}

func explanationOr(q Question, topic string) string {
	if q.Explanation != "" {
		return q.Explanation
	}
	return fmt.Sprintf("Review the key ideas of %s to see why this answer is correct.", topic)
}
