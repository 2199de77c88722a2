package questiongen

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always returns v.
type fixedRand struct{ v int }

func (f fixedRand) IntN(n int) int { return f.v % n }

func mc(text string, opts ...string) Question {
	q := Question{Type: TypeMultipleChoice, Text: text, CorrectAnswer: SingleAnswer(0), Explanation: "because"}
	for _, o := range opts {
		q.Options = append(q.Options, Option{Text: o})
	}
	return q
}

func tf(text string) Question {
	return Question{
		Type:          TypeTrueFalse,
		Text:          text,
		Options:       []Option{{Text: "True"}, {Text: "False"}},
		CorrectAnswer: SingleAnswer(1),
	}
}

func tally(qs []Question) map[TypeID]int {
	out := make(map[TypeID]int)
	for _, q := range qs {
		out[q.Type]++
	}
	return out
}

func TestReconcile_SolarSystemScenario(t *testing.T) {
	parsed := []Question{
		mc("Which planet is largest?", "Mercury", "Jupiter", "Mars", "Venus"),
		mc("Which planet has rings?", "Saturn", "Earth", "Mercury", "Mars"),
		mc("Which planet is red?", "Mars", "Venus", "Earth", "Jupiter"),
		mc("Which planet is hottest?", "Venus", "Mercury", "Mars", "Earth"),
		tf("The Sun is a star."),
		tf("Pluto is a planet."),
	}
	target := Plan(NormalizeTypes([]TypeID{"multiple_choice", "true_false", "matching"}), 6)
	require.Equal(t, Distribution{{TypeMultipleChoice, 2}, {TypeTrueFalse, 2}, {TypeMatching, 2}}, target)

	got, report := NewReconciler(fixedRand{}).Reconcile(parsed, target, "Solar System")

	require.Len(t, got, 6)
	assert.Equal(t, map[TypeID]int{TypeMultipleChoice: 2, TypeTrueFalse: 2, TypeMatching: 2}, tally(got))
	assert.Equal(t, ReconcileReport{Parsed: 6, Converted: 2}, report)

	// The first two multiple_choice entries were the excess ones converted.
	assert.Equal(t, TypeMatching, got[0].Type)
	assert.Equal(t, "Which planet is largest?", got[0].Text)
	assert.Equal(t, []Option{{Text: "Mercury", Match: "Jupiter"}, {Text: "Jupiter", Match: "Mercury"}}, got[0].Options)
	assert.Equal(t, ListAnswer(1, 0), got[0].CorrectAnswer)
	assert.Equal(t, "because", got[0].Explanation)

	assert.Equal(t, TypeMatching, got[1].Type)
	assert.Equal(t, "Which planet has rings?", got[1].Text)

	assert.Equal(t, parsed[2], got[2])
	assert.Equal(t, parsed[3], got[3])
	assert.Equal(t, parsed[4], got[4])
	assert.Equal(t, parsed[5], got[5])
}

func TestReconcile_CountInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pool := []TypeID{TypeMultipleChoice, TypeTrueFalse, TypeMatching, TypeParagraph, TypeDropdown}

	for iter := 0; iter < 500; iter++ {
		var types []TypeID
		for _, typ := range SupportedTypes {
			if rng.IntN(2) == 0 {
				types = append(types, typ)
			}
		}
		types = NormalizeTypes(types)
		total := 1 + rng.IntN(12)
		target := Plan(types, total)

		parsed := make([]Question, rng.IntN(20))
		for i := range parsed {
			parsed[i] = Question{
				Type: pool[rng.IntN(len(pool))],
				Text: fmt.Sprintf("q%d", i),
			}
		}

		got, report := NewReconciler(rng).Reconcile(parsed, target, "Topic")

		require.Len(t, got, total, "iter %d", iter)
		counts := tally(got)
		for _, tc := range target {
			assert.Equal(t, tc.Count, counts[tc.Type], "iter %d type %s", iter, tc.Type)
		}
		assert.Len(t, counts, len(target), "iter %d: unexpected types %v", iter, counts)
		assert.Equal(t, len(parsed)+report.Synthesized-report.Dropped, len(got), "iter %d", iter)
	}
}

func TestReconcile_PreservesExactMatch(t *testing.T) {
	parsed := []Question{
		tf("Mars has two moons."),
		mc("Closest planet?", "Mercury", "Venus", "Earth", "Mars"),
		tf("Venus spins backwards."),
	}
	target := Distribution{{TypeMultipleChoice, 1}, {TypeTrueFalse, 2}}

	got, report := NewReconciler(nil).Reconcile(parsed, target, "Solar System")

	assert.Equal(t, parsed, got)
	assert.Equal(t, ReconcileReport{Parsed: 3}, report)
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	parsed := []Question{
		mc("A?", "1", "2", "3", "4"),
		mc("B?", "1", "2", "3", "4"),
		{Type: TypeParagraph, Text: "Describe orbits."},
	}
	before := make([]Question, len(parsed))
	for i, q := range parsed {
		before[i] = q.Clone()
	}

	got, _ := NewReconciler(fixedRand{}).Reconcile(parsed, Distribution{{TypeMatching, 2}, {TypeTrueFalse, 1}}, "Orbits")
	got[0].Options[0].Text = "changed"

	assert.Equal(t, before, parsed)
}

func TestReconcile_ConvertsNonTargetTypesFirstInScanOrder(t *testing.T) {
	parsed := []Question{
		{Type: TypeParagraph, Text: "Explain gravity.", Explanation: "Newton."},
		mc("Heaviest planet?", "Jupiter", "Saturn", "Earth", "Mars"),
	}
	target := Distribution{{TypeTrueFalse, 1}, {TypeMultipleChoice, 1}}

	got, report := NewReconciler(fixedRand{v: 1}).Reconcile(parsed, target, "Physics")

	require.Len(t, got, 2)
	assert.Equal(t, Question{
		Type:          TypeTrueFalse,
		Text:          "Explain gravity.",
		Options:       []Option{{Text: "True"}, {Text: "False"}},
		CorrectAnswer: SingleAnswer(1),
		Explanation:   "Newton.",
	}, got[0])
	assert.Equal(t, parsed[1], got[1])
	assert.Equal(t, ReconcileReport{Parsed: 2, Converted: 1}, report)
}

func TestReconcile_SynthesizesDeficits(t *testing.T) {
	target := Distribution{{TypeMultipleChoice, 2}, {TypeTrueFalse, 1}, {TypeMatching, 1}}

	got, report := NewReconciler(fixedRand{}).Reconcile(nil, target, "Volcanoes")

	require.Len(t, got, 4)
	assert.Equal(t, ReconcileReport{Synthesized: 4}, report)

	assert.Equal(t, Question{
		Type: TypeMultipleChoice,
		Text: "Question 1: Which of the following relates to Volcanoes?",
		Options: []Option{
			{Text: "Option 1 about Volcanoes"},
			{Text: "Option 2 about Volcanoes"},
			{Text: "Option 3 about Volcanoes"},
			{Text: "Option 4 about Volcanoes"},
		},
		CorrectAnswer: SingleAnswer(0),
		Explanation:   "Review the key ideas of Volcanoes to see why this answer is correct.",
	}, got[0])
	assert.Equal(t, "Question 2: Which of the following relates to Volcanoes?", got[1].Text)

	assert.Equal(t, TypeTrueFalse, got[2].Type)
	assert.Equal(t, "Statement 3: Volcanoes is an important subject of study.", got[2].Text)
	assert.Equal(t, SingleAnswer(0), got[2].CorrectAnswer)

	assert.Equal(t, Question{
		Type: TypeMatching,
		Text: "Question 4: Match each item about Volcanoes with its pair.",
		Options: []Option{
			{Text: "Item 1 about Volcanoes", Match: "Item 2 about Volcanoes"},
			{Text: "Item 2 about Volcanoes", Match: "Item 1 about Volcanoes"},
		},
		CorrectAnswer: ListAnswer(1, 0),
		Explanation:   "Review the key ideas of Volcanoes to see why this answer is correct.",
	}, got[3])
}

func TestReconcile_DropsSurplus(t *testing.T) {
	parsed := []Question{
		mc("1?"), mc("2?"), mc("3?"), mc("4?"), mc("5?"),
	}
	target := Distribution{{TypeMultipleChoice, 3}}

	got, report := NewReconciler(nil).Reconcile(parsed, target, "Counting")

	require.Len(t, got, 3)
	assert.Equal(t, []string{"1?", "2?", "3?"}, []string{got[0].Text, got[1].Text, got[2].Text})
	assert.Equal(t, ReconcileReport{Parsed: 5, Dropped: 2}, report)
}

func TestReconcile_MultipleChoiceFromTrueFalseKeepsOptions(t *testing.T) {
	parsed := []Question{tf("Light is faster than sound."), tf("Sound travels in a vacuum.")}
	target := Distribution{{TypeTrueFalse, 1}, {TypeMultipleChoice, 1}}

	got, _ := NewReconciler(nil).Reconcile(parsed, target, "Physics")

	require.Len(t, got, 2)
	assert.Equal(t, parsed[1], got[1])
	assert.Equal(t, TypeMultipleChoice, got[0].Type)
	assert.Equal(t, []Option{{Text: "True"}, {Text: "False"}}, got[0].Options)
	assert.Equal(t, SingleAnswer(0), got[0].CorrectAnswer)
}

func TestReconcile_TrueFalseAnswerFollowsRand(t *testing.T) {
	target := Distribution{{TypeTrueFalse, 8}}

	a, _ := NewReconciler(rand.New(rand.NewPCG(1, 2))).Reconcile(nil, target, "Chance")
	b, _ := NewReconciler(rand.New(rand.NewPCG(1, 2))).Reconcile(nil, target, "Chance")
	assert.Equal(t, a, b)

	for _, q := range a {
		idx, ok := q.CorrectAnswer.Index()
		require.True(t, ok)
		assert.Contains(t, []int{0, 1}, idx)
	}
}

func TestReconcile_EmptyTarget(t *testing.T) {
	got, report := NewReconciler(nil).Reconcile([]Question{mc("x")}, Distribution{}, "Nothing")
	assert.Empty(t, got)
	assert.Equal(t, 1, report.Dropped)
}

func TestReconcile_NonSynthesizableTargetIsNeverProduced(t *testing.T) {
	target := Distribution{{TypeParagraph, 1}, {TypeMultipleChoice, 1}}

	t.Run("missing entry is left short", func(t *testing.T) {
		parsed := []Question{mc("First?", "a", "b"), mc("Second?", "c", "d")}

		got, report := NewReconciler(fixedRand{}).Reconcile(parsed, target, "Tides")

		require.Len(t, got, 1)
		assert.Equal(t, map[TypeID]int{TypeMultipleChoice: 1}, tally(got))
		assert.Equal(t, "First?", got[0].Text)
		assert.Equal(t, ReconcileReport{Parsed: 2, Dropped: 1}, report)
	})

	t.Run("parsed entry is kept", func(t *testing.T) {
		essay := Question{Type: TypeParagraph, Text: "Describe the tides.", Explanation: "because"}
		parsed := []Question{mc("First?", "a", "b"), essay, mc("Second?", "c", "d")}

		got, report := NewReconciler(fixedRand{}).Reconcile(parsed, target, "Tides")

		require.Len(t, got, 2)
		assert.Equal(t, map[TypeID]int{TypeParagraph: 1, TypeMultipleChoice: 1}, tally(got))
		assert.Equal(t, essay, got[1])
		assert.Equal(t, ReconcileReport{Parsed: 3, Dropped: 1}, report)
	})
}
