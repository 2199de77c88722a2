package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/questiongen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate quiz questions and print them as JSON",
	Example: `  quizgen generate --topic "Solar System" --count 6 --types multiple_choice,true_false,matching
  quizgen generate --topic "Fractions" --complexity basic --category Math --report`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		types, _ := cmd.Flags().GetStringSlice("types")
		complexity, _ := cmd.Flags().GetString("complexity")
		category, _ := cmd.Flags().GetString("category")
		instructions, _ := cmd.Flags().GetString("instructions")
		showReport, _ := cmd.Flags().GetBool("report")

		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := contextOrBackground(cmd)
		gen := newGenerator(cmd, s, log)

		req := questiongen.GenerationRequest{
			Topic:          topic,
			Instructions:   instructions,
			Complexity:     questiongen.Complexity(complexity),
			Category:       category,
			TotalCount:     count,
			RequestedTypes: parseTypes(types),
		}
		res, err := gen.GenerateResult(ctx, req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Questions); err != nil {
			return fmt.Errorf("write questions: %w", err)
		}

		if showReport {
			w := cmd.ErrOrStderr()
			fmt.Fprintf(w, "Request:     %s\n", res.RequestID)
			fmt.Fprintf(w, "Target:      %s\n", res.Target)
			fmt.Fprintf(w, "Extraction:  %s\n", res.Strategy)
			fmt.Fprintf(w, "Parsed:      %d\n", res.Report.Parsed)
			fmt.Fprintf(w, "Converted:   %d\n", res.Report.Converted)
			fmt.Fprintf(w, "Synthesized: %d\n", res.Report.Synthesized)
			fmt.Fprintf(w, "Dropped:     %d\n", res.Report.Dropped)
		}
		return nil
	},
}

func parseTypes(raw []string) []questiongen.TypeID {
	out := make([]questiongen.TypeID, 0, len(raw))
	for _, r := range raw {
		out = append(out, questiongen.ParseTypeID(r))
	}
	return out
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Subject of the questions")
	generateCmd.Flags().IntP("count", "n", 5, "Total number of questions")
	generateCmd.Flags().StringSlice("types", []string{string(questiongen.TypeMultipleChoice)}, "Question types: multiple_choice, true_false, matching")
	generateCmd.Flags().String("complexity", string(questiongen.ComplexityIntermediate), "Difficulty: basic, intermediate or advanced")
	generateCmd.Flags().String("category", "general", "Subject area")
	generateCmd.Flags().String("instructions", "", "Extra guidance for the model")
	generateCmd.Flags().Bool("structured", false, "Ask the provider for schema-constrained JSON (overrides QUIZGEN_STRUCTURED_OUTPUT env var)")
	generateCmd.Flags().Bool("report", false, "Print the plan and repair summary to stderr")
}
