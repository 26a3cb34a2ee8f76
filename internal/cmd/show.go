package cmd

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dsaview/internal/ai"
	"dsaview/internal/domain"
	"dsaview/internal/ui"
)

var (
	explainQuestion   string
	explainStructured bool
	explainJSON       bool
)

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print the source of a solution",
	Long: `Print the source of a solution file as listed by search or filter.

On a terminal the file is syntax highlighted; otherwise it is written
unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var explainCmd = &cobra.Command{
	Use:   "explain <path>",
	Short: "Ask the AI service about a solution",
	Long: `Fetch a solution file and ask the explanation service about it.

Examples:
  dsaview explain /Arrays/two_sum.py -q "why a hash map?"
  dsaview explain /Graphs/bfs.py -q "walk me through it" --structured`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().StringVarP(&explainQuestion, "question", "q", "", "question to ask (required)")
	explainCmd.Flags().BoolVar(&explainStructured, "structured", false, "ask for a step-by-step explanation")
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "print the structured explanation as JSON")
	_ = explainCmd.MarkFlagRequired("question")

	rootCmd.AddCommand(showCmd, explainCmd)
}

func itemFor(p string) domain.SearchResultItem {
	return domain.SearchResultItem{Name: path.Base(p), Path: p}
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	file, err := a.client.FetchFile(cmd.Context(), itemFor(args[0]))
	if err != nil {
		a.logger.Warn("fetch failed", zap.String("path", args[0]), zap.Error(err))
		return err
	}

	w := cmd.OutOrStdout()
	if !isTerminal(w) {
		_, err = fmt.Fprint(w, file.Content)
		return err
	}
	r := ui.NewRenderer(a.dark())
	_, err = fmt.Fprintln(w, r.Code(file.Path, file.Content, terminalWidth(w)))
	return err
}

func runExplain(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	file, err := a.client.FetchFile(ctx, itemFor(args[0]))
	if err != nil {
		a.logger.Warn("fetch failed", zap.String("path", args[0]), zap.Error(err))
		return err
	}

	orc := ai.NewOrchestrator()
	kind := ai.Freeform
	if explainStructured || explainJSON {
		kind = ai.Structured
	}
	req, ok := orc.Begin(kind, file.Content, explainQuestion)
	if !ok {
		return fmt.Errorf("question is empty or the file has no content")
	}

	if kind == ai.Structured {
		s, err := a.explainer.ExplainStructured(ctx, req.Code, req.Question)
		if err != nil {
			orc.Fail(req, err)
			return fmt.Errorf("%s: %w", orc.Err(), err)
		}
		if explainJSON {
			return writeJSON(cmd.OutOrStdout(), s)
		}
		return printMarkdown(cmd.OutOrStdout(), ai.Markdown(s), a.dark)
	}

	md, err := a.explainer.Explain(ctx, req.Code, req.Question)
	if err != nil {
		orc.Fail(req, err)
		return fmt.Errorf("%s: %w", orc.Err(), err)
	}
	return printMarkdown(cmd.OutOrStdout(), md, a.dark)
}
