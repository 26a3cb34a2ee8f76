package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dsaview/internal/debounce"
	"dsaview/internal/domain"
)

var resultsJSON bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search solutions by name",
	Long: `Search the solution index and print the matching files in server order.

Examples:
  dsaview search "two sum"
  dsaview search bfs --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var filterCmd = &cobra.Command{
	Use:   "filter <category>",
	Short: "List solutions for a data structure",
	Long: `List every solution tagged with a data-structure category.

Categories are matched loosely, so "binary-search" and "linked lists"
resolve to their canonical names. See dsaview categories.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the data-structure categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range domain.Categories {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, filterCmd} {
		c.Flags().BoolVar(&resultsJSON, "json", false, "print results as JSON")
	}
	rootCmd.AddCommand(searchCmd, filterCmd, categoriesCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	emit := debounce.Classify(strings.Join(args, " "), a.cfg.UI.MinQueryLength)
	switch emit.Kind {
	case debounce.EmitClear:
		return fmt.Errorf("query is empty")
	case debounce.EmitNone:
		return fmt.Errorf("query must be at least %d characters", a.cfg.UI.MinQueryLength)
	}
	query := emit.Query

	items, err := a.client.Search(cmd.Context(), query)
	if err != nil {
		a.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return err
	}
	return printResults(cmd.OutOrStdout(), items, resultsJSON)
}

func runFilter(cmd *cobra.Command, args []string) error {
	category, ok := domain.NormalizeCategory(args[0])
	if !ok || category == "" {
		return fmt.Errorf("unknown category %q (one of: %s)", args[0], strings.Join(domain.Categories, ", "))
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	items, err := a.client.Filter(cmd.Context(), category)
	if err != nil {
		a.logger.Warn("filter failed", zap.String("category", category), zap.Error(err))
		return err
	}
	return printResults(cmd.OutOrStdout(), items, resultsJSON)
}
