package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"my/internal/core"
	applog "my/internal/log"
	"my/internal/report"
	"my/internal/services"
	"my/internal/sheets/csvfile"
)

func newExpensesCommand(deps Deps) *cobra.Command {
	cfg := deps.Config
	var (
		format     string
		categories string
		byYear     bool
	)

	cmd := &cobra.Command{
		Use:   "expenses <files...>",
		Short: "Sum expenses per month and spending group",
		Long: "Reads one or more CSV files with Timestamp, Amount and Category columns,\n" +
			"sums amounts per calendar month and spending group and prints the grand total.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return core.ErrNoInputFiles
			}
			switch format {
			case report.FormatText, report.FormatJSON, report.FormatYAML:
			default:
				return fmt.Errorf("invalid format %q: must be one of text, json, yaml", format)
			}

			mapping := core.DefaultCategoryMap()
			if categories != "" {
				m, err := core.LoadCategoryMap(categories)
				if err != nil {
					return fmt.Errorf("load categories: %w", err)
				}
				mapping = m
			}

			comma, err := cfg.Delimiter()
			if err != nil {
				return err
			}

			svc := services.NewExpenseService(csvfile.New(comma), mapping, core.AggregateOptions{KeyByYear: byYear}, deps.Logger)
			rep, err := svc.BuildReport(cmd.Context(), args)
			if err != nil {
				return err
			}
			if err := report.Render(cmd.OutOrStdout(), rep, format); err != nil {
				deps.Logger.DebugContext(cmd.Context(), "Failed to render report",
					applog.NewFields().WithOperation(applog.OpRender).WithError(err).ToSlice()...)
				return fmt.Errorf("render report: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", cfg.ExpensesFormat, "output format: text, json or yaml")
	cmd.Flags().StringVar(&categories, "categories", cfg.ExpensesCategoriesFile, "YAML file mapping groups to categories")
	cmd.Flags().BoolVar(&byYear, "by-year", cfg.ExpensesKeyByYear, "key months by month and year")
	return cmd
}
