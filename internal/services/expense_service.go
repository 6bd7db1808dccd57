package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"my/internal/core"
	applog "my/internal/log"
	"my/internal/sheets"
)

// ExpenseService turns expense files into a report.
type ExpenseService struct {
	reader     sheets.ExpenseReader
	categories core.CategoryMap
	opts       core.AggregateOptions
	logger     *applog.Logger
}

func NewExpenseService(reader sheets.ExpenseReader, categories core.CategoryMap, opts core.AggregateOptions, logger *applog.Logger) *ExpenseService {
	if categories == nil {
		categories = core.DefaultCategoryMap()
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExpenseService{
		reader:     reader,
		categories: categories,
		opts:       opts,
		logger:     logger.WithComponent(applog.ComponentExpenses),
	}
}

// LoadExpenses reads every path concurrently and returns the expenses in
// path order, then row order. The first failure cancels the remaining reads
// and no partial result is returned.
func (s *ExpenseService) LoadExpenses(ctx context.Context, paths []string) ([]core.Expense, error) {
	if len(paths) == 0 {
		return nil, core.ErrNoInputFiles
	}

	results := make([][]core.Expense, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			rows, err := s.reader.ReadExpenses(gctx, path)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, rows := range results {
		total += len(rows)
	}
	out := make([]core.Expense, 0, total)
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

// BuildReport loads paths and aggregates them by month and group.
func (s *ExpenseService) BuildReport(ctx context.Context, paths []string) (core.Report, error) {
	start := time.Now()

	expenses, err := s.LoadExpenses(ctx, paths)
	if err != nil {
		s.logger.DebugContext(ctx, "Failed to load expenses",
			applog.NewFields().WithOperation(applog.OpParse).WithError(err).ToSlice()...)
		return core.Report{}, fmt.Errorf("load expenses: %w", err)
	}

	report, err := core.BuildReport(expenses, s.categories, s.opts)
	if err != nil {
		s.logger.DebugContext(ctx, "Failed to aggregate expenses",
			applog.NewFields().WithOperation(applog.OpAggregate).WithError(err).ToSlice()...)
		return core.Report{}, fmt.Errorf("aggregate expenses: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense report built",
		applog.FieldFiles, len(paths),
		applog.FieldRows, len(expenses),
		applog.FieldMonths, len(report.Months),
		slog.Duration(applog.FieldDuration, time.Since(start)))
	return report, nil
}
