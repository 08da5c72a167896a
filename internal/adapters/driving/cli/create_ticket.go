package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/ports/driving"
	"github.com/optz/gh-freshdesk/internal/core/services"
)

var (
	fromFlag       string
	toFlag         string
	openFlag       bool
	issueFlag      int
	dryRunFlag     bool
	maxBatchesFlag int
	scheduleFlag   string
)

var createTicketCmd = &cobra.Command{
	Use:   "create-ticket",
	Short: "Create Freshdesk tickets from GitHub issues",
	Long: `Creates a Freshdesk ticket for each GitHub issue that is not labelled as
processed yet, then adds the label to the issue.

Issues are read oldest first. --from and --to bound the creation date
(exclusive). Only closed issues are considered unless --open is given.
With --issue, only that issue is processed and all filters are ignored.

Dates accept 2006-01-02, 2006-01-02T15:04:05 or RFC 3339
(2006-01-02T15:04:05Z07:00). Dates without an offset are read in local time.`,
	Example: `  gh-freshdesk create-ticket --from 2024-01-01 --to 2024-02-01
  gh-freshdesk create-ticket --issue 42
  gh-freshdesk create-ticket --open --schedule "@every 15m"`,
	Annotations: map[string]string{needsServices: "true"},
	RunE:        runCreateTicket,
}

func init() {
	f := createTicketCmd.Flags()
	f.StringVar(&fromFlag, "from", "", "only issues created after this date")
	f.StringVar(&toFlag, "to", "", "only issues created before this date")
	f.BoolVar(&openFlag, "open", false, "include open issues")
	f.IntVar(&issueFlag, "issue", 0, "process a single issue by number, ignoring filters")
	f.BoolVar(&dryRunFlag, "dry-run", false, "render tickets without creating them or labelling issues")
	f.IntVar(&maxBatchesFlag, "max-batches", 0, "stop after this many pages (0 = no limit)")
	f.StringVar(&scheduleFlag, "schedule", "", "repeat on a cron schedule, e.g. \"@hourly\" or \"*/15 * * * *\"")
	rootCmd.AddCommand(createTicketCmd)
}

func runCreateTicket(cmd *cobra.Command, _ []string) error {
	if err := requireMigrator(); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	opts := driving.RunOptions{DryRun: dryRunFlag, MaxBatches: maxBatchesFlag}

	if issueFlag != 0 {
		if issueFlag < 0 {
			return fmt.Errorf("%w: --issue must be a positive issue number", domain.ErrInvalidInput)
		}
		if scheduleFlag != "" {
			return fmt.Errorf("%w: --schedule cannot be combined with --issue", domain.ErrInvalidInput)
		}
		report, err := migrator.MigrateIssue(ctx, issueFlag, opts)
		printReport(cmd, report)
		return err
	}

	filter, err := buildFilter(fromFlag, toFlag, openFlag)
	if err != nil {
		return err
	}

	run := func(ctx context.Context) error {
		report, err := migrator.MigrateFiltered(ctx, filter, opts)
		printReport(cmd, report)
		return err
	}

	if scheduleFlag == "" {
		return run(ctx)
	}

	scheduler, err := services.NewScheduler(scheduleFlag, run, services.WithImmediateRun())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printReport(cmd *cobra.Command, report *domain.RunReport) {
	if report == nil {
		return
	}
	prefix := ""
	if report.DryRun {
		prefix = "[dry-run] "
	}
	cmd.Printf("%s%s\n", prefix, report)
}

// buildFilter parses the date flags.
func buildFilter(from, to string, includeOpen bool) (domain.IssuesFilter, error) {
	filter := domain.IssuesFilter{IncludeOpen: includeOpen}

	var err error
	if filter.From, err = parseDate("from", from); err != nil {
		return filter, err
	}
	if filter.To, err = parseDate("to", to); err != nil {
		return filter, err
	}
	if filter.HasFrom() && filter.HasTo() && !filter.From.Before(filter.To) {
		return filter, fmt.Errorf("%w: --from must be before --to", domain.ErrInvalidInput)
	}
	return filter, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", time.DateOnly}

// dateLocation applies to dates given without an offset.
var dateLocation = time.Local

func parseDate(flag, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, dateLocation); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: --%s %q is not a date (use 2006-01-02 or RFC 3339)", domain.ErrInvalidInput, flag, value)
}
