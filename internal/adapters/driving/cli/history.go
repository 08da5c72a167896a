package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyIssue int
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded ticket submissions",
	Long: `Lists journal entries, newest first.

History survives between runs only when JOURNAL_PATH names a sqlite file.
Without it the journal lives in memory and this command has nothing to show.`,
	Annotations: map[string]string{needsServices: "true"},
	RunE:        runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyIssue, "issue", 0, "only entries for this issue")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if journalReader == nil {
		return errors.New("journal not configured")
	}

	entries, err := journalReader.History(commandContext(cmd), historyIssue, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		cmd.Println("No submissions recorded. Set JOURNAL_PATH to keep history between runs.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tRUN\tISSUE\tTICKET\tOUTCOME\tMARKED\tERROR")
	for _, e := range entries {
		ticket := "-"
		if e.TicketID != 0 {
			ticket = fmt.Sprintf("%d", e.TicketID)
		}
		fmt.Fprintf(w, "%s\t%s\t#%d\t%s\t%s\t%t\t%s\n",
			e.RecordedAt.Local().Format(time.DateTime), shortID(e.RunID), e.IssueNumber,
			ticket, e.Outcome, e.Marked, e.Error)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
