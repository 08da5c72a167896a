package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List Freshdesk agents and their ids",
	Long: `Lists Freshdesk agents so assignees can be mapped, e.g.
ASSIGNEE_MAP_octocat=<id>.`,
	Annotations: map[string]string{needsServices: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if agentLister == nil {
			return errors.New("freshdesk client not configured")
		}

		agents, err := agentLister.ListAgents(commandContext(cmd))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL")
		for _, a := range agents {
			fmt.Fprintf(w, "%d\t%s\t%s\n", a.ID, a.Contact.Name, a.Contact.Email)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
