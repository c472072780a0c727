package cli

import (
	"github.com/spf13/cobra"

	"smartcal/internal/store"
)

// NewListCommand creates the `list` command
func NewListCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show open reminder tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(opts.Config.Store.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			return printOpenTasks(cmd.Context(), st, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "maximum number of tasks to show")

	return cmd
}
