package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"smartcal/internal/store"
)

// NewDoneCommand creates the `done` command
func NewDoneCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a reminder task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			st, err := store.Open(opts.Config.Store.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Complete(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Printf("✅ Completed task #%d\n", id)
			return nil
		},
	}
}
