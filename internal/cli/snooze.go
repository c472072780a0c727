package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"smartcal/internal/store"
	"smartcal/pkg"
)

// NewSnoozeCommand creates the `snooze` command
func NewSnoozeCommand(opts *RootOptions) *cobra.Command {
	var duration string

	cmd := &cobra.Command{
		Use:   "snooze <task-id>",
		Short: "Snooze a reminder task",
		Long: "Pushes a task out of the open list for a while. Durations look like " +
			"1d or 2h; anything else snoozes for one day.",
		Args: cobra.ExactArgs(1),
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

			until := time.Now().Add(pkg.ParseSnoozeDuration(duration))
			if err := st.Snooze(cmd.Context(), id, until); err != nil {
				return err
			}

			fmt.Printf("⏳ Snoozed task #%d until %s\n", id, until.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&duration, "for", "1d", "snooze duration (1d, 2h)")

	return cmd
}
