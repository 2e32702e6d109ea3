package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/abelbrown/dailybugle/internal/config"
	"github.com/abelbrown/dailybugle/internal/journal"
	"github.com/spf13/cobra"
)

func newEventsCmd(cfg **config.Config) *cobra.Command {
	var (
		tail    int
		filter  journal.Filter
		level   string
		rawJSON bool
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the activity journal",
		Long: `Show recent entries of the activity journal written by the board,
seed and login commands.

Examples:
  dailybugle events                    # Last 50 events
  dailybugle events --kind news        # Only feed mutations
  dailybugle events --level warn       # Rejections and failures
  dailybugle events --user user-a      # One author`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := (*cfg).EventLogPath()
			f, err := os.Open(path)
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(cmd.OutOrStdout(), "No journal at %s yet.\n", path)
				return nil
			}
			if err != nil {
				return err
			}
			defer f.Close()

			filter.MinLevel = journal.Level(level)
			lines, err := journal.Tail(f, tail, filter)
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			for _, l := range lines {
				if rawJSON {
					fmt.Fprintln(cmd.OutOrStdout(), string(l.Raw))
					continue
				}
				printEvent(cmd.OutOrStdout(), l.Event)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&tail, "tail", 50, "number of recent events to show")
	flags.StringVar(&filter.Kind, "kind", "", "filter by kind prefix (e.g. 'fetch')")
	flags.StringVar(&level, "level", "", "minimum level: debug, info, warn, error")
	flags.StringVar(&filter.User, "user", "", "filter by user id")
	flags.StringVar(&filter.Session, "session", "", "filter by session id")
	flags.BoolVar(&rawJSON, "json", false, "output raw JSON lines")
	return cmd
}

func printEvent(w io.Writer, ev journal.Event) {
	lvl := strings.ToUpper(string(ev.Level))
	if lvl == "" {
		lvl = "?"
	}
	parts := []string{fmt.Sprintf("%s %-5s %-20s", ev.Time.Local().Format("01-02 15:04:05"), lvl, ev.Kind)}

	if ev.User != "" {
		parts = append(parts, "user="+ev.User)
	}
	if ev.ItemID != "" {
		parts = append(parts, "item="+ev.ItemID)
	}
	if ev.Title != "" {
		parts = append(parts, fmt.Sprintf("title=%q", ev.Title))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.Pruned > 0 {
		parts = append(parts, fmt.Sprintf("pruned=%d", ev.Pruned))
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.0fms)", ev.DurMs))
	}
	if ev.Msg != "" {
		parts = append(parts, ev.Msg)
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}
