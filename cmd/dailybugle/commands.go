package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/abelbrown/dailybugle/internal/config"
	"github.com/abelbrown/dailybugle/internal/news"
	"github.com/abelbrown/dailybugle/internal/persist"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

func newDumpCmd(cfg **config.Config) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the persisted feed",
		Long: `Print the feed as it is stored, without pruning.

Examples:
  dailybugle dump              # Table of stored items
  dailybugle dump --json       # Raw persisted envelope`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository(*cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			state, found, err := repo.Load()
			if err != nil {
				return fmt.Errorf("load state: %w", err)
			}
			if asJSON {
				return dumpJSON(cmd.OutOrStdout(), state)
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved state.")
				return nil
			}
			var savedAt time.Time
			if st, ok := repo.(stamped); ok {
				savedAt, _, err = st.UpdatedAt()
				if err != nil {
					return err
				}
			}
			return dumpTable(cmd.OutOrStdout(), state, savedAt, time.Now(), (*cfg).Feed.Retention.Std())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the persisted envelope")
	return cmd
}

func dumpJSON(w io.Writer, state news.State) error {
	data, err := persist.Encode(state)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// stamped backends record when the state was last written.
type stamped interface {
	UpdatedAt() (time.Time, bool, error)
}

// dumpTable prints state as a table. A zero savedAt omits the save time.
func dumpTable(w io.Writer, state news.State, savedAt, now time.Time, window time.Duration) error {
	fmt.Fprintf(w, "Current user: %s\n", state.CurrentUser)
	if !savedAt.IsZero() {
		fmt.Fprintf(w, "Last saved:   %s\n", humanize.RelTime(savedAt, now, "ago", "from now"))
	}
	fmt.Fprintf(w, "Items:        %d\n\n", len(state.News))
	if len(state.News) == 0 {
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header([]string{"ID", "Title", "Author", "Posted"})

	cutoff := now.Add(-window)
	rows := make([][]string, 0, len(state.News))
	for _, item := range state.News {
		posted := humanize.RelTime(item.CreatedAt, now, "ago", "from now")
		if item.CreatedAt.Before(cutoff) {
			posted += " (expired)"
		}
		rows = append(rows, []string{item.ID, item.Title, item.AuthorID.String(), posted})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func newResetCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear persisted state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository(*cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Clear(); err != nil {
				return fmt.Errorf("clear state: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "State cleared.")
			return nil
		},
	}
}

func newSeedCmd(cfg **config.Config) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Merge a synthetic wire batch into storage",
		Long: `Generate one simulated wire batch and merge it into the stored feed.
Expired items in the batch are pruned the same way a live fetch prunes them.

Examples:
  dailybugle seed              # One batch of the configured size
  dailybugle seed --count 20   # Twenty generated items`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				count = (*cfg).Feed.BatchSize
			}
			repo, err := openRepository(*cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			j, closeJournal := openJournal(*cfg)
			defer closeJournal()

			st := newStore(*cfg, repo, newWireFetcher(*cfg, count, 0), j)
			if _, err := st.Hydrate(); err != nil {
				return err
			}
			res, err := st.SimulateFetchNews(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d, added %d, feed now holds %d.\n",
				res.Fetched, res.Added, res.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "items to generate (default is the configured batch size)")
	return cmd
}

func newLoginCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "login <identity>",
		Short: "Set the persisted session user",
		Long: `Set the user the next session starts as. Identities are peter, jonah
and deadman (or their full ids); "none" logs out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := news.ParseUser(args[0])
			if !ok {
				return fmt.Errorf("unknown identity %q", args[0])
			}
			repo, err := openRepository(*cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			j, closeJournal := openJournal(*cfg)
			defer closeJournal()

			st := newStore(*cfg, repo, nil, j)
			if _, err := st.Hydrate(); err != nil {
				return err
			}
			st.SetCurrentUser(user)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as: %s\n", user)
			return nil
		},
	}
}
