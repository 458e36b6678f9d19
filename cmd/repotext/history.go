package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/repotext/pkg/store"
)

var (
	historyPath   string
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent extractions",
	Long:  "Read extraction records from a history database, newest first",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyPath, "history", "", "History database (default from REPOTEXT_HISTORY)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of records, 0 for all")
	historyCmd.Flags().StringVar(&historyFormat, "format", formatHuman, "Output format: human, json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := stringFlag(cmd, "history", historyPath, cfg.HistoryPath)
	if path == "" {
		return fmt.Errorf("no history database: set --history or REPOTEXT_HISTORY")
	}
	if path == store.MemoryPath {
		return fmt.Errorf("cannot read history from an in-memory store")
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no history database at %s", path)
		}
		return fmt.Errorf("opening history: %w", err)
	}

	s, err := store.New(store.Config{Path: path})
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer s.Close()

	records, err := s.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	switch historyFormat {
	case formatJSON:
		return writeJSON(cmd.OutOrStdout(), records)
	case formatHuman:
		return writeHistory(cmd, records)
	default:
		return fmt.Errorf("unknown format %q (want human or json)", historyFormat)
	}
}

func writeHistory(cmd *cobra.Command, records []store.Record) error {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No extractions recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSTATUS\tTEXT\tBINARY\tTRUNCATED\tDURATION\tSOURCE")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			humanize.Time(r.CreatedAt),
			r.Status,
			r.TextFiles,
			r.BinaryFiles,
			r.Truncated,
			r.Duration.Round(time.Millisecond),
			r.Source,
		)
	}
	return w.Flush()
}
