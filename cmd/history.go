package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"vidtowav/infrastructure/history"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversion runs",
	Long: `List finished conversion runs, newest first.

Example:
  vidtowav history --limit 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if cfg.History.Path == "" {
			return fmt.Errorf("run history is disabled; set history.path in the config")
		}
		store, err := history.Open(cfg.History.Path, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		return RunHistoryWithDependencies(store, historyLimit, DefaultOutput)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show (0 for all)")
}

// HistoryLister reads recorded runs
type HistoryLister interface {
	List(limit int) ([]history.Record, error)
}

// RunHistoryWithDependencies runs the history command with injected dependencies (for testing)
func RunHistoryWithDependencies(store HistoryLister, limit int, out OutputWriter) error {
	records, err := store.List(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tFORMAT\tFOUND\tCONVERTED\tFAILED\tSKIPPED\tELAPSED\tSOURCE")
	for _, r := range records {
		started := r.Started.Local().Format("2006-01-02 15:04")
		state := elapsed(r.Elapsed)
		if r.Stopped {
			state += " (stopped)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s/q%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, started, r.Format, r.Quality, r.Total, r.Converted, r.Failed, r.Skipped, state, r.SourceRoot)
	}
	return w.Flush()
}

// lastOutputs returns the converted files of the most recent run
func lastOutputs(store interface{ Last() (history.Record, error) }) ([]string, error) {
	rec, err := store.Last()
	if errors.Is(err, history.ErrEmpty) {
		return nil, fmt.Errorf("no runs recorded yet; run 'vidtowav convert' or pass --file")
	}
	if err != nil {
		return nil, err
	}
	return rec.Outputs, nil
}
