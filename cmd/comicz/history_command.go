package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"comicz/internal/fileutil"
	"comicz/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !fileutil.Exists(cfg.Paths.HistoryDB) {
				fmt.Fprintln(out, "No conversions recorded")
				return nil
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			var records []history.Record
			if runID != "" {
				records, err = store.ByRun(cmd.Context(), runID)
			} else {
				records, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No conversions recorded")
				return nil
			}

			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Finished", "Status", "Archive", "Pages", "Size", "Took", "Error"},
				historyRows(records),
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of most recent conversions to list (0 = all)")
	cmd.Flags().StringVar(&runID, "run", "", "List every conversion from one run id")
	return cmd
}

func historyRows(records []history.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		pages := "-"
		size := "-"
		if rec.Status == history.StatusConverted {
			pages = fmt.Sprintf("%d/%d", rec.Transcoded, rec.Transcoded+rec.Failed)
			size = fmt.Sprintf("%s -> %s", humanize.IBytes(uint64(max(rec.InputBytes, 0))), humanize.IBytes(uint64(max(rec.OutputBytes, 0))))
		}
		errText := rec.ErrorKind
		if errText == "" && rec.ErrorMessage != "" {
			errText = rec.ErrorMessage
		}
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.FinishedAt.Local().Format("2006-01-02 15:04"),
			string(rec.Status),
			filepath.Base(rec.SourcePath),
			pages,
			size,
			rec.Duration().Round(10 * time.Millisecond).String(),
			errText,
		})
	}
	return rows
}
