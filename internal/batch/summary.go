package batch

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"comicz/internal/history"
)

// RenderSummary renders the run totals as a table. When verbose is set, a
// second table lists every file that was not converted.
func RenderSummary(stats *Stats, verbose bool) string {
	if stats == nil {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Files", strconv.Itoa(stats.Total)},
		{"Converted", strconv.Itoa(stats.Converted)},
		{"Unsupported", strconv.Itoa(stats.Unsupported)},
		{"Skipped", strconv.Itoa(stats.Skipped)},
		{"Failed", strconv.Itoa(stats.Failed)},
		{"Pages transcoded", strconv.Itoa(stats.Transcoded)},
		{"Entries copied", strconv.Itoa(stats.PassedThrough)},
		{"Pages dropped", strconv.Itoa(stats.EntryFailures)},
		{"Input size", humanize.IBytes(uint64(max(stats.InputBytes, 0)))},
		{"Output size", humanize.IBytes(uint64(max(stats.OutputBytes, 0)))},
		{"Saved", fmt.Sprintf("%.1f%%", stats.Savings()*100)},
		{"Elapsed", stats.Elapsed.Round(10 * time.Millisecond).String()},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	out := tw.Render()

	if !verbose {
		return out
	}
	problems := table.NewWriter()
	problems.SetStyle(table.StyleRounded)
	problems.AppendHeader(table.Row{"Archive", "Status", "Detail"})
	rows := 0
	for _, fr := range stats.Files {
		if fr.Status == history.StatusConverted {
			continue
		}
		detail := fr.Reason
		if fr.Err != nil {
			detail = fr.Err.Error()
		}
		problems.AppendRow(table.Row{fr.Source, string(fr.Status), detail})
		rows++
	}
	if rows == 0 {
		return out
	}
	return out + "\n" + problems.Render()
}
