package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/geoanchor/internal/ports/secondary"
)

// LogAdapter prints the catalog log.
type LogAdapter struct {
	log secondary.CatalogLog
	out io.Writer
}

// NewLogAdapter creates a new LogAdapter.
func NewLogAdapter(log secondary.CatalogLog, out io.Writer) *LogAdapter {
	return &LogAdapter{log: log, out: out}
}

// History prints up to limit entries, newest first.
func (a *LogAdapter) History(ctx context.Context, limit int) error {
	entries, err := a.log.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No catalog history")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tITEM\tKIND\tSESSION")
	for _, e := range entries {
		action := color.GreenString(e.Action)
		if e.Action == secondary.LogActionRemove {
			action = color.RedString(e.Action)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), action, e.ItemID, orDash(e.Kind), orDash(e.SessionID))
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
