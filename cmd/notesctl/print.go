package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"notes-server/client"
)

func printWorkspace(out io.Writer, ws *client.Workspace) {
	if title := ws.Title(); title != "" {
		fmt.Fprintf(out, "== %s ==\n", title)
	}
	printNotes(out, ws.Notes())
}

func printNotes(out io.Writer, notes []client.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(out, "No notes yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tDATE\tSHARED\tCONTENT")
	for _, n := range notes {
		status := "-"
		if n.Status != nil {
			status = string(*n.Status)
		}
		date := "-"
		if n.Date != nil {
			date = *n.Date
		}
		shared := "owner"
		if !n.IsOwner {
			shared = "joined"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", n.ID, n.Type, status, date, shared, n.Content)
	}
	_ = w.Flush()
}
