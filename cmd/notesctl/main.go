// Command notesctl is a terminal client for the notes server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notes-server/client"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", client.UserMessage(err))
		os.Exit(1)
	}
}
