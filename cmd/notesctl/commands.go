package main

import (
	"fmt"
	"strings"

	"notes-server/client"

	"github.com/spf13/cobra"
)

func (a *app) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.workspace().Client().Register(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered %s\n", args[0])
			return nil
		},
	}
}

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := a.workspace()
			if err := ws.Login(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", args[0])
			printWorkspace(a.out, ws)
			return nil
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.workspace().Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show every note you own or joined",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := a.workspace()
			if err := ws.Load(cmd.Context()); err != nil {
				return err
			}
			printWorkspace(a.out, ws)
			return nil
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var noteType, date, status string
	cmd := &cobra.Command{
		Use:   "add <content>...",
		Short: "Create a note or todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := client.NewNote{
				Type:    client.NoteType(noteType),
				Content: strings.Join(args, " "),
				Date:    date,
			}
			if status != "" {
				draft.Status = client.StatusPtr(client.Status(status))
			}
			return a.mutateAndPrint(cmd, func(ws *client.Workspace) error {
				return ws.CreateNote(cmd.Context(), draft)
			})
		},
	}
	cmd.Flags().StringVarP(&noteType, "type", "t", string(client.TypeNote), "note or todo")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVarP(&status, "status", "s", "", "on_progress or completed (todos only)")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <content>...",
		Short: "Replace a note's content",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := client.NoteUpdate{Content: client.StringPtr(strings.Join(args[1:], " "))}
			return a.mutateAndPrint(cmd, func(ws *client.Workspace) error {
				return ws.UpdateNote(cmd.Context(), args[0], update)
			})
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <on_progress|completed>",
		Short:     "Change a todo's status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(client.StatusOnProgress), string(client.StatusCompleted)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutateAndPrint(cmd, func(ws *client.Workspace) error {
				return ws.SetStatus(cmd.Context(), args[0], client.Status(args[1]))
			})
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a note you own",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutateAndPrint(cmd, func(ws *client.Workspace) error {
				return ws.DeleteNote(cmd.Context(), args[0])
			})
		},
	}
}

func (a *app) shareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Issue a new share token for a note you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.workspace().ShareNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, token)
			return nil
		},
	}
}

func (a *app) joinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <token>",
		Short: "Join a note shared with you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutateAndPrint(cmd, func(ws *client.Workspace) error {
				return ws.JoinByToken(cmd.Context(), args[0])
			})
		},
	}
}

func (a *app) titleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "title",
		Short: "Show or change the workspace title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := a.workspace().Client().GetTitle(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, title)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <title>...",
		Short: "Change the workspace title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := a.workspace()
			if err := ws.SetTitle(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintln(a.out, ws.Title())
			return nil
		},
	})
	return cmd
}

// mutateAndPrint runs a workspace mutation and prints the list the server returned
// afterwards, even when the mutation failed.
func (a *app) mutateAndPrint(cmd *cobra.Command, mutation func(ws *client.Workspace) error) error {
	ws := a.workspace()
	err := mutation(ws)
	if ws.Loaded() {
		printNotes(a.out, ws.Notes())
	}
	return err
}
