package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"notes-server/client"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what every subcommand needs: settings and output streams.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".notesctl-token"
	}
	return filepath.Join(home, ".notesctl", "token")
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}
	a.v.SetEnvPrefix("NOTES")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "notesctl",
		Short:         "Work with notes and todos on a notes server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("url", "http://localhost:8000", "notes server base URL (NOTES_URL)")
	flags.String("token-file", defaultTokenFile(), "file holding the session token (NOTES_TOKEN_FILE)")
	flags.Bool("verbose", false, "log every HTTP call")
	for _, name := range []string{"url", "token-file", "verbose"} {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", name, err))
		}
	}

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.listCmd(),
		a.addCmd(),
		a.editCmd(),
		a.statusCmd(),
		a.deleteCmd(),
		a.shareCmd(),
		a.joinCmd(),
		a.titleCmd(),
	)
	return root
}

func (a *app) logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if a.v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: a.errOut, NoColor: true}).Level(level).With().Timestamp().Logger()
}

func (a *app) workspace() *client.Workspace {
	c := client.New(a.v.GetString("url"),
		client.WithTokenStore(client.NewFileTokenStore(a.v.GetString("token-file"))),
		client.WithLogger(a.logger()),
	)
	return client.NewWorkspace(c)
}
