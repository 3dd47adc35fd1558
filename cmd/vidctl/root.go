package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hszk-dev/vidshare/internal/client"
	"github.com/hszk-dev/vidshare/internal/config"
	"github.com/hszk-dev/vidshare/internal/session"
)

// app holds what every subcommand needs. It is populated by the root
// command's PersistentPreRunE.
type app struct {
	api     *client.Client
	logger  *slog.Logger
	session *session.Session
	now     func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}
	var jsonLogs bool

	root := &cobra.Command{
		Use:           "vidctl",
		Short:         "Browse and watch videos from a vidshare server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}

			opts := &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.LogLevel)}
			var handler slog.Handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
			if jsonLogs {
				handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
			}
			a.logger = slog.New(handler)

			a.api, err = client.New(cfg.APIURL, client.WithTimeout(cfg.RequestTimeout))
			if err != nil {
				return fmt.Errorf("invalid VIDCTL_API_URL: %w", err)
			}

			path := cfg.SessionFile
			if path == "" {
				if path, err = session.DefaultPath(); err != nil {
					return err
				}
			}
			a.session = session.New(session.NewFileStore(path))
			cmd.SetContext(session.WithSession(cmd.Context(), a.session))
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "write diagnostics as JSON")

	root.AddCommand(
		newFeedCmd(a),
		newWatchCmd(a),
		newProfileCmd(a),
		newWhoamiCmd(),
		newLoginCmd(),
		newLogoutCmd(),
	)
	return root
}
