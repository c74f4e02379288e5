package main

import (
	"context"
	"errors"

	"cdr.dev/slog"
	"github.com/spf13/cobra"

	"github.com/JuanLara18/study-notes/internal/log"
	"github.com/JuanLara18/study-notes/internal/server"
	"github.com/JuanLara18/study-notes/internal/site"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	sf := &siteFlags{}
	var addr string
	var rebuild bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the site with live reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := sf.options(root)
			if err != nil {
				return err
			}
			opts.Live = true
			s, err := site.New(opts)
			if err != nil {
				return err
			}

			srv := server.New(ctx, s)
			if rebuild {
				srv.OnChange = func(ctx context.Context) error {
					_, err := s.Build(ctx)
					return err
				}
			}

			w, err := server.NewWatcher(s.Options().ContentDir, server.DebounceDelay)
			if err != nil {
				return err
			}
			if root.configPath != "" {
				if err := w.Add(root.configPath); err != nil {
					log.Warn(ctx, "cannot watch config", slog.F("path", root.configPath), slog.F("err", err))
				}
			}
			go srv.Watch(ctx, w)

			err = srv.Serve(ctx, addr)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "also rebuild the output directory on every change")
	return cmd
}
