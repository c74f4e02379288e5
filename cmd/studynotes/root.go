package main

import (
	"os"
	"strconv"

	"cdr.dev/slog"
	"github.com/spf13/cobra"

	studynotes "github.com/JuanLara18/study-notes"
	"github.com/JuanLara18/study-notes/internal/config"
	"github.com/JuanLara18/study-notes/internal/log"
)

// DebugEnv enables debug logging when set to a true value.
const DebugEnv = "STUDYNOTES_DEBUG"

type rootFlags struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "studynotes",
		Short:         "Build and preview study notes with server-side math",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug := flags.debug
			if v, err := strconv.ParseBool(os.Getenv(DebugEnv)); err == nil && v {
				debug = true
			}
			ctx := log.Stderr(cmd.Context(), debug)
			if debug {
				studynotes.SetLogger(studynotes.Logger.Leveled(slog.LevelDebug))
			}
			cmd.SetContext(ctx)
		},
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "site configuration file (default "+config.DefaultFile+" if present)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log debug messages (also "+DebugEnv+"=1)")

	cmd.AddCommand(
		newBuildCmd(flags),
		newServeCmd(flags),
		newRenderCmd(flags),
		newLintCmd(flags),
	)
	return cmd
}

// loadConfig reads the site configuration, falling back to the defaults
// when no file is given and DefaultFile does not exist.
func (f *rootFlags) loadConfig() (*config.Site, error) {
	return config.Load(f.configPath)
}
