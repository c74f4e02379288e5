package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	studynotes "github.com/JuanLara18/study-notes"
	"github.com/JuanLara18/study-notes/internal/autorender"
	"github.com/JuanLara18/study-notes/internal/engine"
)

func newRenderCmd(root *rootFlags) *cobra.Command {
	var width int
	var minimal bool
	var engineName, script string
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the math in an HTML file (or stdin) to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if engineName != "" {
				cfg.Engine = engineName
			}
			if script != "" {
				cfg.Script = script
			}
			e, err := engine.ByName(cfg.Engine, cfg.Script)
			if err != nil {
				return err
			}

			rc := studynotes.MinimalConfig()
			if !minimal {
				if rc, err = cfg.RenderConfig(); err != nil {
					return err
				}
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return studynotes.RenderHTML(cmd.Context(), in, cmd.OutOrStdout(), width,
				studynotes.WithConfig(rc),
				studynotes.WithRenderer(autorender.New(e)),
			)
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "viewport width used to size display math, 0 leaves sizes alone")
	cmd.Flags().BoolVar(&minimal, "minimal", false, "use the minimal configuration instead of the site's")
	cmd.Flags().StringVar(&engineName, "engine", "", "math engine (overrides the config)")
	cmd.Flags().StringVar(&script, "script", "", "KaTeX-compatible bundle for the script engine")
	return cmd
}
