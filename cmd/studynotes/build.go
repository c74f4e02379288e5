package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JuanLara18/study-notes/internal/engine"
	"github.com/JuanLara18/study-notes/internal/site"
)

type siteFlags struct {
	content string
	out     string
	width   int
	engine  string
	script  string
}

func (sf *siteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sf.content, "content", "", "content directory (overrides the config)")
	cmd.Flags().StringVarP(&sf.out, "out", "o", "", "output directory (overrides the config)")
	cmd.Flags().IntVar(&sf.width, "width", 0, "viewport width used to size display math, 0 keeps the config value")
	cmd.Flags().StringVar(&sf.engine, "engine", "", fmt.Sprintf("math engine %v (overrides the config)", engine.Names))
	cmd.Flags().StringVar(&sf.script, "script", "", "KaTeX-compatible bundle for the script engine")
}

func (sf *siteFlags) options(root *rootFlags) (site.Options, error) {
	cfg, err := root.loadConfig()
	if err != nil {
		return site.Options{}, err
	}
	if sf.engine != "" {
		cfg.Engine = sf.engine
	}
	if sf.script != "" {
		cfg.Script = sf.script
	}
	return site.Options{
		Config:     cfg,
		ContentDir: sf.content,
		OutputDir:  sf.out,
		Width:      sf.width,
	}, nil
}

func newBuildCmd(root *rootFlags) *cobra.Command {
	sf := &siteFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every note into a static site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := sf.options(root)
			if err != nil {
				return err
			}
			r, err := site.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			green := color.New(color.FgGreen).SprintfFunc()
			fmt.Fprintf(out, "%s %d pages from %d notes in %s\n", green("built"), r.Pages, r.Notes, r.Duration.Round(time.Millisecond))
			if r.MathErrors > 0 {
				fmt.Fprintf(out, "%s %d math expressions failed to render\n", color.New(color.FgYellow).Sprint("warning:"), r.MathErrors)
			}
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}
