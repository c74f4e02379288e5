package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JuanLara18/study-notes/internal/config"
)

// errLint is returned by lint --strict when there are issues.
var errLint = errors.New("configuration has issues")

func newLintCmd(root *rootFlags) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report duplicate keys and macro redefinitions in the site configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if path == "" {
				path = config.DefaultFile
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			issues, err := config.Lint(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			label := color.New(color.FgYellow).Sprint("warning")
			if strict {
				label = color.New(color.FgRed).Sprint("error")
			}
			for _, i := range issues {
				fmt.Fprintf(out, "%s: %s: %s\n", path, label, i)
			}
			if len(issues) == 0 {
				fmt.Fprintf(out, "%s: %s\n", path, color.New(color.FgGreen).Sprint("ok"))
				return nil
			}
			if strict {
				return fmt.Errorf("%w: %d found", errLint, len(issues))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when there are issues")
	return cmd
}
