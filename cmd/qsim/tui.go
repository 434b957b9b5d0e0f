package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"qtermsim/internal/tui"
)

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [FILE]",
		Short: "Edit and run a program interactively",
		Long: `Open the interactive editor. When FILE exists it is loaded, otherwise a
sample program is shown and ctrl+s writes the buffer to FILE.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := tui.Options{
				Runner: a.runner(),
				Logger: a.logger,
				Source: tui.SampleProgram,
				Shots:  a.cfg.Shots,
			}
			if len(args) == 1 {
				opts.Path = args[0]
				src, err := os.ReadFile(args[0])
				switch {
				case err == nil:
					opts.Source = string(src)
				case !os.IsNotExist(err):
					return errors.Wrap(err, "read program")
				}
			}
			return tui.Run(opts)
		},
	}
}
