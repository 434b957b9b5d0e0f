package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qtermsim/circuit"
	"qtermsim/gates"
	"qtermsim/internal/config"
	"qtermsim/internal/logging"
)

// app carries the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	shots      int
	seed       uint64
	output     string
	debug      bool

	cfg       *config.Config
	logger    *zap.Logger
	logCloser io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "qsim",
		Short: "Quantum circuit simulator",
		Long: `qsim simulates OpenQASM 2.0 circuits on a sparse state vector.

It can run a program and print measurement tallies, list the supported
gates, or open an interactive editor with a live circuit diagram.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "config file")
	flags.IntVar(&a.shots, "shots", 0, "number of samples (default from config)")
	flags.Uint64Var(&a.seed, "seed", 0, "sampler seed for reproducible runs")
	flags.StringVarP(&a.output, "output", "o", "", "output format: table or yaml")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(a.runCmd(), a.gatesCmd(), a.tuiCmd())
	return root
}

// setup loads the config file, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("shots") {
		cfg.Shots = a.shots
	}
	if flags.Changed("seed") {
		cfg.Seed = a.seed
	}
	if flags.Changed("output") {
		cfg.Output = a.output
	}
	if a.debug {
		cfg.Logging.Debug = true
	}
	// The alternate screen owns the terminal, so the editor always logs to a file.
	if cmd.Name() == "tui" && cfg.Logging.Dir == "" {
		cfg.Logging.Dir = config.DefaultDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return errors.Wrap(err, "init logging")
	}
	a.cfg, a.logger, a.logCloser = cfg, logger, closer
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func (a *app) runner() *circuit.Runner {
	opts := []circuit.RunnerOption{
		circuit.WithLogger(a.logger),
		circuit.WithMaxQubits(a.cfg.MaxQubits),
	}
	if a.cfg.Seed != 0 {
		opts = append(opts, circuit.WithSeed(a.cfg.Seed))
	}
	return circuit.NewRunner(gates.Default(), opts...)
}
