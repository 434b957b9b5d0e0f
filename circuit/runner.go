package circuit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qtermsim/gates"
	"qtermsim/state"
)

var ErrNoInstructions = errors.New("program has no instructions")

// Runner executes programs against a fresh state engine per run.
type Runner struct {
	catalog   *gates.Catalog
	logger    *zap.Logger
	seed      uint64
	seeded    bool
	maxQubits int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSeed seeds every run identically, so repeated runs of the same program
// produce the same tallies.
func WithSeed(seed uint64) RunnerOption {
	return func(r *Runner) {
		r.seed = seed
		r.seeded = true
	}
}

// WithMaxQubits rejects programs wider than n qubits. Zero means the engine
// limit.
func WithMaxQubits(n int) RunnerOption {
	return func(r *Runner) {
		r.maxQubits = n
	}
}

// NewRunner returns a runner resolving gates through catalog, or through the
// default catalog when catalog is nil.
func NewRunner(catalog *gates.Catalog, opts ...RunnerOption) *Runner {
	if catalog == nil {
		catalog = gates.Default()
	}
	r := &Runner{
		catalog: catalog,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the gate catalog used by the runner.
func (r *Runner) Catalog() *gates.Catalog {
	return r.catalog
}

// Result is the outcome of one run.
type Result struct {
	NumQubits int
	Shots     int
	Counts    state.Counts
	Registers map[string][]int
	State     []state.Basis
	Marginals []state.QubitProbability
	Elapsed   time.Duration
}

// Execute applies every instruction of p to a fresh engine sized to the
// program and returns the final engine and classical registers.
func (r *Runner) Execute(ctx context.Context, p *Program) (*state.Engine, *state.Registers, error) {
	if len(p.Instructions) == 0 {
		return nil, nil, ErrNoInstructions
	}
	if err := p.Validate(r.catalog); err != nil {
		return nil, nil, err
	}
	n := p.QubitCount()
	if r.maxQubits > 0 && n > r.maxQubits {
		return nil, nil, errors.Wrapf(state.ErrTooManyQubits, "program uses %d qubits, limit is %d", n, r.maxQubits)
	}

	opts := []state.Option{state.WithLogger(r.logger)}
	if r.seeded {
		opts = append(opts, state.WithSeed(r.seed))
	}
	engine, err := state.New(n, opts...)
	if err != nil {
		return nil, nil, err
	}

	regs := state.NewRegisters()
	for name, size := range p.Registers {
		regs.Declare(name, size)
	}

	for i, ins := range p.Instructions {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrapf(err, "stopped before instruction %d", i)
		}
		if err := r.apply(engine, regs, ins); err != nil {
			return nil, nil, errors.Wrapf(err, "instruction %d (%s)", i, ins)
		}
	}
	return engine, regs, nil
}

func (r *Runner) apply(engine *state.Engine, regs *state.Registers, ins Instruction) error {
	switch v := ins.(type) {
	case Unitary:
		return engine.ApplyGate(r.catalog, v.Name, v.Targets, v.Params...)
	case Measurement:
		return engine.Measure(v.Qubit, regs, v.Register, v.Bit)
	case Conditional:
		if !v.Holds(regs) {
			return nil
		}
		return engine.ApplyGate(r.catalog, v.Gate.Name, v.Gate.Targets, v.Gate.Params...)
	}
	return errors.Errorf("unknown instruction type %T", ins)
}

// Run executes p and samples the final state shots times.
func (r *Runner) Run(ctx context.Context, p *Program, shots int) (*Result, error) {
	if shots <= 0 {
		return nil, errors.Wrapf(state.ErrInvalidShots, "got %d", shots)
	}
	start := time.Now()

	engine, regs, err := r.Execute(ctx, p)
	if err != nil {
		return nil, err
	}
	counts, err := engine.MeasureMany(shots)
	if err != nil {
		return nil, err
	}

	res := &Result{
		NumQubits: engine.NumQubits(),
		Shots:     shots,
		Counts:    counts,
		Registers: regs.Snapshot(),
		State:     engine.Amplitudes(),
		Marginals: engine.QubitProbabilities(),
		Elapsed:   time.Since(start),
	}
	r.logger.Info(
		"circuit run complete",
		zap.Int("qubits", res.NumQubits),
		zap.Int("instructions", len(p.Instructions)),
		zap.Int("shots", shots),
		zap.Int("outcomes", len(counts)),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}
