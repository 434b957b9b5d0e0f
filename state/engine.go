package state

import (
	"maps"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"qtermsim/gates"
)

// MaxQubits is the widest register a uint64 basis index can address.
const MaxQubits = 63

// precision is the number of decimal digits amplitudes and probabilities are
// rounded to before zero checks and sampling.
const precision = 14

var (
	ErrMalformedTargets = errors.New("malformed target qubits")
	ErrMalformedMatrix  = errors.New("matrix does not match target qubits")
	ErrTooManyQubits    = errors.New("qubit count out of range")
	ErrInvalidShots     = errors.New("shot count must be positive")
)

// GateSource resolves a gate name to its numeric matrix.
type GateSource interface {
	Lookup(name string, params []float64) (gates.Matrix, error)
}

// Engine holds a sparse state vector over a fixed number of qubits. Only
// nonzero amplitudes are stored; a missing index has amplitude 0.
type Engine struct {
	numQubits int
	amps      map[Index]complex128
	// bits is the union of every stored basis index.
	bits      Index
	collapsed []int

	rng    *rand.Rand
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSeed makes sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// New returns an engine over numQubits qubits in the ground state.
func New(numQubits int, opts ...Option) (*Engine, error) {
	e := &Engine{
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Reset(numQubits); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset sets the addressable qubit count and returns to |0…0⟩.
func (e *Engine) Reset(numQubits int) error {
	if numQubits < 1 || numQubits > MaxQubits {
		return errors.Wrapf(ErrTooManyQubits, "%d (allowed 1..%d)", numQubits, MaxQubits)
	}
	e.numQubits = numQubits
	e.ground()
	return nil
}

func (e *Engine) ground() {
	e.amps = map[Index]complex128{0: 1}
	e.bits = 0
	e.collapsed = nil
}

func (e *Engine) NumQubits() int {
	return e.numQubits
}

// Len returns the number of stored (nonzero) amplitudes.
func (e *Engine) Len() int {
	return len(e.amps)
}

// Amplitude returns the amplitude of idx, 0 when it is not stored.
func (e *Engine) Amplitude(idx Index) complex128 {
	return e.amps[idx]
}

func (e *Engine) fullMask() Index {
	return Index(1)<<e.numQubits - 1
}

// order is the fixed enumeration order used by transforms and sampling.
func (e *Engine) order() []Index {
	return slices.Sorted(maps.Keys(e.amps))
}

func (e *Engine) checkTargets(targets []int) error {
	if len(targets) == 0 {
		return errors.Wrap(ErrMalformedTargets, "no target qubits")
	}
	var seen Index
	for _, q := range targets {
		if q < 0 || q >= e.numQubits {
			return errors.Wrapf(
				ErrMalformedTargets,
				"qubit %d outside 0..%d",
				q, e.numQubits-1,
			)
		}
		if seen&(1<<q) != 0 {
			return errors.Wrapf(ErrMalformedTargets, "qubit %d listed twice", q)
		}
		seen |= 1 << q
	}
	return nil
}

// ApplyTransform applies m to the target qubits, tensored with the identity
// on every other qubit. Bit 0 of a matrix row/column index belongs to the
// last listed target. m is trusted to be unitary; nothing is renormalized.
func (e *Engine) ApplyTransform(m gates.Matrix, targets []int) error {
	if err := e.checkTargets(targets); err != nil {
		return err
	}
	if m.Qubits() != len(targets) {
		return errors.Wrapf(
			ErrMalformedMatrix,
			"%dx%d matrix for %d target qubits",
			len(m), len(m), len(targets),
		)
	}

	reversed := slices.Clone(targets)
	slices.Reverse(reversed)

	cellMasks := make([]Index, len(m))
	for cell := range cellMasks {
		cellMasks[cell] = spread(cell, reversed)
	}

	free := e.fullMask() &^ qubitMask(targets)
	combos := uint64(1) << (e.numQubits - len(targets))

	var next map[Index]complex128
	if uint64(len(e.amps)) < combos {
		next = e.transformSparse(m, reversed, cellMasks)
	} else {
		next = e.transformDense(m, cellMasks, free, combos)
	}

	e.amps, e.bits = prune(next)
	if e.bits == 0 && len(e.amps) == 0 {
		e.logger.Warn("transform annihilated the state, resetting to ground state",
			zap.Ints("targets", targets))
		e.amps[0] = 1
	}
	e.collapsed = nil

	e.logger.Debug("applied transform",
		zap.Ints("targets", targets),
		zap.Int("entries", len(e.amps)),
	)
	return nil
}

// transformDense walks every matrix cell and every pattern of the unused
// qubits, looking the source index up in the current state.
func (e *Engine) transformDense(
	m gates.Matrix,
	cellMasks []Index,
	free Index,
	combos uint64,
) map[Index]complex128 {
	next := make(map[Index]complex128, len(e.amps))
	for r, row := range m {
		rowMask := cellMasks[r]
		for c, v := range row {
			if v == 0 {
				continue
			}
			colMask := cellMasks[c]
			if e.bits&colMask != colMask {
				continue
			}

			var rest Index
			for range combos {
				if amp, ok := e.amps[rest|colMask]; ok {
					if v != 1 {
						amp *= v
					}
					next[rest|rowMask] += amp
				}
				rest = nextSubset(rest, free)
			}
		}
	}
	return next
}

// transformSparse visits only stored amplitudes, which is cheaper than
// enumerating the unused qubits once the state holds fewer entries than there
// are unused-qubit patterns. It produces the same map as transformDense.
func (e *Engine) transformSparse(
	m gates.Matrix,
	reversed []int,
	cellMasks []Index,
) map[Index]complex128 {
	targetMask := qubitMask(reversed)
	next := make(map[Index]complex128, len(e.amps)*len(m))
	for _, src := range e.order() {
		amp := e.amps[src]
		c := gather(src, reversed)
		rest := src &^ targetMask
		for r, row := range m {
			v := row[c]
			if v == 0 {
				continue
			}
			contrib := amp
			if v != 1 {
				contrib *= v
			}
			next[rest|cellMasks[r]] += contrib
		}
	}
	return next
}

// prune drops amplitudes that round to zero and returns the union of the
// remaining indices.
func prune(next map[Index]complex128) (map[Index]complex128, Index) {
	var bits Index
	for idx, amp := range next {
		if roundAmplitude(amp) == 0 {
			delete(next, idx)
			continue
		}
		bits |= idx
	}
	return next, bits
}

// ApplyGate looks name up in src and applies it to targets.
func (e *Engine) ApplyGate(src GateSource, name string, targets []int, params ...float64) error {
	m, err := src.Lookup(name, params)
	if err != nil {
		return errors.Wrapf(err, "apply gate %s", name)
	}
	if err := e.ApplyTransform(m, targets); err != nil {
		return errors.Wrapf(err, "apply gate %s", name)
	}
	return nil
}

// Measure collapses the state once and stores the outcome of qubit in
// register[bit]. The amplitudes are left untouched.
func (e *Engine) Measure(qubit int, regs *Registers, register string, bit int) error {
	if qubit < 0 || qubit >= e.numQubits {
		return errors.Wrapf(ErrMalformedTargets, "measure qubit %d outside 0..%d", qubit, e.numQubits-1)
	}
	outcome := e.MeasureOnce()
	return errors.Wrap(regs.Set(register, bit, outcome[qubit]), "measure")
}

// Basis is one stored component of the state.
type Basis struct {
	Index       Index
	Bits        string
	Amplitude   complex128
	Probability float64
	Phase       float64
}

// Amplitudes lists the stored components by ascending basis index.
func (e *Engine) Amplitudes() []Basis {
	order := e.order()
	out := make([]Basis, 0, len(order))
	for _, idx := range order {
		amp := e.amps[idx]
		out = append(out, Basis{
			Index:       idx,
			Bits:        binary(idx, e.numQubits),
			Amplitude:   amp,
			Probability: probability(amp),
			Phase:       cmplx.Phase(amp),
		})
	}
	return out
}

// Probabilities maps every stored index to |amplitude|².
func (e *Engine) Probabilities() map[Index]float64 {
	out := make(map[Index]float64, len(e.amps))
	for idx, amp := range e.amps {
		out[idx] = probability(amp)
	}
	return out
}

// QubitProbability is the marginal distribution of a single qubit.
type QubitProbability struct {
	Zero float64
	One  float64
}

// QubitProbabilities returns the marginal of every qubit.
func (e *Engine) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, e.numQubits)
	for idx, amp := range e.amps {
		p := probability(amp)
		for q := range probs {
			if bitOf(idx, q) == 1 {
				probs[q].One += p
			} else {
				probs[q].Zero += p
			}
		}
	}
	return probs
}

// Norm returns the sum of squared magnitudes, 1 for a valid state.
func (e *Engine) Norm() float64 {
	probs := make([]float64, 0, len(e.amps))
	for _, idx := range e.order() {
		probs = append(probs, probability(e.amps[idx]))
	}
	return floats.Sum(probs)
}

// Clone returns an independent copy sharing the random source and logger.
func (e *Engine) Clone() *Engine {
	return &Engine{
		numQubits: e.numQubits,
		amps:      maps.Clone(e.amps),
		bits:      e.bits,
		collapsed: slices.Clone(e.collapsed),
		rng:       e.rng,
		logger:    e.logger,
	}
}

func probability(amp complex128) float64 {
	re, im := real(amp), imag(amp)
	return re*re + im*im
}

func roundAmplitude(amp complex128) complex128 {
	return complex(scalar.Round(real(amp), precision), scalar.Round(imag(amp), precision))
}

// chance is the rounded sampling weight of a stored amplitude.
func chance(amp complex128) float64 {
	return scalar.Round(math.Pow(cmplx.Abs(roundAmplitude(amp)), 2), precision)
}
