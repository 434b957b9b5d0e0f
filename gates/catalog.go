package gates

import (
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrUnsupportedGate = errors.New("unsupported gate")
	ErrParamCount      = errors.New("wrong number of gate parameters")
	ErrNotUnitary      = errors.New("matrix is not unitary")
	ErrDuplicateGate   = errors.New("gate already registered")
)

// unitaryTolerance bounds |m·m† - I| for matrices registered at runtime.
const unitaryTolerance = 1e-9

// Definition describes a named gate. Build receives exactly Params values and
// returns a 2^Qubits square matrix.
type Definition struct {
	Name        string
	Description string
	Qubits      int
	Params      int
	Build       func(params []float64) Matrix
}

// Catalog maps gate names to definitions. Lookups are case-insensitive.
type Catalog struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]Definition)}
}

// Default returns a catalog holding the standard qelib1 gate set.
func Default() *Catalog {
	c := NewCatalog()
	for _, def := range standardGates() {
		// standard names are unique, so Register cannot fail here
		_ = c.Register(def)
	}
	return c
}

// Register adds a definition.
func (c *Catalog) Register(def Definition) error {
	name := strings.ToLower(def.Name)
	if name == "" || def.Build == nil || def.Qubits < 1 || def.Params < 0 {
		return errors.Errorf("invalid gate definition %q", def.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.defs[name]; ok {
		return errors.Wrap(ErrDuplicateGate, name)
	}
	def.Name = name
	c.defs[name] = def
	return nil
}

// RegisterMatrix adds a fixed, parameterless gate after checking that m is a
// power-of-two unitary.
func (c *Catalog) RegisterMatrix(name, description string, m Matrix) error {
	qubits := m.Qubits()
	if qubits < 1 {
		return errors.Errorf("gate %q: matrix must be 2^m x 2^m with m >= 1", name)
	}
	if !m.IsUnitary(unitaryTolerance) {
		return errors.Wrap(ErrNotUnitary, name)
	}
	fixed := clone(m)
	return c.Register(Definition{
		Name:        name,
		Description: description,
		Qubits:      qubits,
		Build:       func([]float64) Matrix { return clone(fixed) },
	})
}

// Definition returns the definition registered under name.
func (c *Catalog) Definition(name string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[strings.ToLower(name)]
	return def, ok
}

// Names returns every registered gate name in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.defs))
	for name := range c.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup evaluates the named gate with the given parameters.
func (c *Catalog) Lookup(name string, params []float64) (Matrix, error) {
	def, ok := c.Definition(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedGate, "%q", name)
	}
	if len(params) != def.Params {
		return nil, errors.Wrapf(
			ErrParamCount,
			"gate %q takes %d, got %d",
			def.Name, def.Params, len(params),
		)
	}
	return def.Build(params), nil
}

func clone(m Matrix) Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = slices.Clone(row)
	}
	return out
}
