package circuit

import (
	"slices"

	"github.com/pkg/errors"

	"qtermsim/gates"
)

var ErrInvalidProgram = errors.New("invalid program")

// Program is a flat, ordered instruction list.
type Program struct {
	// NumQubits is the declared register width. The effective width also
	// covers every qubit an instruction references.
	NumQubits int
	// Registers maps declared classical registers to their size.
	Registers    map[string]int
	Instructions []Instruction
}

func NewProgram() *Program {
	return &Program{Registers: make(map[string]int)}
}

// Append adds instructions in order.
func (p *Program) Append(ins ...Instruction) *Program {
	p.Instructions = append(p.Instructions, ins...)
	return p
}

// Gate appends a parameterless unitary.
func (p *Program) Gate(name string, qubits ...int) *Program {
	return p.Append(Unitary{Name: name, Targets: qubits})
}

// ParamGate appends a parameterized unitary.
func (p *Program) ParamGate(name string, params []float64, qubits ...int) *Program {
	return p.Append(Unitary{Name: name, Targets: qubits, Params: params})
}

// Measure appends a measurement into register[bit].
func (p *Program) Measure(qubit int, register string, bit int) *Program {
	return p.Append(Measurement{Qubit: qubit, Register: register, Bit: bit})
}

// DeclareRegister records a classical register of the given size.
func (p *Program) DeclareRegister(name string, size int) {
	if p.Registers == nil {
		p.Registers = make(map[string]int)
	}
	p.Registers[name] = max(p.Registers[name], size)
}

// QubitCount returns the number of addressable qubits: one past the highest
// referenced qubit, or the declared width if larger, and at least 1.
func (p *Program) QubitCount() int {
	highest := -1
	for _, ins := range p.Instructions {
		for _, q := range ins.Wires() {
			highest = max(highest, q)
		}
	}
	return max(highest+1, p.NumQubits, 1)
}

// Validate checks every instruction against the catalog without running it.
func (p *Program) Validate(catalog *gates.Catalog) error {
	for i, ins := range p.Instructions {
		if err := validate(catalog, ins); err != nil {
			return errors.Wrapf(err, "instruction %d (%s)", i, ins)
		}
	}
	return nil
}

func validate(catalog *gates.Catalog, ins Instruction) error {
	switch v := ins.(type) {
	case Unitary:
		return validateUnitary(catalog, v)
	case Conditional:
		if v.Register == "" {
			return errors.Wrap(ErrInvalidProgram, "condition without register")
		}
		return validateUnitary(catalog, v.Gate)
	case Measurement:
		if v.Qubit < 0 || v.Bit < 0 || v.Register == "" {
			return errors.Wrap(ErrInvalidProgram, "malformed measurement")
		}
	}
	return nil
}

func validateUnitary(catalog *gates.Catalog, u Unitary) error {
	def, ok := catalog.Definition(u.Name)
	if !ok {
		return errors.Wrapf(gates.ErrUnsupportedGate, "%q", u.Name)
	}
	if len(u.Params) != def.Params {
		return errors.Wrapf(gates.ErrParamCount, "gate %q takes %d, got %d", u.Name, def.Params, len(u.Params))
	}
	if len(u.Targets) != def.Qubits {
		return errors.Wrapf(ErrInvalidProgram, "gate %q acts on %d qubits, got %d", u.Name, def.Qubits, len(u.Targets))
	}
	for i, q := range u.Targets {
		if q < 0 {
			return errors.Wrapf(ErrInvalidProgram, "negative qubit %d", q)
		}
		if slices.Contains(u.Targets[:i], q) {
			return errors.Wrapf(ErrInvalidProgram, "qubit %d listed twice", q)
		}
	}
	return nil
}
