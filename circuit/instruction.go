package circuit

import (
	"fmt"
	"strings"

	"qtermsim/state"
)

// Instruction is one step of a program. It is one of Unitary, Measurement or
// Conditional.
type Instruction interface {
	// Wires returns the qubits the instruction touches.
	Wires() []int
	String() string
	instruction()
}

// Unitary applies a named catalog gate to Targets in the listed order.
type Unitary struct {
	Name    string
	Targets []int
	Params  []float64
}

func (u Unitary) Wires() []int { return u.Targets }

func (u Unitary) String() string {
	var sb strings.Builder
	sb.WriteString(u.Name)
	if len(u.Params) > 0 {
		params := make([]string, len(u.Params))
		for i, p := range u.Params {
			params[i] = fmt.Sprintf("%g", p)
		}
		fmt.Fprintf(&sb, "(%s)", strings.Join(params, ","))
	}
	for i, q := range u.Targets {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "q%d", q)
	}
	return sb.String()
}

func (Unitary) instruction() {}

// Measurement samples Qubit and stores the outcome in Register[Bit].
type Measurement struct {
	Qubit    int
	Register string
	Bit      int
}

func (m Measurement) Wires() []int { return []int{m.Qubit} }

func (m Measurement) String() string {
	return fmt.Sprintf("measure q%d -> %s[%d]", m.Qubit, m.Register, m.Bit)
}

func (Measurement) instruction() {}

// Conditional applies Gate only when a classical register holds Value. With
// Bit >= 0 only that bit is compared; otherwise the whole register is read as
// an unsigned integer, bit 0 least significant.
type Conditional struct {
	Register string
	Bit      int
	Value    uint64
	Gate     Unitary
}

func (c Conditional) Wires() []int { return c.Gate.Targets }

func (c Conditional) String() string {
	if c.Bit >= 0 {
		return fmt.Sprintf("if %s[%d]==%d %s", c.Register, c.Bit, c.Value, c.Gate)
	}
	return fmt.Sprintf("if %s==%d %s", c.Register, c.Value, c.Gate)
}

func (Conditional) instruction() {}

// Holds reports whether the condition is met by regs.
func (c Conditional) Holds(regs *state.Registers) bool {
	if c.Bit >= 0 {
		return uint64(regs.Bit(c.Register, c.Bit)) == c.Value
	}
	return regs.Value(c.Register) == c.Value
}

// registerOf returns the classical register an instruction reads or writes.
func registerOf(ins Instruction) (string, bool) {
	switch v := ins.(type) {
	case Measurement:
		return v.Register, true
	case Conditional:
		return v.Register, true
	}
	return "", false
}
