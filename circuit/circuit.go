package circuit

import (
	"maps"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrSlotTaken = errors.New("slot already taken")

// Slot is one cell of the wire/column grid. An instruction on several qubits
// fills one slot per qubit; the slots share an ID and Connector is the qubit's
// position in the instruction's operand list.
type Slot struct {
	ID          string
	Instruction Instruction
	Wire        int
	Column      int
	Connector   int
}

// Circuit places instructions on a grid of wires (qubits) by columns
// (time steps). Each cell holds at most one slot.
type Circuit struct {
	wires     [][]*Slot
	Registers map[string]int
}

// NewCircuit creates an empty circuit with numQubits wires.
func NewCircuit(numQubits int) *Circuit {
	c := &Circuit{Registers: make(map[string]int)}
	c.grow(numQubits-1, -1)
	return c
}

// NumQubits returns the number of wires.
func (c *Circuit) NumQubits() int {
	return len(c.wires)
}

// Columns returns the number of columns in use.
func (c *Circuit) Columns() int {
	cols := 0
	for _, row := range c.wires {
		cols = max(cols, len(row))
	}
	return cols
}

// grow extends the grid so that (wire, column) is addressable.
func (c *Circuit) grow(wire, column int) {
	for len(c.wires) <= wire {
		c.wires = append(c.wires, nil)
	}
	if column < 0 {
		return
	}
	for len(c.wires[wire]) <= column {
		c.wires[wire] = append(c.wires[wire], nil)
	}
}

// At returns the slot at the given cell, or nil when it is empty.
func (c *Circuit) At(wire, column int) *Slot {
	if wire < 0 || wire >= len(c.wires) || column < 0 || column >= len(c.wires[wire]) {
		return nil
	}
	return c.wires[wire][column]
}

// CanPlace reports whether every listed wire is free in column.
func (c *Circuit) CanPlace(column int, wires []int) bool {
	for _, w := range wires {
		if c.At(w, column) != nil {
			return false
		}
	}
	return true
}

// Place puts an instruction into column and returns the id of its slots.
func (c *Circuit) Place(column int, ins Instruction) (string, error) {
	wires := ins.Wires()
	if len(wires) == 0 || column < 0 {
		return "", errors.Wrapf(ErrInvalidProgram, "cannot place %s at column %d", ins, column)
	}
	for i, w := range wires {
		if w < 0 {
			return "", errors.Wrapf(ErrInvalidProgram, "negative qubit %d", w)
		}
		for _, prev := range wires[:i] {
			if prev == w {
				return "", errors.Wrapf(ErrInvalidProgram, "qubit %d listed twice", w)
			}
		}
	}
	if !c.CanPlace(column, wires) {
		return "", errors.Wrapf(ErrSlotTaken, "column %d", column)
	}

	id := uuid.NewString()
	for k, w := range wires {
		c.grow(w, column)
		c.wires[w][column] = &Slot{ID: id, Instruction: ins, Wire: w, Column: column, Connector: k}
	}
	if m, ok := ins.(Measurement); ok {
		c.Registers[m.Register] = max(c.Registers[m.Register], m.Bit+1)
	}
	return id, nil
}

// AddGate places a catalog gate on qubits in the given column.
func (c *Circuit) AddGate(column int, name string, qubits []int, params ...float64) (string, error) {
	return c.Place(column, Unitary{Name: name, Targets: qubits, Params: params})
}

// AddMeasure places a measurement of qubit into register[bit].
func (c *Circuit) AddMeasure(column, qubit int, register string, bit int) (string, error) {
	return c.Place(column, Measurement{Qubit: qubit, Register: register, Bit: bit})
}

// Remove clears every slot with the given id and reports whether any existed.
func (c *Circuit) Remove(id string) bool {
	found := false
	for _, row := range c.wires {
		for col, slot := range row {
			if slot != nil && slot.ID == id {
				row[col] = nil
				found = true
			}
		}
	}
	return found
}

// Program flattens the grid column by column, top wire first. Only the
// connector 0 slot of each instruction emits it.
func (c *Circuit) Program() *Program {
	p := &Program{
		NumQubits: len(c.wires),
		Registers: maps.Clone(c.Registers),
	}
	for col := range c.Columns() {
		for w := range c.wires {
			if slot := c.At(w, col); slot != nil && slot.Connector == 0 {
				p.Instructions = append(p.Instructions, slot.Instruction)
			}
		}
	}
	return p
}

// Layout places each instruction of p in the earliest column after every
// earlier instruction sharing one of its qubits or its classical register.
func Layout(p *Program) *Circuit {
	c := NewCircuit(p.QubitCount())
	for name, size := range p.Registers {
		c.Registers[name] = size
	}

	// Next free column per wire and per classical register.
	nextOnWire := make(map[int]int)
	nextOnReg := make(map[string]int)

	for _, ins := range p.Instructions {
		col := 0
		for _, w := range ins.Wires() {
			col = max(col, nextOnWire[w])
		}
		reg, hasReg := registerOf(ins)
		if hasReg {
			col = max(col, nextOnReg[reg])
		}

		if _, err := c.Place(col, ins); err != nil {
			// Malformed instructions are left out of the diagram.
			continue
		}

		for _, w := range ins.Wires() {
			nextOnWire[w] = col + 1
		}
		if hasReg {
			nextOnReg[reg] = col + 1
		}
	}
	return c
}
