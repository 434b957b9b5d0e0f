package state

import (
	"slices"

	"github.com/pkg/errors"
)

// Registers holds named classical bit arrays written by measurements.
// A register grows on demand; new positions read as 0.
type Registers struct {
	regs map[string][]int
}

func NewRegisters() *Registers {
	return &Registers{regs: make(map[string][]int)}
}

// Declare makes sure the register exists with at least size bits.
func (r *Registers) Declare(name string, size int) {
	bits := r.regs[name]
	for len(bits) < size {
		bits = append(bits, 0)
	}
	r.regs[name] = bits
}

// Set writes one bit, growing the register to hold it.
func (r *Registers) Set(name string, bit, value int) error {
	if bit < 0 {
		return errors.Errorf("register %s: negative bit index %d", name, bit)
	}
	r.Declare(name, bit+1)
	if value != 0 {
		value = 1
	}
	r.regs[name][bit] = value
	return nil
}

// Bit reads one bit. Unknown registers and positions read as 0.
func (r *Registers) Bit(name string, bit int) int {
	bits := r.regs[name]
	if bit < 0 || bit >= len(bits) {
		return 0
	}
	return bits[bit]
}

// Value interprets the register as an unsigned integer with bit 0 as the
// least significant bit.
func (r *Registers) Value(name string) uint64 {
	var v uint64
	for i, b := range r.regs[name] {
		if b != 0 {
			v |= 1 << i
		}
	}
	return v
}

// Bits returns a copy of the register contents.
func (r *Registers) Bits(name string) []int {
	return slices.Clone(r.regs[name])
}

// Names returns the register names in sorted order.
func (r *Registers) Names() []string {
	names := make([]string, 0, len(r.regs))
	for name := range r.regs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Snapshot copies every register.
func (r *Registers) Snapshot() map[string][]int {
	out := make(map[string][]int, len(r.regs))
	for name, bits := range r.regs {
		out[name] = slices.Clone(bits)
	}
	return out
}
