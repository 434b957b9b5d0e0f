package state

import (
	"strconv"
	"strings"
)

// Index is a computational basis index. Bit q holds qubit q's value.
type Index = uint64

// spread maps the bits of a matrix cell index onto the global positions of the
// target qubits. Bit i of cell lands on qubit reversed[i].
func spread(cell int, reversed []int) Index {
	var mask Index
	for i, q := range reversed {
		if cell&(1<<i) != 0 {
			mask |= 1 << q
		}
	}
	return mask
}

// gather is the inverse of spread: it collects the target qubit bits of idx
// into a matrix cell index.
func gather(idx Index, reversed []int) int {
	cell := 0
	for i, q := range reversed {
		if idx>>q&1 == 1 {
			cell |= 1 << i
		}
	}
	return cell
}

func qubitMask(qubits []int) Index {
	var mask Index
	for _, q := range qubits {
		mask |= 1 << q
	}
	return mask
}

// nextSubset steps x to the next bit pattern confined to mask, in increasing
// numeric order, wrapping to 0 after mask itself.
func nextSubset(x, mask Index) Index {
	return ((x | ^mask) + 1) & mask
}

func bitOf(idx Index, q int) int {
	return int(idx >> q & 1)
}

// decode splits idx into one classical bit per qubit, qubit 0 first.
func decode(idx Index, numQubits int) []int {
	out := make([]int, numQubits)
	for q := range out {
		out[q] = bitOf(idx, q)
	}
	return out
}

// binary renders idx most significant bit first, zero-padded to width.
func binary(idx Index, width int) string {
	s := strconv.FormatUint(idx, 2)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
