package gates

import (
	"math/bits"
	"math/cmplx"
)

// Matrix is a square numeric unitary acting on 2^m amplitudes.
// Row/column bit 0 corresponds to the last qubit a gate is applied to.
type Matrix [][]complex128

// Size returns the number of rows.
func (m Matrix) Size() int {
	return len(m)
}

// Qubits returns m such that the matrix is 2^m x 2^m, or -1 when it is not
// square or its size is not a power of two.
func (m Matrix) Qubits() int {
	n := len(m)
	if n == 0 || n&(n-1) != 0 {
		return -1
	}
	for _, row := range m {
		if len(row) != n {
			return -1
		}
	}
	return bits.TrailingZeros(uint(n))
}

// Dagger returns the conjugate transpose.
func (m Matrix) Dagger() Matrix {
	n := len(m)
	out := zeros(n)
	for r := range n {
		for c := range n {
			out[c][r] = cmplx.Conj(m[r][c])
		}
	}
	return out
}

// Mul returns m·o. Both matrices must have the same size.
func (m Matrix) Mul(o Matrix) Matrix {
	n := len(m)
	out := zeros(n)
	for r := range n {
		for k := range n {
			if m[r][k] == 0 {
				continue
			}
			for c := range n {
				out[r][c] += m[r][k] * o[k][c]
			}
		}
	}
	return out
}

// IsUnitary reports whether m·m† is the identity within tol.
func (m Matrix) IsUnitary(tol float64) bool {
	if m.Qubits() < 0 {
		return false
	}
	p := m.Mul(m.Dagger())
	for r := range p {
		for c := range p[r] {
			want := complex(0, 0)
			if r == c {
				want = 1
			}
			if cmplx.Abs(p[r][c]-want) > tol {
				return false
			}
		}
	}
	return true
}

// Equal reports whether every cell of m and o differs by at most tol.
func (m Matrix) Equal(o Matrix, tol float64) bool {
	if len(m) != len(o) {
		return false
	}
	for r := range m {
		if len(m[r]) != len(o[r]) {
			return false
		}
		for c := range m[r] {
			if cmplx.Abs(m[r][c]-o[r][c]) > tol {
				return false
			}
		}
	}
	return true
}

func zeros(n int) Matrix {
	out := make(Matrix, n)
	for i := range out {
		out[i] = make([]complex128, n)
	}
	return out
}

// Identity returns the 2^qubits identity matrix.
func Identity(qubits int) Matrix {
	out := zeros(1 << qubits)
	for i := range out {
		out[i][i] = 1
	}
	return out
}

// Controlled wraps u with the given number of control qubits. Controls are
// listed before the targets, so they occupy the high bits of the index and u
// acts on the last block of the diagonal.
func Controlled(u Matrix, controls int) Matrix {
	n := len(u)
	size := n << controls
	out := Identity(bits.TrailingZeros(uint(size)))
	offset := size - n
	for r := range n {
		for c := range n {
			out[offset+r][offset+c] = u[r][c]
		}
	}
	return out
}

// Diagonal builds a diagonal matrix from its entries.
func Diagonal(d ...complex128) Matrix {
	out := zeros(len(d))
	for i, v := range d {
		out[i][i] = v
	}
	return out
}
