package gates

import (
	"math"
	"math/cmplx"
)

var invSqrt2 = complex(1/math.Sqrt2, 0)

var (
	pauliX = Matrix{
		{0, 1},
		{1, 0},
	}
	pauliY = Matrix{
		{0, -1i},
		{1i, 0},
	}
	pauliZ   = Diagonal(1, -1)
	hadamard = Matrix{
		{invSqrt2, invSqrt2},
		{invSqrt2, -invSqrt2},
	}
	sqrtX = Matrix{
		{0.5 + 0.5i, 0.5 - 0.5i},
		{0.5 - 0.5i, 0.5 + 0.5i},
	}
	swap = Matrix{
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	}
)

func phase(theta float64) complex128 {
	return cmplx.Exp(complex(0, theta))
}

func rx(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return Matrix{
		{c, s},
		{s, c},
	}
}

func ry(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix{
		{c, -s},
		{s, c},
	}
}

func rz(theta float64) Matrix {
	return Diagonal(phase(-theta/2), phase(theta/2))
}

// u3 is the generic single-qubit rotation U(θ, φ, λ) from OpenQASM 2.0.
func u3(theta, phi, lambda float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix{
		{c, -phase(lambda) * s},
		{phase(phi) * s, phase(phi+lambda) * c},
	}
}

func fixed(m Matrix) func([]float64) Matrix {
	return func([]float64) Matrix { return clone(m) }
}

func standardGates() []Definition {
	return []Definition{
		{Name: "id", Description: "Identity", Qubits: 1, Build: fixed(Identity(1))},
		{Name: "x", Description: `Pauli X (PI rotation over X-axis) aka "NOT" gate`, Qubits: 1, Build: fixed(pauliX)},
		{Name: "y", Description: "Pauli Y (PI rotation over Y-axis)", Qubits: 1, Build: fixed(pauliY)},
		{Name: "z", Description: "Pauli Z (PI rotation over Z-axis)", Qubits: 1, Build: fixed(pauliZ)},
		{Name: "h", Description: "Hadamard gate", Qubits: 1, Build: fixed(hadamard)},
		{Name: "s", Description: "Phase gate (PI/2 rotation over Z-axis)", Qubits: 1, Build: fixed(Diagonal(1, 1i))},
		{Name: "sdg", Description: "Adjoint of S", Qubits: 1, Build: fixed(Diagonal(1, -1i))},
		{Name: "t", Description: "T gate (PI/4 rotation over Z-axis)", Qubits: 1, Build: fixed(Diagonal(1, phase(math.Pi/4)))},
		{Name: "tdg", Description: "Adjoint of T", Qubits: 1, Build: fixed(Diagonal(1, phase(-math.Pi/4)))},
		{Name: "sx", Description: "Square root of X", Qubits: 1, Build: fixed(sqrtX)},
		{Name: "sxdg", Description: "Adjoint of square root of X", Qubits: 1, Build: fixed(sqrtX.Dagger())},
		{
			Name: "rx", Description: "Rotation around X-axis", Qubits: 1, Params: 1,
			Build: func(p []float64) Matrix { return rx(p[0]) },
		},
		{
			Name: "ry", Description: "Rotation around Y-axis", Qubits: 1, Params: 1,
			Build: func(p []float64) Matrix { return ry(p[0]) },
		},
		{
			Name: "rz", Description: "Rotation around Z-axis", Qubits: 1, Params: 1,
			Build: func(p []float64) Matrix { return rz(p[0]) },
		},
		{
			Name: "p", Description: "Phase shift", Qubits: 1, Params: 1,
			Build: func(p []float64) Matrix { return Diagonal(1, phase(p[0])) },
		},
		{
			Name: "u1", Description: "Single-parameter phase shift U1(λ)", Qubits: 1, Params: 1,
			Build: func(p []float64) Matrix { return Diagonal(1, phase(p[0])) },
		},
		{
			Name: "u2", Description: "U2(φ, λ) = U3(π/2, φ, λ)", Qubits: 1, Params: 2,
			Build: func(p []float64) Matrix { return u3(math.Pi/2, p[0], p[1]) },
		},
		{
			Name: "u3", Description: "Generic rotation U3(θ, φ, λ)", Qubits: 1, Params: 3,
			Build: func(p []float64) Matrix { return u3(p[0], p[1], p[2]) },
		},
		{Name: "cx", Description: "Controlled NOT (CNOT) gate", Qubits: 2, Build: fixed(Controlled(pauliX, 1))},
		{Name: "cy", Description: "Controlled Y", Qubits: 2, Build: fixed(Controlled(pauliY, 1))},
		{Name: "cz", Description: "Controlled Z", Qubits: 2, Build: fixed(Controlled(pauliZ, 1))},
		{Name: "ch", Description: "Controlled Hadamard", Qubits: 2, Build: fixed(Controlled(hadamard, 1))},
		{Name: "swap", Description: "Swap two qubits", Qubits: 2, Build: fixed(swap)},
		{
			Name: "crx", Description: "Controlled RX", Qubits: 2, Params: 1,
			Build: func(p []float64) Matrix { return Controlled(rx(p[0]), 1) },
		},
		{
			Name: "cry", Description: "Controlled RY", Qubits: 2, Params: 1,
			Build: func(p []float64) Matrix { return Controlled(ry(p[0]), 1) },
		},
		{
			Name: "crz", Description: "Controlled RZ", Qubits: 2, Params: 1,
			Build: func(p []float64) Matrix { return Controlled(rz(p[0]), 1) },
		},
		{
			Name: "cp", Description: "Controlled phase shift", Qubits: 2, Params: 1,
			Build: func(p []float64) Matrix { return Controlled(Diagonal(1, phase(p[0])), 1) },
		},
		{
			Name: "cu1", Description: "Controlled U1", Qubits: 2, Params: 1,
			Build: func(p []float64) Matrix { return Controlled(Diagonal(1, phase(p[0])), 1) },
		},
		{Name: "ccx", Description: "Toffoli (doubly controlled NOT)", Qubits: 3, Build: fixed(Controlled(pauliX, 2))},
		{Name: "cswap", Description: "Fredkin (controlled swap)", Qubits: 3, Build: fixed(Controlled(swap, 1))},
	}
}
