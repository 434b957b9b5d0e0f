package state

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/floats/scalar"

	"qtermsim/gates"
)

const tol = 1e-12

func mustEngine(n int) *Engine {
	e, err := New(n, WithSeed(7))
	if err != nil {
		panic(err)
	}
	return e
}

func apply(e *Engine, name string, qubits ...int) {
	So(e.ApplyGate(gates.Default(), name, qubits), ShouldBeNil)
}

func sameState(a, b *Engine) bool {
	if a.Len() != b.Len() {
		return false
	}
	for idx, amp := range a.amps {
		if cmplx.Abs(amp-b.Amplitude(idx)) > tol {
			return false
		}
	}
	return true
}

func TestGroundState(t *testing.T) {
	Convey("Given a fresh engine", t, func() {
		e := mustEngine(3)

		Convey("It holds exactly |000⟩", func() {
			So(e.Len(), ShouldEqual, 1)
			So(e.Amplitude(0), ShouldEqual, complex(1, 0))
			So(e.NumQubits(), ShouldEqual, 3)
		})

		Convey("Absent indices read as zero amplitude", func() {
			So(e.Amplitude(5), ShouldEqual, complex(0, 0))
		})

		Convey("Qubit counts outside the index width are rejected", func() {
			_, err := New(0)
			So(errors.Is(err, ErrTooManyQubits), ShouldBeTrue)
			_, err = New(MaxQubits + 1)
			So(errors.Is(err, ErrTooManyQubits), ShouldBeTrue)
		})
	})
}

func TestSingleQubitGates(t *testing.T) {
	Convey("Given a one qubit engine", t, func() {
		e := mustEngine(1)

		Convey("X flips qubit 0", func() {
			apply(e, "x", 0)
			So(e.Len(), ShouldEqual, 1)
			So(e.Amplitude(1), ShouldEqual, complex(1, 0))
		})

		Convey("H creates an even superposition", func() {
			apply(e, "h", 0)
			So(e.Len(), ShouldEqual, 2)
			So(real(e.Amplitude(0)), ShouldAlmostEqual, 1/math.Sqrt2, tol)
			So(real(e.Amplitude(1)), ShouldAlmostEqual, 1/math.Sqrt2, tol)

			Convey("And a million shots split evenly", func() {
				counts, err := e.MeasureMany(1000000)
				So(err, ShouldBeNil)
				So(counts.Total(), ShouldEqual, 1000000)
				So(counts["0"], ShouldBeBetween, 495000, 505000)
				So(counts["1"], ShouldBeBetween, 495000, 505000)
			})
		})
	})
}

func TestIdentityRoundTrip(t *testing.T) {
	Convey("Given a three qubit state in superposition", t, func() {
		e := mustEngine(3)
		apply(e, "h", 0)
		apply(e, "h", 2)
		apply(e, "t", 2)
		before := e.Clone()

		for _, name := range []string{"x", "h", "y", "z"} {
			Convey("Applying "+name+" twice restores it", func() {
				apply(e, name, 1)
				apply(e, name, 1)
				So(sameState(e, before), ShouldBeTrue)
			})
		}

		Convey("A gate followed by its adjoint restores it", func() {
			m, err := gates.Default().Lookup("u3", []float64{0.3, 1.1, -0.4})
			So(err, ShouldBeNil)
			So(e.ApplyTransform(m, []int{2}), ShouldBeNil)
			So(e.ApplyTransform(m.Dagger(), []int{2}), ShouldBeNil)
			So(sameState(e, before), ShouldBeTrue)
		})
	})
}

func TestMultiQubitMasking(t *testing.T) {
	Convey("Given a two qubit engine", t, func() {
		e := mustEngine(2)

		Convey("CNOT follows the listed control and target", func() {
			apply(e, "x", 1)
			apply(e, "cx", 1, 0)
			So(e.Len(), ShouldEqual, 1)
			So(e.Amplitude(3), ShouldEqual, complex(1, 0))

			apply(e, "cx", 0, 1)
			So(e.Amplitude(1), ShouldEqual, complex(1, 0))
		})

		Convey("H and CNOT produce a Bell pair", func() {
			apply(e, "h", 0)
			apply(e, "cx", 0, 1)
			counts, err := e.MeasureMany(10000)
			So(err, ShouldBeNil)
			So(counts.Keys(), ShouldResemble, []string{"00", "11"})
			So(counts.Total(), ShouldEqual, 10000)
		})

		Convey("Phase kickback moves the minus state onto the control", func() {
			apply(e, "x", 1)
			apply(e, "h", 1)
			apply(e, "h", 0)
			apply(e, "cx", 0, 1)
			apply(e, "h", 0)

			So(e.Len(), ShouldEqual, 2)
			So(real(e.Amplitude(1)), ShouldAlmostEqual, 1/math.Sqrt2, tol)
			So(real(e.Amplitude(3)), ShouldAlmostEqual, -1/math.Sqrt2, tol)

			counts, err := e.MeasureMany(10000)
			So(err, ShouldBeNil)
			for _, key := range counts.Keys() {
				So(key[1:], ShouldEqual, "1")
			}
		})

		Convey("Swap exchanges the qubits", func() {
			apply(e, "x", 0)
			apply(e, "swap", 0, 1)
			So(e.Amplitude(2), ShouldEqual, complex(1, 0))
		})
	})

	Convey("Given three qubits with a gap between targets", t, func() {
		e := mustEngine(3)
		apply(e, "x", 0)
		apply(e, "x", 1)

		Convey("Toffoli on non-adjacent qubits sets the target", func() {
			apply(e, "ccx", 0, 1, 2)
			So(e.Amplitude(7), ShouldEqual, complex(1, 0))
		})

		Convey("CNOT skipping the middle qubit leaves it alone", func() {
			apply(e, "cx", 0, 2)
			So(e.Amplitude(7), ShouldEqual, complex(1, 0))
			apply(e, "cx", 2, 0)
			So(e.Amplitude(6), ShouldEqual, complex(1, 0))
		})
	})
}

func TestNormalization(t *testing.T) {
	Convey("Given a long random circuit", t, func() {
		cat := gates.Default()
		rng := rand.New(rand.NewPCG(1, 2))
		e := mustEngine(5)
		names := cat.Names()

		for range 300 {
			def, _ := cat.Definition(names[rng.IntN(len(names))])
			perm := rng.Perm(5)[:def.Qubits]
			params := make([]float64, def.Params)
			for i := range params {
				params[i] = rng.Float64() * 2 * math.Pi
			}
			So(e.ApplyGate(cat, def.Name, perm, params...), ShouldBeNil)
		}

		Convey("The state stays normalized", func() {
			So(scalar.EqualWithinAbs(e.Norm(), 1, tol), ShouldBeTrue)
		})
	})
}

func TestTransformPathsAgree(t *testing.T) {
	Convey("Given a partially populated four qubit state", t, func() {
		e := mustEngine(4)
		apply(e, "h", 0)
		apply(e, "cx", 0, 3)
		apply(e, "h", 2)
		apply(e, "s", 2)

		m, err := gates.Default().Lookup("crx", []float64{0.9})
		So(err, ShouldBeNil)
		targets := []int{3, 1}
		reversed := []int{1, 3}
		cellMasks := make([]Index, len(m))
		for cell := range cellMasks {
			cellMasks[cell] = spread(cell, reversed)
		}
		free := e.fullMask() &^ qubitMask(targets)

		Convey("Sparse and dense accumulation yield the same map", func() {
			dense, _ := prune(e.transformDense(m, cellMasks, free, 1<<2))
			sparse, _ := prune(e.transformSparse(m, reversed, cellMasks))
			So(len(sparse), ShouldEqual, len(dense))
			for idx, amp := range dense {
				So(cmplx.Abs(amp-sparse[idx]), ShouldBeLessThan, tol)
			}
		})
	})
}

func TestTransformValidation(t *testing.T) {
	Convey("Given a two qubit engine", t, func() {
		e := mustEngine(2)
		cx, _ := gates.Default().Lookup("cx", nil)

		Convey("Out of range qubits are rejected", func() {
			err := e.ApplyTransform(cx, []int{0, 2})
			So(errors.Is(err, ErrMalformedTargets), ShouldBeTrue)
		})

		Convey("Duplicate qubits are rejected", func() {
			err := e.ApplyTransform(cx, []int{1, 1})
			So(errors.Is(err, ErrMalformedTargets), ShouldBeTrue)
		})

		Convey("A matrix of the wrong size is rejected", func() {
			err := e.ApplyTransform(cx, []int{0})
			So(errors.Is(err, ErrMalformedMatrix), ShouldBeTrue)
		})

		Convey("Unknown gates surface the catalog error", func() {
			err := e.ApplyGate(gates.Default(), "warp", []int{0})
			So(errors.Is(err, gates.ErrUnsupportedGate), ShouldBeTrue)
		})

		Convey("A failed call leaves the state untouched", func() {
			_ = e.ApplyTransform(cx, []int{0, 0})
			So(e.Amplitude(0), ShouldEqual, complex(1, 0))
		})

		Convey("An annihilating matrix falls back to the ground state", func() {
			apply(e, "x", 0)
			So(e.ApplyTransform(gates.Matrix{{0, 0}, {0, 0}}, []int{1}), ShouldBeNil)
			So(e.Len(), ShouldEqual, 1)
			So(e.Amplitude(0), ShouldEqual, complex(1, 0))
		})
	})
}

func TestMarginals(t *testing.T) {
	Convey("Given qubit 1 in superposition and qubit 0 set", t, func() {
		e := mustEngine(2)
		apply(e, "x", 0)
		apply(e, "h", 1)

		probs := e.QubitProbabilities()
		So(probs[0].One, ShouldAlmostEqual, 1, tol)
		So(probs[1].Zero, ShouldAlmostEqual, 0.5, tol)
		So(probs[1].One, ShouldAlmostEqual, 0.5, tol)

		basis := e.Amplitudes()
		So(basis, ShouldHaveLength, 2)
		So(basis[0].Bits, ShouldEqual, "01")
		So(basis[1].Bits, ShouldEqual, "11")
	})
}
