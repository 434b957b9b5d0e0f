package gates

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramsFor(def Definition) []float64 {
	params := make([]float64, def.Params)
	for i := range params {
		params[i] = 0.37 * float64(i+1)
	}
	return params
}

func TestDefaultCatalogIsUnitary(t *testing.T) {
	c := Default()
	for _, name := range c.Names() {
		def, ok := c.Definition(name)
		require.True(t, ok, name)

		m, err := c.Lookup(name, paramsFor(def))
		require.NoError(t, err, name)
		assert.Equal(t, def.Qubits, m.Qubits(), "gate %s qubit count", name)
		assert.True(t, m.IsUnitary(1e-12), "gate %s is not unitary", name)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	c := Default()
	upper, err := c.Lookup("CX", nil)
	require.NoError(t, err)
	lower, err := c.Lookup("cx", nil)
	require.NoError(t, err)
	assert.True(t, upper.Equal(lower, 0))
}

func TestLookupErrors(t *testing.T) {
	c := Default()

	_, err := c.Lookup("nope", nil)
	assert.True(t, errors.Is(err, ErrUnsupportedGate))

	_, err = c.Lookup("rx", nil)
	assert.True(t, errors.Is(err, ErrParamCount))

	_, err = c.Lookup("h", []float64{1})
	assert.True(t, errors.Is(err, ErrParamCount))
}

func TestControlledNotLayout(t *testing.T) {
	// Controls are listed first, so the control is bit 1 of the matrix index.
	m, err := Default().Lookup("cx", nil)
	require.NoError(t, err)
	want := Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	}
	assert.True(t, m.Equal(want, 0), "got %v", m)
}

func TestToffoliLayout(t *testing.T) {
	m, err := Default().Lookup("ccx", nil)
	require.NoError(t, err)
	require.Equal(t, 8, m.Size())
	for r := range 6 {
		assert.Equal(t, complex(1, 0), m[r][r])
	}
	assert.Equal(t, complex(1, 0), m[6][7])
	assert.Equal(t, complex(1, 0), m[7][6])
	assert.Equal(t, complex(0, 0), m[6][6])
}

func TestRotationsMatchFixedGates(t *testing.T) {
	c := Default()
	x, _ := c.Lookup("x", nil)
	rxPi, err := c.Lookup("rx", []float64{math.Pi})
	require.NoError(t, err)
	// RX(π) = -i·X
	assert.True(t, rxPi.Equal(Matrix{{0, -1i}, {-1i, 0}}, 1e-12))
	assert.True(t, x.Mul(x).Equal(Identity(1), 0))

	h, _ := c.Lookup("h", nil)
	u2, err := c.Lookup("u2", []float64{0, math.Pi})
	require.NoError(t, err)
	assert.True(t, u2.Equal(h, 1e-12))

	s, _ := c.Lookup("s", nil)
	sdg, _ := c.Lookup("sdg", nil)
	assert.True(t, s.Mul(sdg).Equal(Identity(1), 1e-12))

	sx, _ := c.Lookup("sx", nil)
	assert.True(t, sx.Mul(sx).Equal(x, 1e-12))
}

func TestRegisterMatrix(t *testing.T) {
	c := NewCatalog()

	err := c.RegisterMatrix("bad", "", Matrix{{1, 1}, {0, 1}})
	assert.True(t, errors.Is(err, ErrNotUnitary))

	err = c.RegisterMatrix("odd", "", Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	assert.Error(t, err)

	iswap := Matrix{
		{1, 0, 0, 0},
		{0, 0, 1i, 0},
		{0, 1i, 0, 0},
		{0, 0, 0, 1},
	}
	require.NoError(t, c.RegisterMatrix("iSWAP", "imaginary swap", iswap))

	err = c.RegisterMatrix("iswap", "", iswap)
	assert.True(t, errors.Is(err, ErrDuplicateGate))

	got, err := c.Lookup("iswap", nil)
	require.NoError(t, err)
	got[0][0] = 5
	again, _ := c.Lookup("iswap", nil)
	assert.Equal(t, complex(1, 0), again[0][0], "lookups must not share storage")
}
