package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterLookupRelease(t *testing.T) {
	tbl := New[string]()

	id := tbl.Register("alpha")
	assert.NotZero(t, id)

	v, ok := tbl.Lookup(id)
	assert.True(t, ok)
	assert.Equal(t, "alpha", v)

	tbl.Release(id)
	_, ok = tbl.Lookup(id)
	assert.False(t, ok)
}

func TestHandlesAreNeverReused(t *testing.T) {
	tbl := New[int]()
	a := tbl.Register(1)
	tbl.Release(a)
	b := tbl.Register(2)
	assert.NotEqual(t, a, b)
}

func TestLen(t *testing.T) {
	tbl := New[int]()
	tbl.Register(1)
	tbl.Register(2)
	assert.Equal(t, 2, tbl.Len())
}
