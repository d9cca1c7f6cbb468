package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadObjectRoundTrip(t *testing.T) {
	src, err := Init(256, 16)
	require.NoError(t, err)
	asm(t, src, 0, 2, 3, OpAdd, OpHalt)

	var buf bytes.Buffer
	st := src.SaveObject(0, 64, &buf)
	require.Equal(t, StatusOK, st)

	dst, err := Init(256, 16)
	require.NoError(t, err)
	n, st := dst.LoadObject(0, &buf)
	require.Equal(t, StatusOK, st)
	assert.Equal(t, 64, n)

	require.Equal(t, StatusHalt, dst.Run())
	top, _ := dst.LoadStack(DataStack, 0)
	assert.Equal(t, Word(5), top)
}

func TestLoadObjectSkipsShebang(t *testing.T) {
	src, err := Init(128, 8)
	require.NoError(t, err)
	asm(t, src, 0, 1, OpHalt)

	var buf bytes.Buffer
	require.Equal(t, StatusOK, src.SaveObject(0, 32, &buf))

	dst, err := Init(128, 8)
	require.NoError(t, err)
	_, st := dst.LoadObject(0, &buf)
	assert.Equal(t, StatusOK, st)
}

func TestLoadObjectRejectsBadMagic(t *testing.T) {
	dst, err := Init(128, 8)
	require.NoError(t, err)
	bad := bytes.NewBufferString("XXXXXX\x00\x04\x00\x00\x00\x00")
	_, st := dst.LoadObject(0, bad)
	assert.Equal(t, StatusObjectMalformed, st)
}

func TestLoadObjectRejectsIncompatibleWordSize(t *testing.T) {
	dst, err := Init(128, 8)
	require.NoError(t, err)
	header := append([]byte{}, objectMagic[:]...)
	header = append(header, byte(EndismLittle), byte(WordSize+1))
	header = append(header, make([]byte, WordSize)...)
	_, st := dst.LoadObject(0, bytes.NewReader(header))
	assert.Equal(t, StatusObjectIncompatible, st)
}
