package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitZeroesRegistersAndStacks(t *testing.T) {
	s, err := Init(64, 8)
	require.NoError(t, err)

	assert.Equal(t, UWord(0), s.PC)
	assert.Equal(t, UWord(0), s.HANDLER)
	assert.Equal(t, UWord(64), s.MEMORY)
	assert.Equal(t, UWord(8), s.SSIZE)
	assert.Equal(t, UWord(8), s.RSIZE)
	assert.Equal(t, UWord(0), s.SP)
	assert.Equal(t, UWord(0), s.RP)
}

func TestReallocMemoryPreservesContents(t *testing.T) {
	s, err := Init(16, 4)
	require.NoError(t, err)
	require.Equal(t, StatusOK, s.StoreByte(4, 0x42))

	require.NoError(t, s.ReallocMemory(64))
	assert.Equal(t, UWord(64), s.MEMORY)
	b, st := s.LoadByte(4)
	require.Equal(t, StatusOK, st)
	assert.Equal(t, Byte(0x42), b)
}

func TestReallocStackPreservesLiveWords(t *testing.T) {
	s, err := Init(16, 4)
	require.NoError(t, err)
	require.Equal(t, StatusOK, s.PushStack(DataStack, 7))
	require.Equal(t, StatusOK, s.PushStack(DataStack, 8))

	require.NoError(t, s.ReallocStack(32))
	v0, _ := s.LoadStack(DataStack, 0)
	v1, _ := s.LoadStack(DataStack, 1)
	assert.Equal(t, Word(8), v0)
	assert.Equal(t, Word(7), v1)
}

func TestRegisterArgsComputesLengths(t *testing.T) {
	s, err := Init(16, 4)
	require.NoError(t, err)

	s.RegisterArgs([]string{"prog", "hello"})
	assert.Equal(t, 2, s.Argc())
	assert.Equal(t, []int{4, 5}, s.argvLen)
}

func TestCallNativeRejectedWithoutUnsafeConstructor(t *testing.T) {
	s, err := Init(64, 8)
	require.NoError(t, err)

	asm(t, s, 0, Word(0), OpCallNative)
	assert.Equal(t, StatusInvalidOpcode, s.Run())
}

func TestCallNativeInvokesRegisteredCallback(t *testing.T) {
	s, err := NewStateUnsafeNative(64, 8)
	require.NoError(t, err)

	called := false
	s.RegisterNative(1, func(s *State) Status {
		called = true
		return s.PushStack(DataStack, 9)
	})

	asm(t, s, 0, Word(1), OpCallNative, OpHalt)
	require.Equal(t, StatusHalt, s.Run())
	assert.True(t, called)
	top, _ := s.LoadStack(DataStack, 0)
	assert.Equal(t, Word(9), top)
}
