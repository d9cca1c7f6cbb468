package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// extraSelector packs a library id and an op into the inline number EXTRA
// reads immediately after its own opcode byte (see extra.go).
func extraSelector(library, op UWord) Word {
	return Word(library<<8 | op)
}

func TestExtraUnknownLibraryFaults(t *testing.T) {
	s, err := Init(256, 16)
	require.NoError(t, err)

	asm(t, s, 0, OpExtra, extraSelector(7, 0))

	assert.Equal(t, StatusInvalidLibrary, s.Run())
}

func TestExtraNonNumberSelectorFaults(t *testing.T) {
	s, err := Init(256, 16)
	require.NoError(t, err)

	asm(t, s, 0, OpExtra, OpPop)

	assert.Equal(t, StatusInvalidOpcode, s.Run())
}

func TestLibcArgc(t *testing.T) {
	s, err := Init(256, 16)
	require.NoError(t, err)
	s.RegisterArgs([]string{"prog", "a", "bb"})

	asm(t, s, 0, OpExtra, extraSelector(libcLibrary, oxArgc), OpHalt)

	require.Equal(t, StatusHalt, s.Run())
	top, _ := s.LoadStack(DataStack, 0)
	assert.Equal(t, Word(3), top)
}

func TestLibcArgLen(t *testing.T) {
	s, err := Init(256, 16)
	require.NoError(t, err)
	s.RegisterArgs([]string{"prog", "hello"})

	asm(t, s, 0, 1, OpExtra, extraSelector(libcLibrary, oxArgLen), OpHalt)

	require.Equal(t, StatusHalt, s.Run())
	top, _ := s.LoadStack(DataStack, 0)
	assert.Equal(t, Word(5), top)
}

func TestLibcArgLenOutOfRangeFaults(t *testing.T) {
	s, err := Init(256, 16)
	require.NoError(t, err)
	s.RegisterArgs([]string{"prog"})

	asm(t, s, 0, 99, OpExtra, extraSelector(libcLibrary, oxArgLen))

	assert.Equal(t, StatusInvalidAddress, s.Run())
}

func TestLibcArgCopy(t *testing.T) {
	s, err := Init(256, 16)
	require.NoError(t, err)
	s.RegisterArgs([]string{"prog", "hi"})

	const dst = 128
	// ARG_COPY(i=1, buf=dst, len=8): len exceeds the argument, so only
	// len("hi") = 2 bytes are copied and 2 is pushed.
	asm(t, s, 0, 1, Word(dst), 8, OpExtra, extraSelector(libcLibrary, oxArgCopy), OpHalt)

	require.Equal(t, StatusHalt, s.Run())
	copied, _ := s.LoadStack(DataStack, 0)
	assert.Equal(t, Word(2), copied)
	b0, st := s.LoadByte(dst)
	require.Equal(t, StatusOK, st)
	b1, st := s.LoadByte(dst + 1)
	require.Equal(t, StatusOK, st)
	assert.Equal(t, Byte('h'), b0)
	assert.Equal(t, Byte('i'), b1)
}

func TestLibcStdFileDescriptors(t *testing.T) {
	s, err := Init(256, 16)
	require.NoError(t, err)

	asm(t, s, 0, OpExtra, extraSelector(libcLibrary, oxStdin),
		OpExtra, extraSelector(libcLibrary, oxStdout),
		OpExtra, extraSelector(libcLibrary, oxStderr), OpHalt)

	require.Equal(t, StatusHalt, s.Run())
	stderr, _ := s.LoadStack(DataStack, 0)
	stdout, _ := s.LoadStack(DataStack, 1)
	stdin, _ := s.LoadStack(DataStack, 2)
	assert.Equal(t, Word(2), stderr)
	assert.Equal(t, Word(1), stdout)
	assert.Equal(t, Word(0), stdin)
}

func TestSelfInitLoadStoreWordRoundTrip(t *testing.T) {
	s, err := Init(256, 16)
	require.NoError(t, err)

	// self.init(memBytes=64, stackWords=8) -> handle
	next := asm(t, s, 0, 64, 8, OpExtra, extraSelector(selfLibrary, selfInit))
	// self.store_word(handle, addr=4, val=99): handle is already on stack;
	// duplicate it (PUSH 0) since store_word consumes it.
	next = asm(t, s, next, 0, OpPush, 4, 99, OpExtra, extraSelector(selfLibrary, selfStoreWord))
	// self.load_word(handle, addr=4) -> pushes the stored value
	next = asm(t, s, next, 4, OpExtra, extraSelector(selfLibrary, selfLoadWord))
	asm(t, s, next, OpHalt)

	require.Equal(t, StatusHalt, s.Run())
	top, _ := s.LoadStack(DataStack, 0)
	assert.Equal(t, Word(99), top)
	assert.Equal(t, 1, s.innerTable().Len())
}

func TestSelfDestroyReleasesHandle(t *testing.T) {
	s, err := Init(256, 16)
	require.NoError(t, err)

	next := asm(t, s, 0, 64, 8, OpExtra, extraSelector(selfLibrary, selfInit))
	asm(t, s, next, OpExtra, extraSelector(selfLibrary, selfDestroy), OpHalt)

	require.Equal(t, StatusHalt, s.Run())
	assert.Equal(t, 0, s.innerTable().Len())
}

func TestSelfUnknownHandleFaults(t *testing.T) {
	s, err := Init(256, 16)
	require.NoError(t, err)

	asm(t, s, 0, 4, Word(0xFFFF), OpExtra, extraSelector(selfLibrary, selfLoadWord))

	assert.Equal(t, StatusInvalidAddress, s.Run())
}
