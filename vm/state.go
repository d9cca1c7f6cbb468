package vm

import (
	"fmt"

	"smite/internal/handle"
)

// ITypeKind distinguishes the two results DecodeInstruction can produce.
type ITypeKind int

const (
	// ITypeAction marks the last decode as an opcode (action byte).
	ITypeAction ITypeKind = iota
	// ITypeNumber marks the last decode as a signed numeric literal.
	ITypeNumber
)

// State is a single VM instance: a linear memory, two word stacks, and
// the architectural registers described in spec §3. Ownership is
// exclusive — nothing outside a State should retain a pointer obtained
// through NativeAddressOfRange past the next ReallocMemory/ReallocStack
// or past Destroy.
type State struct {
	memory []byte // len(memory) == int(MEMORY), a multiple of WordSize

	dstack []Word // len(dstack) == int(SSIZE)
	rstack []Word // len(rstack) == int(RSIZE)

	// Architectural registers (spec §3).
	PC      UWord
	I       UWord
	ITYPE   ITypeKind
	HANDLER UWord
	BADPC   UWord
	INVALID UWord
	BAD     UWord
	ENDISM  int
	MEMORY  UWord
	S0      UWord
	R0      UWord
	SP      UWord
	RP      UWord
	SSIZE   UWord
	RSIZE   UWord

	argv    []string
	argvLen []int

	// allowNative gates the CALL_NATIVE opcode (spec §9 Open Questions):
	// rejected with StatusInvalidOpcode unless the state was built with
	// NewStateUnsafeNative.
	allowNative bool

	// natives holds host callbacks reachable via CALL_NATIVE, keyed by the
	// handle popped off the data stack. Only ever non-nil on a State built
	// with NewStateUnsafeNative.
	natives map[UWord]func(*State) Status

	// files backs the LIBC extra's file operations (vm/libc.go).
	files *fileHandles

	// inner backs the SELF extra's handle-table operations (vm/self.go).
	inner *handle.Table[*State]
}

// RegisterNative installs fn as the CALL_NATIVE target for id. It panics if
// s was not built with NewStateUnsafeNative, since a State that rejects
// CALL_NATIVE has no use for a native table.
func (s *State) RegisterNative(id UWord, fn func(*State) Status) {
	if !s.allowNative {
		panic("vm: RegisterNative on a State without native calls enabled")
	}
	if s.natives == nil {
		s.natives = make(map[UWord]func(*State) Status)
	}
	s.natives[id] = fn
}

// Init allocates a new State with memBytes bytes of memory (rounded up to
// a word multiple) and stackWords words of data and return stack space
// each. Memory and stacks are zeroed; HANDLER is 0 (no guest trap
// handler); PC, I and the fault-report registers start at 0.
func Init(memBytes, stackWords UWord) (*State, error) {
	return newState(memBytes, stackWords, stackWords, false)
}

// NewStateUnsafeNative is like Init but additionally enables the
// CALL_NATIVE opcode. It exists for hosts that explicitly opt into
// running native callbacks from guest code; portable object files should
// never rely on it being available.
func NewStateUnsafeNative(memBytes, stackWords UWord) (*State, error) {
	return newState(memBytes, stackWords, stackWords, true)
}

func newState(memBytes, dstackWords, rstackWords UWord, allowNative bool) (*State, error) {
	memBytes = align(memBytes)
	s := &State{
		memory:      make([]byte, memBytes),
		dstack:      make([]Word, dstackWords),
		rstack:      make([]Word, rstackWords),
		ENDISM:      hostEndism,
		MEMORY:      memBytes,
		SSIZE:       dstackWords,
		RSIZE:       rstackWords,
		allowNative: allowNative,
	}
	return s, nil
}

// Destroy releases the buffers owned by S, along with any inner States
// still registered through the SELF library. S must not be used again.
func (s *State) Destroy() {
	if s.inner != nil {
		for _, id := range s.inner.Ids() {
			if child, ok := s.inner.Lookup(id); ok {
				child.Destroy()
			}
		}
	}
	s.memory = nil
	s.dstack = nil
	s.rstack = nil
}

// ReallocMemory resizes the memory buffer to newBytes (rounded up to a
// word multiple), zero-extending new bytes. It returns an error if
// newBytes is smaller than the current size: shrinking would discard live
// data at addresses still reachable by PC — callers that want to shrink
// intentionally should build a fresh State instead.
func (s *State) ReallocMemory(newBytes UWord) error {
	newBytes = align(newBytes)
	if newBytes == s.MEMORY {
		return nil
	}
	if newBytes < s.MEMORY {
		return fmt.Errorf("vm: cannot shrink memory from %d to %d bytes", s.MEMORY, newBytes)
	}
	grown := make([]byte, newBytes)
	copy(grown, s.memory)
	s.memory = grown
	s.MEMORY = newBytes
	return nil
}

// ReallocStack resizes the data stack to newWords words, zero-extending
// new slots. Live stack contents (the low SP-S0 words) are preserved.
func (s *State) ReallocStack(newWords UWord) error {
	if newWords < s.SP {
		return fmt.Errorf("vm: cannot shrink data stack to %d words below its depth %d", newWords, s.SP)
	}
	grown := make([]Word, newWords)
	copy(grown, s.dstack[:min(s.SP, UWord(len(s.dstack)))])
	s.dstack = grown
	s.SSIZE = newWords
	return nil
}

// ReallocRStack resizes the return stack to newWords words, zero-extending
// new slots.
func (s *State) ReallocRStack(newWords UWord) error {
	grown := make([]Word, newWords)
	copy(grown, s.rstack[:min(s.RP, UWord(len(s.rstack)))])
	s.rstack = grown
	s.RSIZE = newWords
	return nil
}

// RegisterArgs records argc/argv for later retrieval by the LIBC extra's
// ARGC/ARG_LEN/ARG_COPY operations (spec §4.5). It recomputes argv_len[i]
// = len(argv[i]) for every argument, satisfying the invariant in spec §3.
func (s *State) RegisterArgs(argv []string) {
	s.argv = append([]string(nil), argv...)
	s.argvLen = make([]int, len(argv))
	for i, a := range argv {
		s.argvLen[i] = len(a)
	}
}

// Argc returns the number of registered arguments.
func (s *State) Argc() int { return len(s.argv) }

// String renders a compact register dump as space-separated
// "LABEL=value" fields, useful for diagnostics.
func (s *State) String() string {
	return fmt.Sprintf("PC=%#x I=%#x HANDLER=%#x SP=%d/%d RP=%d/%d MEMORY=%d",
		s.PC, s.I, s.HANDLER, s.SP, s.SSIZE, s.RP, s.RSIZE, s.MEMORY)
}
