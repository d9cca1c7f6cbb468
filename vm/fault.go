package vm

import "fmt"

// Status is the numeric result of SingleStep/Run: 0 means "continue", a
// positive value other than StatusHalt is a fault code, StatusHalt (128)
// is a clean terminal status, and a negative value is a host-layer error
// raised outside the core fault taxonomy (object codec, extra-instruction
// dispatch). The numeric values are part of the wire contract: guest code
// reads them directly off the stack after a THROW or a trapped fault.
type Status int

// VM runtime fault codes (spec §4.3).
const (
	StatusOK                Status = 0
	StatusInvalidOpcode     Status = 1
	StatusStackOverflow     Status = 2
	StatusStackRead         Status = 3
	StatusStackWrite        Status = 4
	StatusMemoryRead        Status = 5
	StatusMemoryWrite       Status = 6
	StatusMemoryUnaligned   Status = 7
	StatusDivisionByZero    Status = 8
	StatusHalt              Status = 128
)

// Host-layer codes, outside the VM-runtime taxonomy (spec §7).
const (
	// StatusInvalidAddress signals that an extra instruction's pointer
	// argument does not resolve to a valid in-VM range. Distinct from the
	// runtime memory faults (StatusMemoryRead, StatusMemoryUnaligned), which
	// report a failed guest load or store.
	StatusInvalidAddress Status = -5
	// StatusInvalidLibrary signals an EXTRA selector outside the known
	// SELF/LIBC library set.
	StatusInvalidLibrary Status = -15
)

// Object-file codec codes (spec §4.6).
const (
	StatusObjectIOError       Status = -1
	StatusObjectMalformed     Status = -2
	StatusObjectIncompatible  Status = -3
	StatusObjectRangeOrAlign  Status = -4
)

var statusText = map[Status]string{
	StatusOK:                 "ok",
	StatusInvalidOpcode:      "invalid opcode",
	StatusStackOverflow:      "stack overflow",
	StatusStackRead:          "invalid stack read",
	StatusStackWrite:         "invalid stack write",
	StatusMemoryRead:         "memory read out of range",
	StatusMemoryWrite:        "memory write out of range",
	StatusMemoryUnaligned:    "unaligned memory access",
	StatusDivisionByZero:     "division by zero",
	StatusHalt:               "halt",
	StatusInvalidAddress:     "invalid address argument",
	StatusInvalidLibrary:     "invalid library call",
	StatusObjectIOError:      "object I/O error",
	StatusObjectMalformed:    "malformed object file",
	StatusObjectIncompatible: "incompatible object file",
	StatusObjectRangeOrAlign: "object load out of range or unaligned",
}

// Error implements error so a Status can be returned/wrapped anywhere Go
// code expects one, while callers that need the raw wire value can still
// type-assert or compare directly against the Status constants.
func (s Status) Error() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return fmt.Sprintf("status %d", int(s))
}

// IsFault reports whether s is a non-zero, non-halt status (i.e. one of
// the codes spec §4.3 says HANDLER can trap). This includes the negative
// host-layer/object-codec codes, not just the positive runtime fault
// codes: THROW lets guest code raise any of them, and spec §4.3 traps
// "any non-zero, non-HALT fault" without restricting the sign.
func (s Status) IsFault() bool {
	return s != StatusOK && s != StatusHalt
}
