package vm

// Opcode is the low-6-bit action value decoded from an instruction byte
// (spec §4.1, §4.2). The numbering below is this implementation's
// concrete assignment of the architecture's opcode space; see
// SPEC_FULL.md §4.2 for the full table. Opcodes in OpUndefinedStart..
// OpUndefinedEnd (and any other value DecodeInstruction can produce that
// isn't listed here) raise StatusInvalidOpcode.
type Opcode Word

const (
	OpPop    Opcode = 0x00
	OpPush   Opcode = 0x01 // dup at depth N (N popped from data stack)
	OpSwap   Opcode = 0x02 // swap with depth N
	OpRPush  Opcode = 0x03
	OpPop2R  Opcode = 0x04
	OpRPop   Opcode = 0x05

	OpAdd    Opcode = 0x06
	OpMul    Opcode = 0x07
	OpNegate Opcode = 0x08
	OpDivMod Opcode = 0x09
	OpUDivMod Opcode = 0x0A

	OpLt  Opcode = 0x0B
	OpULt Opcode = 0x0C
	OpEq  Opcode = 0x0D

	OpInvert Opcode = 0x0E
	OpAnd    Opcode = 0x0F
	OpOr     Opcode = 0x10
	OpXor    Opcode = 0x11
	OpLshift Opcode = 0x12
	OpRshift Opcode = 0x13

	OpLoad   Opcode = 0x14
	OpStore  Opcode = 0x15
	OpLoadB  Opcode = 0x16
	OpStoreB Opcode = 0x17

	OpBranch  Opcode = 0x18
	OpBranchZ Opcode = 0x19
	OpCall    Opcode = 0x1A
	OpRet     Opcode = 0x1B

	OpThrow        Opcode = 0x1C
	OpHalt         Opcode = 0x1D
	OpPushHandler  Opcode = 0x1E
	OpStoreHandler Opcode = 0x1F

	OpPushSP     Opcode = 0x20
	OpStoreSP    Opcode = 0x21
	OpPushRP     Opcode = 0x22
	OpStoreRP    Opcode = 0x23
	OpPushPC     Opcode = 0x24
	OpPushS0     Opcode = 0x25
	OpPushSSize  Opcode = 0x26
	OpPushR0     Opcode = 0x27
	OpPushRSize  Opcode = 0x28
	OpPushMemory Opcode = 0x29
	OpPushBadPC  Opcode = 0x2A
	OpPushInvalid Opcode = 0x2B
	OpPushPSize  Opcode = 0x2C

	OpCallNative Opcode = 0x2D
	OpExtra      Opcode = 0x2E

	// OpUndefinedStart..OpUndefinedEnd is the reserved hole: every value
	// in this range (and it runs up to the top of the 6-bit opcode
	// space) decodes but has no defined behavior beyond StatusInvalidOpcode.
	OpUndefinedStart Opcode = 0x2F
	OpUndefinedEnd   Opcode = 0x3F
)

var opcodeNames = map[Opcode]string{
	OpPop: "pop", OpPush: "push", OpSwap: "swap", OpRPush: "rpush",
	OpPop2R: "pop2r", OpRPop: "rpop",
	OpAdd: "add", OpMul: "mul", OpNegate: "negate", OpDivMod: "divmod", OpUDivMod: "udivmod",
	OpLt: "lt", OpULt: "ult", OpEq: "eq",
	OpInvert: "invert", OpAnd: "and", OpOr: "or", OpXor: "xor", OpLshift: "lshift", OpRshift: "rshift",
	OpLoad: "load", OpStore: "store", OpLoadB: "loadb", OpStoreB: "storeb",
	OpBranch: "branch", OpBranchZ: "branchz", OpCall: "call", OpRet: "ret",
	OpThrow: "throw", OpHalt: "halt", OpPushHandler: "push_handler", OpStoreHandler: "store_handler",
	OpPushSP: "push_sp", OpStoreSP: "store_sp", OpPushRP: "push_rp", OpStoreRP: "store_rp",
	OpPushPC: "push_pc", OpPushS0: "push_s0", OpPushSSize: "push_ssize",
	OpPushR0: "push_r0", OpPushRSize: "push_rsize", OpPushMemory: "push_memory",
	OpPushBadPC: "push_badpc", OpPushInvalid: "push_invalid", OpPushPSize: "push_psize",
	OpCallNative: "call_native", OpExtra: "extra",
}

// String renders the opcode's mnemonic, or "undefined" for any value
// outside the defined set (including the reserved hole).
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return "undefined"
}
