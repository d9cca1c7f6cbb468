package vm

// NativeAddressOfRange returns a host slice backing the VM range
// [addr, addr+len), or nil if any address in the range is invalid (spec
// §6). The returned slice aliases State's memory buffer: it is
// invalidated by the next ReallocMemory, since growth may reallocate the
// backing array.
func (s *State) NativeAddressOfRange(addr, length UWord) []byte {
	if addr >= s.MEMORY || length > s.MEMORY-addr {
		return nil
	}
	return s.memory[addr : addr+length]
}

// LoadWord loads the word at addr. addr must be word-aligned and within
// [0, MEMORY); otherwise it returns the classifying fault code with BAD
// set to addr.
func (s *State) LoadWord(addr UWord) (Word, Status) {
	if addr >= s.MEMORY {
		s.BAD = addr
		return 0, StatusMemoryRead
	}
	if !isAligned(addr) {
		s.BAD = addr
		return 0, StatusMemoryUnaligned
	}
	return loadWordBytes(s.memory[addr : addr+WordSize]), StatusOK
}

// StoreWord stores val at addr, subject to the same range/alignment
// checks as LoadWord.
func (s *State) StoreWord(addr UWord, val Word) Status {
	if addr >= s.MEMORY {
		s.BAD = addr
		return StatusMemoryWrite
	}
	if !isAligned(addr) {
		s.BAD = addr
		return StatusMemoryUnaligned
	}
	storeWordBytes(s.memory[addr:addr+WordSize], val)
	return StatusOK
}

// LoadByte loads the byte at addr. addr must be within [0, MEMORY).
func (s *State) LoadByte(addr UWord) (Byte, Status) {
	if addr >= s.MEMORY {
		s.BAD = addr
		return 0, StatusMemoryRead
	}
	return s.memory[addr], StatusOK
}

// StoreByte stores val at addr, subject to the same range check as
// LoadByte.
func (s *State) StoreByte(addr UWord, val Byte) Status {
	if addr >= s.MEMORY {
		s.BAD = addr
		return StatusMemoryWrite
	}
	s.memory[addr] = val
	return StatusOK
}
