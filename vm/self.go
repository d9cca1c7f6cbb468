package vm

import (
	"bytes"
	"os"

	"smite/internal/handle"
)

// SELF extra selectors (spec §4.5, Design Notes §9): a State can create,
// drive and tear down other State values entirely from guest code, each
// addressed by an opaque handle rather than a host pointer.
const (
	selfInit              UWord = 0
	selfDestroy           UWord = 1
	selfLoadWord          UWord = 2
	selfStoreWord         UWord = 3
	selfLoadByte          UWord = 4
	selfStoreByte         UWord = 5
	selfCopyOut           UWord = 6
	selfRun               UWord = 7
	selfSingleStep        UWord = 8
	selfLoadObject        UWord = 9
	selfReallocMemory     UWord = 10
	selfReallocStack      UWord = 11
	selfRegisterArgs      UWord = 12
)

func (s *State) innerTable() *handle.Table[*State] {
	if s.inner == nil {
		s.inner = handle.New[*State]()
	}
	return s.inner
}

func (s *State) innerState(h UWord) (*State, Status) {
	inner, ok := s.innerTable().Lookup(uint64(h))
	if !ok {
		return nil, StatusInvalidAddress
	}
	return inner, StatusOK
}

func (s *State) execSelf(op UWord) Status {
	switch op {
	case selfInit:
		stackWords, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		memBytes, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, err := Init(UWord(memBytes), UWord(stackWords))
		if err != nil {
			return StatusObjectIOError
		}
		h := s.innerTable().Register(child)
		return s.PushStack(DataStack, Word(h))

	case selfDestroy:
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		child.Destroy()
		s.innerTable().Release(uint64(h))
		return StatusOK

	case selfLoadWord:
		addr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		v, lst := child.LoadWord(UWord(addr))
		if lst != StatusOK {
			return lst
		}
		return s.PushStack(DataStack, v)

	case selfStoreWord:
		val, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		addr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		return child.StoreWord(UWord(addr), val)

	case selfLoadByte:
		addr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		b, lst := child.LoadByte(UWord(addr))
		if lst != StatusOK {
			return lst
		}
		return s.PushStack(DataStack, Word(b))

	case selfStoreByte:
		val, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		addr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		return child.StoreByte(UWord(addr), Byte(val))

	case selfCopyOut:
		length, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		dstAddr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		srcAddr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		src := child.NativeAddressOfRange(UWord(srcAddr), UWord(length))
		dst := s.NativeAddressOfRange(UWord(dstAddr), UWord(length))
		if src == nil || dst == nil {
			return StatusInvalidAddress
		}
		copy(dst, src)
		return StatusOK

	case selfRun:
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		return s.PushStack(DataStack, Word(child.Run()))

	case selfSingleStep:
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		return s.PushStack(DataStack, Word(child.SingleStep()))

	case selfLoadObject:
		nameLen, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		nameAddr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		loadAddr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		name := s.NativeAddressOfRange(UWord(nameAddr), UWord(nameLen))
		if name == nil {
			return StatusInvalidAddress
		}
		f, err := os.Open(string(name))
		if err != nil {
			return StatusObjectIOError
		}
		defer f.Close()
		n, lst := child.LoadObject(UWord(loadAddr), f)
		if lst != StatusOK {
			return lst
		}
		return s.PushStack(DataStack, Word(n))

	case selfReallocMemory:
		newBytes, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		if err := child.ReallocMemory(UWord(newBytes)); err != nil {
			return StatusObjectIOError
		}
		return StatusOK

	case selfReallocStack:
		newWords, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		if err := child.ReallocStack(UWord(newWords)); err != nil {
			return StatusObjectIOError
		}
		return StatusOK

	case selfRegisterArgs:
		length, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		addr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		child, cst := s.innerState(UWord(h))
		if cst != StatusOK {
			return cst
		}
		raw := s.NativeAddressOfRange(UWord(addr), UWord(length))
		if raw == nil {
			return StatusInvalidAddress
		}
		args := bytes.Split(bytes.TrimRight(raw, "\x00"), []byte{0})
		argv := make([]string, len(args))
		for i, a := range args {
			argv[i] = string(a)
		}
		child.RegisterArgs(argv)
		return StatusOK

	default:
		return StatusInvalidLibrary
	}
}
