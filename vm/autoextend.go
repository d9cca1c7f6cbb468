package vm

import "os"

// AutoExtend implements the host-side recovery policy for fault codes
// {2, 5, 6} (spec §4.4): growing the data stack or memory and letting the
// caller resume, rather than terminating. It reports whether growth
// happened; callers should re-invoke Run/SingleStep only when it did,
// since a fault whose BAD value falls outside the "reasonable" range is
// returned unchanged.
func (s *State) AutoExtend(fault Status) bool {
	switch fault {
	case StatusStackOverflow:
		return s.maybeGrowStack()
	case StatusMemoryRead, StatusMemoryWrite:
		return s.maybeGrowMemory()
	default:
		return false
	}
}

func pageSize() UWord {
	return UWord(os.Getpagesize())
}

func (s *State) maybeGrowStack() bool {
	bad := s.BAD
	if bad < s.SSIZE || bad >= UWordMax-s.SSIZE {
		return false
	}
	newWords := roundUpPage(s.SSIZE+bad, pageSize()) / WordSize
	if newWords <= s.SSIZE {
		newWords = s.SSIZE + 1
	}
	return s.ReallocStack(newWords) == nil
}

func (s *State) maybeGrowMemory() bool {
	bad := s.BAD
	if bad < s.MEMORY {
		return false
	}
	newBytes := roundUpPage(bad, pageSize())
	if newBytes <= s.MEMORY {
		newBytes = s.MEMORY + pageSize()
	}
	return s.ReallocMemory(newBytes) == nil
}
