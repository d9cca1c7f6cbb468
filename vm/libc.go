package vm

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// LIBC extra selectors (spec §4.5), numbered after the OX_* enum in the
// original project's opcodes.h.
const (
	oxArgc            UWord = 0
	oxArgLen          UWord = 1
	oxArgCopy         UWord = 2
	oxStdin           UWord = 3
	oxStdout          UWord = 4
	oxStderr          UWord = 5
	oxOpenFile        UWord = 6
	oxCloseFile       UWord = 7
	oxReadFile        UWord = 8
	oxWriteFile       UWord = 9
	oxFilePosition    UWord = 10
	oxRepositionFile  UWord = 11
	oxFlushFile       UWord = 12
	oxRenameFile      UWord = 13
	oxDeleteFile      UWord = 14
	oxFileSize        UWord = 15
	oxResizeFile      UWord = 16
	oxFileStatus      UWord = 17
)

// fileHandles tracks open *os.File values by a small integer handle, so
// guest code addresses files the same way it addresses SELF's inner
// states: an opaque integer, never a raw pointer.
type fileHandles struct {
	files map[UWord]*os.File
	next  UWord
}

func (s *State) libcFiles() *fileHandles {
	if s.files == nil {
		s.files = &fileHandles{files: make(map[UWord]*os.File), next: 3}
		s.files.files[0] = os.Stdin
		s.files.files[1] = os.Stdout
		s.files.files[2] = os.Stderr
	}
	return s.files
}

func (s *State) execLibc(op UWord) Status {
	fh := s.libcFiles()
	switch op {
	case oxArgc:
		return s.PushStack(DataStack, Word(s.Argc()))

	case oxArgLen:
		i, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		if int(i) < 0 || int(i) >= len(s.argvLen) {
			return StatusInvalidAddress
		}
		return s.PushStack(DataStack, Word(s.argvLen[i]))

	case oxArgCopy:
		length, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		addr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		i, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		if int(i) < 0 || int(i) >= len(s.argv) {
			return StatusInvalidAddress
		}
		arg := s.argv[i]
		n := s.argvLen[i]
		if UWord(length) < UWord(n) {
			n = int(UWord(length))
		}
		dst := s.NativeAddressOfRange(UWord(addr), UWord(n))
		if dst == nil {
			return StatusInvalidAddress
		}
		copy(dst, arg[:n])
		return s.PushStack(DataStack, Word(n))

	case oxStdin:
		return s.PushStack(DataStack, 0)
	case oxStdout:
		return s.PushStack(DataStack, 1)
	case oxStderr:
		return s.PushStack(DataStack, 2)

	case oxOpenFile:
		mode, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		addr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		length, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		name := s.NativeAddressOfRange(UWord(addr), UWord(length))
		if name == nil {
			return StatusInvalidAddress
		}
		f, err := os.OpenFile(string(name), libcOpenFlags(mode), 0644)
		if err != nil {
			return StatusObjectIOError
		}
		h := fh.next
		fh.next++
		fh.files[h] = f
		return s.PushStack(DataStack, Word(h))

	case oxCloseFile:
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		f, ok := fh.files[UWord(h)]
		if !ok {
			return StatusInvalidAddress
		}
		delete(fh.files, UWord(h))
		if f == os.Stdin || f == os.Stdout || f == os.Stderr {
			return StatusOK
		}
		if err := f.Close(); err != nil {
			return StatusObjectIOError
		}
		return StatusOK

	case oxReadFile:
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
		f, ok := fh.files[UWord(h)]
		if !ok {
			return StatusInvalidAddress
		}
		buf := s.NativeAddressOfRange(UWord(addr), UWord(length))
		if buf == nil {
			return StatusInvalidAddress
		}
		n, err := f.Read(buf)
		if err != nil && err != io.EOF {
			return StatusObjectIOError
		}
		return s.PushStack(DataStack, Word(n))

	case oxWriteFile:
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
		f, ok := fh.files[UWord(h)]
		if !ok {
			return StatusInvalidAddress
		}
		buf := s.NativeAddressOfRange(UWord(addr), UWord(length))
		if buf == nil {
			return StatusInvalidAddress
		}
		n, err := f.Write(buf)
		if err != nil {
			return StatusObjectIOError
		}
		return s.PushStack(DataStack, Word(n))

	case oxFilePosition:
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		f, ok := fh.files[UWord(h)]
		if !ok {
			return StatusInvalidAddress
		}
		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return StatusObjectIOError
		}
		return s.PushStack(DataStack, Word(pos))

	case oxRepositionFile:
		pos, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		f, ok := fh.files[UWord(h)]
		if !ok {
			return StatusInvalidAddress
		}
		if _, err := f.Seek(int64(pos), io.SeekStart); err != nil {
			return StatusObjectIOError
		}
		return StatusOK

	case oxFlushFile:
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		f, ok := fh.files[UWord(h)]
		if !ok {
			return StatusInvalidAddress
		}
		if err := f.Sync(); err != nil {
			return StatusObjectIOError
		}
		return StatusOK

	case oxRenameFile:
		return s.libcTwoPaths(os.Rename)

	case oxDeleteFile:
		addr, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		length, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		name := s.NativeAddressOfRange(UWord(addr), UWord(length))
		if name == nil {
			return StatusInvalidAddress
		}
		if err := os.Remove(string(name)); err != nil {
			return StatusObjectIOError
		}
		return StatusOK

	case oxFileSize:
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		f, ok := fh.files[UWord(h)]
		if !ok {
			return StatusInvalidAddress
		}
		info, err := f.Stat()
		if err != nil {
			return StatusObjectIOError
		}
		return s.PushStack(DataStack, Word(info.Size()))

	case oxResizeFile:
		size, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		f, ok := fh.files[UWord(h)]
		if !ok {
			return StatusInvalidAddress
		}
		if err := f.Truncate(int64(size)); err != nil {
			return StatusObjectIOError
		}
		return StatusOK

	case oxFileStatus:
		h, st := s.PopStack(DataStack)
		if st != StatusOK {
			return st
		}
		f, ok := fh.files[UWord(h)]
		if !ok {
			return StatusInvalidAddress
		}
		var raw unix.Stat_t
		if err := unix.Fstat(int(f.Fd()), &raw); err != nil {
			return StatusObjectIOError
		}
		if st := s.PushStack(DataStack, Word(raw.Mode)); st != StatusOK {
			return st
		}
		if st := s.PushStack(DataStack, Word(raw.Size)); st != StatusOK {
			return st
		}
		return s.PushStack(DataStack, Word(raw.Ino))

	default:
		return StatusInvalidLibrary
	}
}

func (s *State) libcTwoPaths(op func(oldpath, newpath string) error) Status {
	newAddr, st := s.PopStack(DataStack)
	if st != StatusOK {
		return st
	}
	newLen, st := s.PopStack(DataStack)
	if st != StatusOK {
		return st
	}
	oldAddr, st := s.PopStack(DataStack)
	if st != StatusOK {
		return st
	}
	oldLen, st := s.PopStack(DataStack)
	if st != StatusOK {
		return st
	}
	oldName := s.NativeAddressOfRange(UWord(oldAddr), UWord(oldLen))
	newName := s.NativeAddressOfRange(UWord(newAddr), UWord(newLen))
	if oldName == nil || newName == nil {
		return StatusInvalidAddress
	}
	if err := op(string(oldName), string(newName)); err != nil {
		return StatusObjectIOError
	}
	return StatusOK
}

// libcOpenFlags decodes OPEN_FILE's perm bit layout (spec §4.5): the low
// two bits pick read/write/read-write, bit 2 requests create+truncate, and
// bit 3 requests binary-mode I/O on platforms where that distinction
// exists (a no-op on POSIX, which has none).
func libcOpenFlags(mode Word) int {
	var flags int
	switch mode & 0x3 {
	case 0:
		flags = os.O_RDONLY
	case 1:
		flags = os.O_WRONLY
	default: // 2 or 3: read-write
		flags = os.O_RDWR
	}
	if mode&0x4 != 0 {
		flags |= os.O_CREATE | os.O_TRUNC
	}
	return flags
}
