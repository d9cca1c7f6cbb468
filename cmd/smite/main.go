// Command smite loads an object file and runs it to completion, exposing
// the VM core's CLI surface described in SPEC_FULL.md §8.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smite/vm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "smite:", err)
		var st vm.Status
		if errors.As(err, &st) {
			os.Exit(int(st))
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var memWords uint
	var stackWords uint
	var autoExtend bool
	var handleDebug bool

	cmd := &cobra.Command{
		Use:   "smite OBJECT-FILE [ARGS...]",
		Short: "run a smite object file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := run(args[0], args[1:], vm.UWord(memWords)*vm.WordSize, vm.UWord(stackWords), autoExtend, handleDebug)
			if err != nil {
				return err
			}
			os.Exit(code)
			return nil
		},
	}

	cmd.Flags().UintVar(&memWords, "memory-words", 1<<16, "initial memory size, in words")
	cmd.Flags().UintVar(&stackWords, "stack-words", 1<<10, "initial data/return stack depth, in words")
	cmd.Flags().BoolVar(&autoExtend, "auto-extend", true, "grow memory/stack on recoverable faults instead of exiting")
	cmd.Flags().BoolVar(&handleDebug, "handle-debug", false, "print the VM register dump on exit")

	return cmd
}

// run loads path at address 0, registers argv (path followed by args) and
// drives the VM to completion, mapping its terminal status to a process
// exit code the way the teacher's drivers report results: HALT's
// top-of-stack value truncated to the host int range, or the negative
// fault code on an unrecovered fault.
func run(path string, args []string, memBytes, stackWords vm.UWord, autoExtend, handleDebug bool) (int, error) {
	s, err := vm.Init(memBytes, stackWords)
	if err != nil {
		return 0, fmt.Errorf("init: %w", err)
	}
	defer s.Destroy()

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, st := s.LoadObject(0, f); st != vm.StatusOK {
		return 0, fmt.Errorf("load %s: %w", path, st)
	}
	s.RegisterArgs(append([]string{path}, args...))

	for {
		st := s.Run()
		if st == vm.StatusHalt {
			top, _ := s.LoadStack(vm.DataStack, 0)
			if handleDebug {
				fmt.Fprintln(os.Stderr, s.String())
			}
			return int(top), nil
		}
		if autoExtend && s.AutoExtend(st) {
			continue
		}
		if handleDebug {
			fmt.Fprintln(os.Stderr, s.String())
		}
		fmt.Fprintln(os.Stderr, "smite:", st)
		code := int(st)
		if code > 0 {
			code = -code
		}
		return code, nil
	}
}
