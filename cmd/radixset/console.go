package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dop251/goja"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

func consoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive JavaScript console bound to the tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(a, cmd.OutOrStdout())
		},
	}
}

func runConsole(a *app, out io.Writer) error {
	// Initialize readline, supporting arrow keys and command history
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      fmt.Sprintf("%s> ", a.cfg.Tree),
		HistoryFile: filepath.Join(os.TempDir(), "radixset_console_history.txt"),
		Stdout:      out,
	})
	if err != nil {
		return fmt.Errorf("start readline: %w", err)
	}
	defer rl.Close()

	vm := newConsoleVM(a, out)
	fmt.Fprintln(out, "radixset console: add(v) remove(v) update(a, b) query(v) contains(v) list() len() min() max() dump() verify()")
	fmt.Fprintln(out, "Type 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit":
			return nil
		}
		value, err := vm.RunString(line)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		if !goja.IsUndefined(value) {
			fmt.Fprintln(out, value)
		}
	}
}

// newConsoleVM returns a JavaScript runtime whose globals operate on a.tree.
// Values may be passed as numbers or as decimal/hex strings; results come
// back as hex strings, or null where a neighbor does not exist.
func newConsoleVM(a *app, out io.Writer) *goja.Runtime {
	vm := goja.New()

	arg := func(v goja.Value) *uint256.Int {
		x, err := parseValue(v.String())
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return x
	}
	check := func(err error) {
		if err != nil {
			panic(vm.NewGoError(err))
		}
	}
	hexOrNull := func(x *uint256.Int) goja.Value {
		if x == nil {
			return goja.Null()
		}
		return vm.ToValue(x.Hex())
	}

	vm.Set("add", func(v goja.Value) { check(a.tree.Add(arg(v))) })
	vm.Set("remove", func(v goja.Value) { check(a.tree.Remove(arg(v))) })
	vm.Set("update", func(from, to goja.Value) { check(a.tree.Update(arg(from), arg(to))) })
	vm.Set("query", func(v goja.Value) goja.Value {
		nb, err := a.tree.Query(arg(v))
		check(err)
		obj := vm.NewObject()
		obj.Set("left", hexOrNull(nb.Left))
		obj.Set("mid", hexOrNull(nb.Mid))
		obj.Set("right", hexOrNull(nb.Right))
		return obj
	})
	vm.Set("contains", func(v goja.Value) bool {
		ok, err := a.tree.Contains(arg(v))
		check(err)
		return ok
	})
	vm.Set("list", func() []string {
		members, err := a.tree.Members()
		check(err)
		hexes := make([]string, len(members))
		for i, x := range members {
			hexes[i] = x.Hex()
		}
		return hexes
	})
	vm.Set("len", func() int {
		n, err := a.tree.Len()
		check(err)
		return n
	})
	vm.Set("min", func() goja.Value {
		x, err := a.tree.Min()
		check(err)
		return hexOrNull(x)
	})
	vm.Set("max", func() goja.Value {
		x, err := a.tree.Max()
		check(err)
		return hexOrNull(x)
	})
	vm.Set("dump", func() string {
		s, err := a.tree.Dump()
		check(err)
		return s
	})
	vm.Set("verify", func() string {
		rep, err := a.tree.Verify()
		check(err)
		return fmt.Sprintf("ok branches=%d leaves=%d nodes=%d", rep.Branches, rep.Leaves, len(rep.Addresses))
	})
	vm.Set("print", func(args ...goja.Value) {
		for _, v := range args {
			fmt.Fprintln(out, v.Export())
		}
	})
	return vm
}
