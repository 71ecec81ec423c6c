package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/colorfulnotion/radixset/log"
	"github.com/colorfulnotion/radixset/storage"
	"github.com/colorfulnotion/radixset/trie"
	"github.com/colorfulnotion/radixset/trieerrors"
	"github.com/colorfulnotion/radixset/types"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

// app holds the tree opened for one command invocation.
type app struct {
	cfg   types.CommandConfig
	store *storage.PersistenceStore
	tree  *trie.Tree
}

func (a *app) open() error {
	ps, err := storage.NewPersistenceStore(a.cfg.DataDir)
	if err != nil {
		return err
	}
	tree, err := trie.NewNamed(ps, a.cfg.Tree, trie.Config{HashType: a.cfg.HashType})
	if err != nil {
		ps.Close()
		return err
	}
	a.store, a.tree = ps, tree
	log.Debug(log.CLIMonitoring, "opened tree", "tree", a.cfg.Tree, "id", tree.ID().String_short(), "datadir", a.cfg.DataDir)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	st := a.tree.Stats()
	log.Debug(log.CLIMonitoring, "closing tree", "ops", st.Ops, "reads", st.Reads, "writes", st.Writes)
	err := a.store.Close()
	a.store, a.tree = nil, nil
	return err
}

// execute runs one command line. The store is closed on every path, failed
// commands included, so the LevelDB directory lock is always released.
func execute(args []string, out io.Writer) error {
	a := &app{cfg: types.DefaultCommandConfig()}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	err := rootCmd.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "radixset",
		Short:         "Sorted sets of 232-bit values stored as radix tries",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				fileCfg, err := types.LoadCommandConfig(configPath)
				if err != nil {
					return err
				}
				applyFlags(cmd, &fileCfg, &a.cfg)
				a.cfg = fileCfg
			}
			if _, err := log.ParseLevel(a.cfg.LogLevel); err != nil {
				return err
			}
			log.InitLogger(a.cfg.LogLevel)
			log.EnableModules(a.cfg.Debug)
			return a.open()
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "JSON config file; flags given explicitly override it")
	flags.StringVar(&a.cfg.DataDir, "datadir", a.cfg.DataDir, "LevelDB directory (empty keeps the store in memory)")
	flags.StringVar(&a.cfg.Tree, "tree", a.cfg.Tree, "name of the tree to operate on")
	flags.StringVar(&a.cfg.HashType, "hash", a.cfg.HashType, "node address hash: blake2b or keccak")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "trace, debug, info, warn, error or crit")
	flags.StringVar(&a.cfg.Debug, "debug", a.cfg.Debug, "comma separated log modules to enable, or all")

	rootCmd.AddCommand(
		addCmd(a),
		removeCmd(a),
		updateCmd(a),
		queryCmd(a),
		listCmd(a),
		dumpCmd(a),
		verifyCmd(a),
		consoleCmd(a),
	)
	return rootCmd
}

// applyFlags copies every explicitly set flag from flagCfg onto fileCfg.
func applyFlags(cmd *cobra.Command, fileCfg, flagCfg *types.CommandConfig) {
	set := func(name string, dst *string, src string) {
		if cmd.Flags().Changed(name) {
			*dst = src
		}
	}
	set("datadir", &fileCfg.DataDir, flagCfg.DataDir)
	set("tree", &fileCfg.Tree, flagCfg.Tree)
	set("hash", &fileCfg.HashType, flagCfg.HashType)
	set("log-level", &fileCfg.LogLevel, flagCfg.LogLevel)
	set("debug", &fileCfg.Debug, flagCfg.Debug)
}

// parseValue accepts a decimal integer or a 0x-prefixed hex integer.
func parseValue(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	var (
		x   *uint256.Int
		err error
	)
	switch {
	case s == "":
		err = fmt.Errorf("empty value")
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" && len(s) > 2 {
			digits = "0"
		}
		x, err = uint256.FromHex("0x" + digits)
	default:
		x, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return nil, fmt.Errorf("%q: %v: %w", s, err, trieerrors.ErrCBadValue)
	}
	return x, nil
}

func formatValue(x *uint256.Int) string {
	if x == nil {
		return "-"
	}
	return x.Hex()
}
