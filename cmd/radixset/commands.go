package main

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

func parseArgs(args []string) ([]*uint256.Int, error) {
	out := make([]*uint256.Int, len(args))
	for i, arg := range args {
		x, err := parseValue(arg)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

func addCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <value>...",
		Short: "Insert values into the tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseArgs(args)
			if err != nil {
				return err
			}
			for _, x := range values {
				if err := a.tree.Add(x); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d\n", len(values))
			return nil
		},
	}
}

func removeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <value>...",
		Short: "Delete values from the tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseArgs(args)
			if err != nil {
				return err
			}
			for _, x := range values {
				if err := a.tree.Remove(x); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", len(values))
			return nil
		},
	}
}

func updateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <from> <to>",
		Short: "Replace one member with another in a single commit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseArgs(args)
			if err != nil {
				return err
			}
			if err := a.tree.Update(values[0], values[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s -> %s\n", values[0].Hex(), values[1].Hex())
			return nil
		},
	}
}

func queryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <value>...",
		Short: "Print the neighbors of each value",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseArgs(args)
			if err != nil {
				return err
			}
			for _, x := range values {
				nb, err := a.tree.Query(x)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s left=%s mid=%s right=%s\n",
					x.Hex(), formatValue(nb.Left), formatValue(nb.Mid), formatValue(nb.Right))
			}
			return nil
		},
	}
}

func listCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print members in ascending order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 0
			return a.tree.Walk(func(x *uint256.Int) bool {
				fmt.Fprintln(cmd.OutOrStdout(), x.Hex())
				n++
				return limit <= 0 || n < limit
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many members (0 lists all)")
	return cmd
}

func dumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Render the live trie nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.tree.Dump()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func verifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the structure of the tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.tree.Verify()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok branches=%d leaves=%d nodes=%d\n", rep.Branches, rep.Leaves, len(rep.Addresses))
			return nil
		},
	}
}
