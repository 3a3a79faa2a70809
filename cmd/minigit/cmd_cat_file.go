package main

import (
	"github.com/spf13/cobra"

	"github.com/odvcencio/minigit/pkg/catfile"
)

func newCatFileCmd(g *globalOptions) *cobra.Command {
	var flags struct {
		pretty, typ, size, blob, tree, commit bool
	}

	cmd := &cobra.Command{
		Use:   "cat-file (-p | -t | -s | --blob | --tree | --commit) <object>",
		Short: "Show the content, type or size of a stored object",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view catfile.View
			switch {
			case flags.pretty:
				view = catfile.ViewPretty
			case flags.typ:
				view = catfile.ViewType
			case flags.size:
				view = catfile.ViewSize
			case flags.blob:
				view = catfile.ViewBlob
			case flags.tree:
				view = catfile.ViewTree
			case flags.commit:
				view = catfile.ViewCommit
			}

			r, err := g.openRepo()
			if err != nil {
				return err
			}
			h, err := r.ResolveName(args[0])
			if err != nil {
				return err
			}
			return catfile.Write(cmd.OutOrStdout(), r.Store, h, view)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&flags.pretty, "pretty", "p", false, "pretty-print the object's content")
	f.BoolVarP(&flags.typ, "type", "t", false, "show the object's type")
	f.BoolVarP(&flags.size, "size", "s", false, "show the object's size")
	f.BoolVar(&flags.blob, "blob", false, "print the raw content of a blob")
	f.BoolVar(&flags.tree, "tree", false, "print the raw content of a tree")
	f.BoolVar(&flags.commit, "commit", false, "print the raw content of a commit")

	views := []string{"pretty", "type", "size", "blob", "tree", "commit"}
	cmd.MarkFlagsMutuallyExclusive(views...)
	cmd.MarkFlagsOneRequired(views...)
	return cmd
}
