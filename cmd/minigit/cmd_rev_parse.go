package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
)

func newRevParseCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rev-parse <name>...",
		Short: "Expand refs and abbreviated object IDs to full IDs",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			var out bytes.Buffer
			for _, name := range args {
				h, err := r.ResolveName(name)
				if err != nil {
					return err
				}
				fmt.Fprintln(&out, h)
			}
			_, err = cmd.OutOrStdout().Write(out.Bytes())
			return err
		},
	}
}
