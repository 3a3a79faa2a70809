package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/odvcencio/minigit/pkg/repo"
)

func newInitCmd(g *globalOptions) *cobra.Command {
	var basePath string

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create an empty repository named <name>",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(basePath)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			r, err := repo.Init(args[0], abs, repo.WithLogger(g.log))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created repository at: %s\n", r.RootDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&basePath, "path", ".", "directory to create the repository in")
	return cmd
}
