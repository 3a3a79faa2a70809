package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/minigit/pkg/object"
)

func newHashObjectCmd(g *globalOptions) *cobra.Command {
	var (
		typeName  string
		write     bool
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "hash-object [-t <type>] [-w] [--stdin] [<file>...]",
		Short: "Compute object IDs and optionally store the objects",
		RunE: func(cmd *cobra.Command, args []string) error {
			objType, err := object.ParseObjectType(typeName)
			if err != nil {
				return usageErrorf("invalid object type %q", typeName)
			}
			if !fromStdin && len(args) == 0 {
				return usageErrorf("hash-object: no input, pass files or --stdin")
			}

			var inputs [][]byte
			if fromStdin {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				inputs = append(inputs, data)
			}
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				inputs = append(inputs, data)
			}

			hashes := make([]object.Hash, 0, len(inputs))
			if write {
				r, err := g.openRepo()
				if err != nil {
					return err
				}
				for _, data := range inputs {
					h, err := r.Store.Write(objType, data)
					if err != nil {
						return err
					}
					hashes = append(hashes, h)
				}
			} else {
				for _, data := range inputs {
					hashes = append(hashes, object.HashObject(objType, data))
				}
			}

			var out bytes.Buffer
			for _, h := range hashes {
				fmt.Fprintln(&out, h)
			}
			_, err = cmd.OutOrStdout().Write(out.Bytes())
			return err
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", string(object.TypeBlob), "object type (blob, tree, commit)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the object store")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the object from standard input")
	return cmd
}
