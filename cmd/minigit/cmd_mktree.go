package main

import (
	"bufio"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/minigit/pkg/object"
)

func newMktreeCmd(g *globalOptions) *cobra.Command {
	var allowMissing bool

	cmd := &cobra.Command{
		Use:   "mktree",
		Short: "Build a tree object from cat-file -p formatted lines on stdin",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []object.TreeEntry
			seen := make(map[string]bool)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for lineNo := 1; scanner.Scan(); lineNo++ {
				line := scanner.Text()
				if line == "" {
					continue
				}
				entry, err := parseMktreeLine(line)
				if err != nil {
					return usageErrorf("mktree: line %d: %v", lineNo, err)
				}
				if seen[entry.Name] {
					return usageErrorf("mktree: line %d: duplicate entry %q", lineNo, entry.Name)
				}
				seen[entry.Name] = true
				entries = append(entries, entry)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			sortTreeEntries(entries)

			r, err := g.openRepo()
			if err != nil {
				return err
			}
			if !allowMissing {
				for _, e := range entries {
					ok, err := r.Store.Has(e.Hash)
					if err != nil {
						return err
					}
					if !ok {
						return &object.NotFoundError{Name: string(e.Hash)}
					}
				}
			}

			h, err := r.Store.WriteTree(entries)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().BoolVar(&allowMissing, "missing", false, "allow entries naming objects that are not stored")
	return cmd
}

// parseMktreeLine parses "<mode> SP <type> SP <hash> TAB <name>".
func parseMktreeLine(line string) (object.TreeEntry, error) {
	meta, name, ok := strings.Cut(line, "\t")
	if !ok || name == "" {
		return object.TreeEntry{}, fmt.Errorf("expected <mode> <type> <hash>\\t<name>, got %q", line)
	}
	fields := strings.Fields(meta)
	if len(fields) != 3 {
		return object.TreeEntry{}, fmt.Errorf("expected <mode> <type> <hash>, got %q", meta)
	}

	mode, err := strconv.ParseUint(fields[0], 8, 32)
	if err != nil {
		return object.TreeEntry{}, fmt.Errorf("invalid mode %q", fields[0])
	}
	h, err := object.ParseHash(fields[2])
	if err != nil {
		return object.TreeEntry{}, fmt.Errorf("invalid object id %q", fields[2])
	}
	if strings.Contains(name, "/") {
		return object.TreeEntry{}, fmt.Errorf("path %q contains a slash", name)
	}

	entry := object.TreeEntry{Mode: object.FileMode(mode), Name: name, Hash: h}
	if got := object.ObjectType(fields[1]); got != entry.Type() {
		return object.TreeEntry{}, fmt.Errorf("entry %q: mode %s names a %s, not a %s", name, entry.Mode, entry.Type(), got)
	}
	return entry, nil
}

// sortTreeEntries orders entries the way Git does: by name, with directory
// names compared as if they ended in "/".
func sortTreeEntries(entries []object.TreeEntry) {
	key := func(e object.TreeEntry) string {
		if e.Mode.IsDir() {
			return e.Name + "/"
		}
		return e.Name
	}
	slices.SortFunc(entries, func(a, b object.TreeEntry) int {
		return strings.Compare(key(a), key(b))
	})
}
