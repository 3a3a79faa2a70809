package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/minigit/pkg/logging"
	"github.com/odvcencio/minigit/pkg/repo"
)

const version = "minigit 0.1.0-dev"

// globalOptions carries the persistent flags and the logger they produce.
type globalOptions struct {
	logLevel string
	repoPath string
	log      *zap.Logger
}

func (g *globalOptions) openRepo() (*repo.Repo, error) {
	return repo.Open(g.repoPath, repo.WithLogger(g.log))
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns its exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	g := &globalOptions{log: zap.NewNop()}
	root := newRootCmd(g)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	_ = g.log.Sync()
	if err != nil {
		printFatal(stderr, err)
		return exitCode(err)
	}
	return exitOK
}

func newRootCmd(g *globalOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "minigit",
		Short:         "Inspect and build Git loose objects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(g.logLevel)
			if err != nil {
				return usageErrorf("%v", err)
			}
			g.log = log
			return nil
		},
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&g.repoPath, "repo", "C", ".", "path inside the repository to operate on")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(g))
	root.AddCommand(newHashObjectCmd(g))
	root.AddCommand(newCatFileCmd(g))
	root.AddCommand(newRevParseCmd(g))
	root.AddCommand(newMktreeCmd(g))
	markCommandErrors(root)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
