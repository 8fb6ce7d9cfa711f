package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(stderr, ee.msg)
			return ee.code
		}
		fmt.Fprintln(stderr, err)
		return exitError
	}
	return exitOK
}

func newRootCmd() *cobra.Command {
	f := &rewriteFlags{}

	root := &cobra.Command{
		Use:   "envsecrets",
		Short: "Replace secrets in a .env file with freshly generated values",
		Long: `envsecrets scans a .env file for keys that hold passwords, tokens and API keys
and replaces their values with newly generated ones. Without --output or
--in-place it prints the proposed replacements.

Set GENERATE_<KEY>=value to pin a key to a literal value instead of a random
one (GENERATE_<KEY>=RANDOM keeps random generation).`,
		Version:       version,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.hasSeed = cmd.Flags().Changed("seed")
			return runRewrite(cmd, f)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exitErrorf(exitUsage, "%v", err)
	})
	bindRewriteFlags(root, f)

	root.AddCommand(newProfilesCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newGenerateCmd())
	return root
}

// usageArgs maps positional argument errors to the usage exit code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return exitErrorf(exitUsage, "%v", err)
		}
		return nil
	}
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitErrorf(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
