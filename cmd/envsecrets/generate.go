package main

import (
	"fmt"
	"strings"

	"github.com/dshills/envsecrets/internal/generate"
	"github.com/spf13/cobra"
)

// defaultLength is used when --length is not given.
const defaultLength = 32

func newGenerateCmd() *cobra.Command {
	var (
		length int
		prefix string
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "generate <generator>",
		Short: "Print one generated value",
		Long:  "Print one generated value. Generators: " + strings.Join(generate.Kinds, ", ") + ".",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(args[0])
			if !generate.Known(kind) {
				return exitErrorf(exitUsage, "unknown generator %q (want one of %s)", args[0], strings.Join(generate.Kinds, ", "))
			}
			if cmd.Flags().Changed("length") && length <= 0 {
				return exitErrorf(exitUsage, "--length must be positive")
			}

			source := generate.NewSource(nil)
			if cmd.Flags().Changed("seed") {
				source = generate.NewSource(&seed)
			}
			v, err := generate.New(source, generate.Spec{Generator: kind, Length: length, Prefix: prefix})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", defaultLength, "Characters (password) or bytes (base64, hex)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Prefix prepended to the value")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed randomness for reproducible output")
	return cmd
}
