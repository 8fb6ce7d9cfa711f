package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/envsecrets/internal/config"
	"github.com/dshills/envsecrets/internal/envfile"
	"github.com/dshills/envsecrets/internal/generate"
	"github.com/dshills/envsecrets/internal/patch"
	"github.com/dshills/envsecrets/internal/redact"
	"github.com/dshills/envsecrets/internal/render"
	"github.com/dshills/envsecrets/internal/rewrite"
	"github.com/dshills/envsecrets/internal/rules"
	"github.com/spf13/cobra"
)

type rewriteFlags struct {
	envFile   string
	output    string
	inPlace   bool
	dryRun    bool
	seed      int64
	hasSeed   bool
	profile   string
	rulesFile string
	signJWT   bool
	format    string
	mask      bool
	patchOut  string
	verbose   bool
}

func bindRewriteFlags(cmd *cobra.Command, f *rewriteFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.envFile, "env", "e", ".env", "Path to source .env file (env ENVSECRETS_FILE)")
	flags.StringVarP(&f.output, "output", "o", "", "Write updated .env to this file")
	flags.BoolVar(&f.inPlace, "in-place", false, "Overwrite the source .env file")
	flags.BoolVar(&f.dryRun, "dry-run", false, "Print replacements instead of writing")
	flags.Int64Var(&f.seed, "seed", 0, "Seed randomness for reproducible output (not for real secrets)")
	flags.StringVar(&f.profile, "profile", rules.DefaultProfile, "Built-in rule profile (env ENVSECRETS_PROFILE)")
	flags.StringVar(&f.rulesFile, "rules", "", "YAML rules merged over the profile (env ENVSECRETS_RULES)")
	flags.BoolVar(&f.signJWT, "sign-jwt", false, "Sign role tokens (e.g. ANON_KEY) with the profile's signing key")
	flags.StringVar(&f.format, "format", config.FormatText, "Dry-run report format: text or json (env ENVSECRETS_FORMAT)")
	flags.BoolVar(&f.mask, "mask", false, "Hide values in the dry-run report")
	flags.StringVar(&f.patchOut, "patch-out", "", "Also write the change as a unified diff")
	flags.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr (env ENVSECRETS_VERBOSE)")
}

// applyFlags lays explicitly set flags over the environment configuration.
func applyFlags(cmd *cobra.Command, f *rewriteFlags, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("env") {
		cfg.EnvFile = f.envFile
	}
	if flags.Changed("profile") {
		cfg.Profile = f.profile
	}
	if flags.Changed("rules") {
		cfg.RulesFile = f.rulesFile
	}
	if flags.Changed("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(f.format))
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
}

func runRewrite(cmd *cobra.Command, f *rewriteFlags) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	cfg, err := config.Load(nil)
	if err != nil {
		return exitErrorf(exitUsage, "invalid configuration: %v", err)
	}
	applyFlags(cmd, f, &cfg)

	logger := log.New(stderr, "", 0)
	verbose := func(msg string, args ...any) {
		if cfg.Verbose {
			logger.Printf(msg, args...)
		}
	}

	// 1. Validate flags
	if !config.ValidFormat(cfg.Format) {
		return exitErrorf(exitUsage, "unknown format: %s", cfg.Format)
	}
	src, err := filepath.Abs(cfg.EnvFile)
	if err != nil {
		return exitErrorf(exitUsage, "invalid source path %s: %v", cfg.EnvFile, err)
	}
	outPath := ""
	if f.output != "" {
		outPath, err = filepath.Abs(f.output)
		if err != nil {
			return exitErrorf(exitUsage, "invalid output path %s: %v", f.output, err)
		}
	}
	if f.inPlace && outPath != "" && outPath != src {
		return exitErrorf(exitUsage, "--in-place specified but output path differs from source")
	}

	// 2. Load source
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return exitErrorf(exitUsage, "Source .env file not found: %s", src)
		}
		return fmt.Errorf("failed to stat source: %w", err)
	}
	verbose("Loading %s", src)
	file, err := envfile.Load(src)
	if err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}
	verbose("Read %d lines (%s)", len(file.Lines), file.Hash)

	// 3. Load rules
	verbose("Loading profile: %s", cfg.Profile)
	profile, err := loadProfile(cfg.Profile, cfg.RulesFile)
	if err != nil {
		return err
	}

	// 4. Randomness and overrides
	source := generate.NewSource(nil)
	if f.hasSeed {
		fmt.Fprintln(stderr, "WARNING: --seed makes values reproducible; do not use them as real secrets")
		source = generate.NewSource(&f.seed)
	}
	overrides := rewrite.CollectOverrides(os.Environ(), cfg.OverridePrefix)
	verbose("Collected %d %s* overrides", len(overrides), cfg.OverridePrefix)

	// 5. Plan replacements
	reps, err := rewrite.Build(file.Lines, rewrite.Options{
		Profile:   profile,
		Overrides: overrides,
		Source:    source,
		SignJWT:   f.signJWT,
	})
	if err != nil {
		return fmt.Errorf("failed to build replacements: %w", err)
	}
	verbose("Planned %d replacements", len(reps))
	if cfg.Verbose {
		warnUnmatched(file.Lines, reps, verbose)
	}

	dryRun := f.dryRun || (outPath == "" && !f.inPlace)

	if len(reps) == 0 && (!dryRun || cfg.Format == config.FormatText) {
		fmt.Fprintln(stdout, "No sensitive keys detected to replace.")
		return nil
	}

	// 6. Patch output
	if f.patchOut != "" {
		verbose("Writing patch to %s", f.patchOut)
		if err := patch.WritePatchFile(src, reps, f.patchOut); err != nil {
			return fmt.Errorf("failed to write patch: %w", err)
		}
	}

	// 7. Dry run
	if dryRun {
		switch cfg.Format {
		case config.FormatJSON:
			out, err := render.JSON(render.Report{
				Tool:         "envsecrets",
				Version:      version,
				Source:       src,
				SourceHash:   file.Hash,
				Profile:      profile.Name,
				Masked:       f.mask,
				Replacements: reps,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(stdout, out)
		default:
			fmt.Fprint(stdout, render.Text(reps, f.mask))
		}
		return nil
	}

	// 8. Write
	target := src
	if outPath != "" {
		target = outPath
	}
	verbose("Writing %s", target)
	if err := envfile.Write(target, rewrite.Apply(file.Lines, reps), 0600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote updated .env to %s\n", target)
	return nil
}

// loadProfile resolves the built-in profile, merges the optional rules file,
// and validates the result.
func loadProfile(name, rulesFile string) (*rules.Profile, error) {
	profile, err := rules.LoadBuiltin(name)
	if err != nil {
		return nil, exitErrorf(exitUsage, "unknown profile %q", name)
	}
	if rulesFile != "" {
		extra, err := rules.LoadFile(rulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
		profile = rules.Merge(profile, extra)
	}
	if errs := rules.Validate(profile); len(errs) > 0 {
		msg := "invalid rules:"
		for _, e := range errs {
			msg += "\n  " + e.Error()
		}
		return nil, errors.New(msg)
	}
	return profile, nil
}

// warnUnmatched reports assignments left untouched whose value still looks
// like a secret. Values are printed with the secret parts scrubbed.
func warnUnmatched(lines []string, reps []rewrite.Replacement, verbose func(string, ...any)) {
	replaced := make(map[int]bool, len(reps))
	for _, r := range reps {
		replaced[r.Index] = true
	}
	for i, line := range lines {
		if replaced[i] {
			continue
		}
		e := envfile.ParseLine(line)
		if e.IsAssignment() && redact.Contains(e.Value) {
			verbose("Warning: line %d (%s) looks like it holds a secret but matched no rule: %s", i+1, e.Key, redact.Redact(e.Value))
		}
	}
}
