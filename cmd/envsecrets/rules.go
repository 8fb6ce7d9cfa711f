package main

import (
	"fmt"

	"github.com/dshills/envsecrets/internal/config"
	"github.com/dshills/envsecrets/internal/rules"
	"github.com/spf13/cobra"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List built-in rule profiles",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := rules.List()
			if err != nil {
				return err
			}
			for _, n := range names {
				marker := " "
				if n == rules.DefaultProfile {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, n)
			}
			return nil
		},
	}
}

func newRulesCmd() *cobra.Command {
	var (
		profileName string
		rulesFile   string
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the effective rule table",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(nil)
			if err != nil {
				return exitErrorf(exitUsage, "invalid configuration: %v", err)
			}
			if cmd.Flags().Changed("profile") {
				cfg.Profile = profileName
			}
			if cmd.Flags().Changed("rules") {
				cfg.RulesFile = rulesFile
			}
			profile, err := loadProfile(cfg.Profile, cfg.RulesFile)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rules.Format(profile))
			return nil
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", rules.DefaultProfile, "Built-in rule profile")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rules merged over the profile")
	return cmd
}
