package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"suppressaudit/scanner"
	"suppressaudit/suppress"
)

func newLanguagesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages and their rule repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repos := scanner.Repositories()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(repos)
			}
			out := cmd.OutOrStdout()
			for _, r := range repos {
				fmt.Fprintf(out, "%-8s %-12s %s\n", r.Language, scanner.LangDisplay[r.Language], r.Key)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <payload>...",
		Short: "Print the Sonar rule references found in a directive payload",
		Example: `  suppressaudit extract '"java:S1234", "squid:S5678"'
  suppressaudit extract 'Major Code Smell, S1144'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := suppress.ExtractRuleReferences(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(out, "No rule references found")
				return nil
			}
			for _, ref := range refs {
				fmt.Fprintln(out, ref)
			}
			return nil
		},
	}
}

func newRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rule",
		Short: "Describe the rule findings are reported under",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key:         %s\n", scanner.RuleKey)
			fmt.Fprintf(out, "Name:        %s\n", scanner.RuleName)
			fmt.Fprintf(out, "Severity:    %s\n", scanner.Severity)
			fmt.Fprintf(out, "Type:        %s\n", scanner.RuleType)
			fmt.Fprintf(out, "Tags:        %s\n", strings.Join(scanner.RuleTags, ", "))
			fmt.Fprintf(out, "Remediation: %s\n", scanner.RemediationEffort)
			fmt.Fprintln(out)
			fmt.Fprintln(out, scanner.RuleDescription())
			return nil
		},
	}
}
