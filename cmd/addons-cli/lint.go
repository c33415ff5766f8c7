package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	addons "github.com/goliatone/go-addons"
)

func newLintCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check that every configured addon field resolves to a displayer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(true)
			if err != nil {
				return err
			}
			issues, err := svc.Lint(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				if issues == nil {
					issues = []addons.Issue{}
				}
				payload, err := json.MarshalIndent(issues, "", "  ")
				if err != nil {
					return fmt.Errorf("addons-cli: encode issues: %w", err)
				}
				fmt.Fprintln(out, string(payload))
			} else {
				for _, issue := range issues {
					fmt.Fprintln(out, issue.String())
				}
			}

			var errorCount, warningCount int
			for _, issue := range issues {
				if issue.Severity == addons.SeverityError {
					errorCount++
				} else {
					warningCount++
				}
			}
			if errorCount > 0 || (a.cfg.Strict && warningCount > 0) {
				return fmt.Errorf("addons-cli: lint found %d error(s) and %d warning(s)", errorCount, warningCount)
			}
			a.logger.Debug("lint passed", "warnings", warningCount)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print issues as JSON")
	return cmd
}
