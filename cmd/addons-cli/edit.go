package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	addons "github.com/goliatone/go-addons"
	"github.com/goliatone/go-addons/internal/entityfile"
	"github.com/goliatone/go-addons/pkg/renderers/tui"
)

func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <entity-file>",
		Short: "Edit an entity's addon values interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, path, format, err := entityArg(cmd, args)
			if err != nil {
				return err
			}
			entityType, err := a.entityType(entity)
			if err != nil {
				return err
			}

			outputFormat, _ := cmd.Flags().GetString("output-format")
			driver := a.promptDriver(cmd)
			editor, err := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(tui.OutputFormat(outputFormat)),
				tui.WithIgnoreReadOnly(a.cfg.IgnoreReadOnly),
				tui.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			svc, err := a.service(true, addons.WithRenderer(editor))
			if err != nil {
				return err
			}

			sources, _ := cmd.Flags().GetStringSlice("source")
			groups, _ := cmd.Flags().GetStringSlice("group")
			summary, err := svc.Render(cmd.Context(), editor.Name(), entityType, entity, addons.RenderOptions{
				IgnoreReadOnly: a.cfg.IgnoreReadOnly,
				Subset:         addons.Subset{Sources: sources, Groups: groups},
			})
			if errors.Is(err, tui.ErrAborted) {
				a.logger.Info("edit aborted, nothing written", "path", path)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(summary))

			if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
				return nil
			}
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				confirmed, err := driver.Confirm(cmd.Context(), tui.ConfirmConfig{
					Message: fmt.Sprintf("Write %d change(s) to %s?", editor.State().Len(), path),
					Default: true,
				})
				if err != nil || !confirmed {
					return err
				}
			}

			if entity.Type == "" {
				entity.Type = entityType
			}
			if err := entityfile.Write(path, entity, format); err != nil {
				return err
			}
			a.logger.Info("entity written", "path", path, "changes", editor.State().Len())
			return nil
		},
	}
	addEntityFormatFlag(cmd)
	addSubsetFlags(cmd)
	cmd.Flags().String("output-format", string(tui.OutputFormatPrettyText), "summary format: json or pretty")
	cmd.Flags().BoolP("yes", "y", false, "write without confirmation")
	cmd.Flags().Bool("dry-run", false, "print the summary without writing the entity file")
	return cmd
}
