package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-addons/internal/entityfile"
	"github.com/goliatone/go-addons/pkg/model"
)

type resolveOutput struct {
	EntityType string                `json:"entityType"`
	Groups     []model.ResolvedGroup `json:"groups"`
	Entity     *model.Entity         `json:"entity"`
}

func newResolveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [entity-file]",
		Short: "Merge the addon schema into an entity and print the result as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, path, format, err := entityArg(cmd, args)
			if err != nil {
				return err
			}
			entityType, err := a.entityType(entity)
			if err != nil {
				return err
			}
			svc, err := a.service(true)
			if err != nil {
				return err
			}

			groups, err := svc.Resolve(cmd.Context(), entityType, entity)
			if err != nil {
				return err
			}
			if entity.Type == "" {
				entity.Type = entityType
			}

			payload, err := json.MarshalIndent(resolveOutput{EntityType: entityType, Groups: groups, Entity: entity}, "", "  ")
			if err != nil {
				return fmt.Errorf("addons-cli: encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))

			if write, _ := cmd.Flags().GetBool("write"); write && path != "" {
				if err := entityfile.Write(path, entity, format); err != nil {
					return err
				}
				a.logger.Info("entity written", "path", path, "addons", len(entity.Addons))
			}
			return nil
		},
	}
	addEntityFormatFlag(cmd)
	cmd.Flags().Bool("write", false, "write the entity file back with any created addon containers")
	return cmd
}
