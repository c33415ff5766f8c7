package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-addons/internal/entityfile"
	"github.com/goliatone/go-addons/pkg/model"
)

// entityArg reads the optional entity file argument. Without one an empty
// entity is used.
func entityArg(cmd *cobra.Command, args []string) (*model.Entity, string, entityfile.Format, error) {
	raw, _ := cmd.Flags().GetString("entity-format")
	format, err := entityfile.ParseFormat(raw)
	if err != nil {
		return nil, "", "", err
	}
	if len(args) == 0 {
		return &model.Entity{Addons: model.Addons{}}, "", format, nil
	}
	entity, format, err := entityfile.Read(args[0], format)
	if err != nil {
		return nil, "", "", err
	}
	return entity, args[0], format, nil
}

func addEntityFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("entity-format", "", "entity file format: json, yaml or toml (default from extension)")
}

func addSubsetFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("source", nil, "only include these sources")
	cmd.Flags().StringSlice("group", nil, "only include these groups")
}
