package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-addons/pkg/model"
)

var knownFieldTypes = []model.FieldType{model.FieldTypeHTML, model.FieldTypeString, model.FieldTypeJSON}

func newDisplayersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "displayers",
		Short: "List registered displayers with their declared field types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(false)
			if err != nil {
				return err
			}
			registry := svc.Registry()

			defaults := make(map[string][]string)
			for _, fieldType := range knownFieldTypes {
				if name, ok := registry.DefaultDisplayer(fieldType); ok {
					defaults[name] = append(defaults[name], string(fieldType))
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tDEFAULT FOR")
			for _, name := range registry.Names() {
				displayer, _ := registry.Lookup(name)
				declared := string(displayer.Type())
				if declared == "" {
					declared = "-"
				}
				defaultFor := strings.Join(defaults[name], ",")
				if defaultFor == "" {
					defaultFor = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, declared, defaultFor)
			}
			return w.Flush()
		},
	}
}
