package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	addons "github.com/goliatone/go-addons"
	"github.com/goliatone/go-addons/pkg/schema"
)

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [entity-file]",
		Short: "Render the resolved addon groups of an entity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, _, _, err := entityArg(cmd, args)
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

			rendererName, _ := cmd.Flags().GetString("renderer")
			output, _ := cmd.Flags().GetString("output")
			sources, _ := cmd.Flags().GetStringSlice("source")
			groups, _ := cmd.Flags().GetStringSlice("group")
			opts := addons.RenderOptions{
				IgnoreReadOnly: a.cfg.IgnoreReadOnly,
				Subset:         addons.Subset{Sources: sources, Groups: groups},
			}

			renderOnce := func() error {
				out, err := svc.Render(cmd.Context(), rendererName, entityType, entity, opts)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), output, out)
			}
			if err := renderOnce(); err != nil {
				return err
			}

			watch, _ := cmd.Flags().GetBool("watch")
			if !watch {
				return nil
			}
			src := schema.ParseSource(a.cfg.Schema)
			if src == nil || src.Kind() != schema.SourceKindFile {
				return fmt.Errorf("addons-cli: --watch needs a file configuration document")
			}

			watcher, err := svc.Watch(cmd.Context(), src.Location(), schema.OnReload(func(err error) {
				if err != nil {
					return
				}
				if err := renderOnce(); err != nil {
					a.logger.Error("render failed", "error", err)
				}
			}))
			if err != nil {
				return err
			}
			a.logger.Info("watching configuration", "path", watcher.Path())
			<-cmd.Context().Done()
			watcher.Stop()
			return nil
		},
	}
	addEntityFormatFlag(cmd)
	addSubsetFlags(cmd)
	cmd.Flags().String("renderer", "html", "renderer name")
	cmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")
	cmd.Flags().Bool("watch", false, "re-render whenever the configuration file changes")
	return cmd
}

func writeOutput(stdout io.Writer, path string, payload []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, string(payload))
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("addons-cli: write output: %w", err)
	}
	return nil
}
