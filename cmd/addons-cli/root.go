package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	addons "github.com/goliatone/go-addons"
	"github.com/goliatone/go-addons/internal/config"
	"github.com/goliatone/go-addons/pkg/model"
	"github.com/goliatone/go-addons/pkg/renderers/html"
	"github.com/goliatone/go-addons/pkg/renderers/tui"
	"github.com/goliatone/go-addons/pkg/schema"
)

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"schema":           "schema",
	"entity-type":      "entity_type",
	"format":           "format",
	"theme":            "theme.name",
	"theme-variant":    "theme.variant",
	"theme-manifest":   "theme.manifest",
	"ignore-read-only": "ignore_read_only",
	"placeholders":     "placeholders",
	"strict":           "strict",
	"verbose":          "verbose",
	"http-timeout":     "http_timeout",
}

type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger *slog.Logger
	// driver replaces the survey prompts when set.
	driver tui.PromptDriver
}

func newApp() *app {
	return &app{v: config.New(), logger: slog.Default()}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "addons-cli",
		Short:         "Resolve and render entity addons",
		Long:          "addons-cli merges an addon configuration document with entity files and renders, edits or lints the result.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default .addons.yaml)")
	flags.String("env-file", ".env", "dotenv file loaded before configuration")
	flags.String("schema", "", "addon configuration document path or URL")
	flags.StringP("entity-type", "t", "", "entity type (defaults to the entity file's type)")
	flags.String("format", "", "configuration format: json, yaml, hcl or openapi")
	flags.String("theme", "", "go-theme theme name applied to HTML output")
	flags.String("theme-variant", "", "go-theme variant")
	flags.String("theme-manifest", "", "go-theme manifest file (JSON or YAML)")
	flags.Bool("ignore-read-only", false, "treat read-only fields as editable")
	flags.Bool("placeholders", false, "render unresolved fields as placeholders instead of failing")
	flags.Bool("strict", false, "fail on displayer conflicts and lint warnings")
	flags.BoolP("verbose", "v", false, "debug logging")
	flags.Duration("http-timeout", config.DefaultHTTPTimeout, "timeout for remote configuration documents")

	for flag, key := range flagKeys {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(
		newResolveCmd(a),
		newRenderCmd(a),
		newEditCmd(a),
		newLintCmd(a),
		newDisplayersCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnv(envFile); err != nil {
		return err
	}
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.ReadFile(a.v, cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	return nil
}

func newLogger(out io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// service builds the addons service from configuration. Commands that only
// inspect the displayer registry pass requireSchema=false.
func (a *app) service(requireSchema bool, extra ...addons.Option) (*addons.Service, error) {
	themeCfg, err := loadTheme(a.cfg.Theme)
	if err != nil {
		return nil, err
	}

	options := []addons.Option{
		addons.WithLogger(a.logger),
		addons.WithLoaderOptions(schema.LoaderOptions{
			AllowHTTPFallback: true,
			RequestTimeout:    a.cfg.HTTPTimeout,
		}),
		addons.WithHTMLOptions(
			html.WithTheme(themeCfg),
			html.WithIgnoreReadOnly(a.cfg.IgnoreReadOnly),
			html.WithPlaceholders(a.cfg.Placeholders),
		),
	}
	if a.cfg.Strict {
		options = append(options, addons.WithStrictRegistration())
	}

	src := schema.ParseSource(a.cfg.Schema)
	switch {
	case src != nil:
		options = append(options, addons.WithSchemaSource(src, a.cfg.SchemaFormat()))
	case requireSchema:
		return nil, errors.New("addons-cli: a configuration document is required (--schema or ADDONS_SCHEMA)")
	}

	return addons.New(append(options, extra...)...)
}

func (a *app) entityType(entity *model.Entity) (string, error) {
	if a.cfg.EntityType != "" {
		return a.cfg.EntityType, nil
	}
	if entity != nil && entity.Type != "" {
		return entity.Type, nil
	}
	return "", fmt.Errorf("addons-cli: entity type is required (--entity-type or a \"type\" in the entity file)")
}

func (a *app) promptDriver(cmd *cobra.Command) tui.PromptDriver {
	if a.driver != nil {
		return a.driver
	}
	return tui.NewSurveyDriver(cmd.ErrOrStderr())
}
