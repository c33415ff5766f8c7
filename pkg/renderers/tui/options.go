package tui

import "log/slog"

// OutputFormat controls how the edited addons are serialised by Render.
type OutputFormat string

const (
	// OutputFormatJSON emits the entity's addon sequence as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits one "source/group/key = value" line per
	// resolved field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional message prefixes the renderer applies.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialisation format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithIgnoreReadOnly prompts for read-only fields too.
func WithIgnoreReadOnly(ignore bool) Option {
	return func(r *Renderer) {
		r.ignoreReadOnly = ignore
	}
}

// WithMaxAttempts bounds re-prompts for values that fail validation.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
