package render

// RenderOptions carry per-request switches renderers honour on top of their
// construction-time configuration.
type RenderOptions struct {
	// IgnoreReadOnly renders read-only fields as editable.
	IgnoreReadOnly bool
	// Subset limits output to matching sources and groups. An empty subset
	// renders everything.
	Subset Subset
}
