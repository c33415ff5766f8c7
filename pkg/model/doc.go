// Package model defines the typed addon records shared by the registry, the
// resolver and the renderers. Schema records (EntityTypeSchema, SourceSchema,
// GroupSchema, FieldDefinition) are ordered slices rather than maps so the
// declaration order of the source document survives decoding; the resolver
// relies on that order when it lays out groups and lazily appends value
// containers. Entity-side values (AddonValue) are identified by the
// (group, key, source) triple exposed as Identity, and any domain type can
// take part in resolution by implementing Holder.
package model
