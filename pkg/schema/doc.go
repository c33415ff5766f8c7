// Package schema loads and decodes the "entities" configuration category: the
// per-entity-type addon schemas grouped by source and group.
//
// JSON and YAML documents keep their declaration order. HCL documents use
// entity, source, group and field blocks. OpenAPI documents carry the tree on
// component schemas under the x-addons extension.
package schema
