// Package resolver merges an entity type's addon schema with a concrete
// entity, lazily creating value containers for declared fields and returning
// the ordered group tree renderers consume.
package resolver
