package schema

import "github.com/goliatone/go-addons/pkg/model"

// CategoryEntities is the configuration category holding entity addon
// schemas.
const CategoryEntities = "entities"

// EntityType pairs an entity type name with its addon schema.
type EntityType struct {
	Name   string
	Schema model.EntityTypeSchema
}

// Catalog is the decoded "entities" category: the addon schemas of every
// configured entity type, in document order.
type Catalog struct {
	Entities []EntityType
}

// NewCatalog builds a catalog from entity types, later duplicates replacing
// earlier ones.
func NewCatalog(entities ...EntityType) Catalog {
	var catalog Catalog
	for _, entity := range entities {
		catalog.Set(entity.Name, entity.Schema)
	}
	return catalog
}

// Lookup returns the schema of entityType. Unknown types report false.
func (c Catalog) Lookup(entityType string) (model.EntityTypeSchema, bool) {
	for _, entity := range c.Entities {
		if entity.Name == entityType {
			return entity.Schema, true
		}
	}
	return model.EntityTypeSchema{}, false
}

// Set stores schema under entityType, keeping the original position when the
// type already exists.
func (c *Catalog) Set(entityType string, entitySchema model.EntityTypeSchema) {
	for idx := range c.Entities {
		if c.Entities[idx].Name == entityType {
			c.Entities[idx].Schema = entitySchema
			return
		}
	}
	c.Entities = append(c.Entities, EntityType{Name: entityType, Schema: entitySchema})
}

// Types lists entity type names in document order.
func (c Catalog) Types() []string {
	names := make([]string, 0, len(c.Entities))
	for _, entity := range c.Entities {
		names = append(names, entity.Name)
	}
	return names
}

// Len reports the number of entity types.
func (c Catalog) Len() int {
	return len(c.Entities)
}
