package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/goliatone/go-addons/pkg/model"
)

// hclDocument is the top-level structure of an HCL entities file:
//
//	entity "page" {
//	  source "platform" {
//	    group "contact" {
//	      name = "Contact"
//	      field "email" {
//	        type = "string"
//	      }
//	    }
//	  }
//	}
type hclDocument struct {
	Entities []hclEntity `hcl:"entity,block"`
	Remain   hcl.Body    `hcl:",remain"`
}

type hclEntity struct {
	Type    string      `hcl:"type,label"`
	Sources []hclSource `hcl:"source,block"`
}

type hclSource struct {
	Name   string     `hcl:"name,label"`
	Groups []hclGroup `hcl:"group,block"`
}

type hclGroup struct {
	Key        string     `hcl:"key,label"`
	Name       string     `hcl:"name,optional"`
	Text       string     `hcl:"text,optional"`
	Properties cty.Value  `hcl:"properties,optional"`
	Fields     []hclField `hcl:"field,block"`
}

type hclField struct {
	Key         string    `hcl:"key,label"`
	Type        string    `hcl:"type,optional"`
	Displayer   string    `hcl:"displayer,optional"`
	Placeholder string    `hcl:"placeholder,optional"`
	ReadOnly    bool      `hcl:"read_only,optional"`
	ListValues  cty.Value `hcl:"list_values,optional"`
	Properties  cty.Value `hcl:"properties,optional"`
	Template    *string   `hcl:"template,optional"`
}

// DecodeHCL decodes an HCL entities document. Block order is declaration
// order, so it carries over to sources, groups and fields.
func DecodeHCL(doc Document) (Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(doc.Raw(), doc.Location())
	if diags.HasErrors() {
		return Catalog{}, fmt.Errorf("schema: parse %s: %s", doc.Location(), diags.Error())
	}

	var parsed hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return Catalog{}, fmt.Errorf("schema: decode %s: %s", doc.Location(), diags.Error())
	}

	var catalog Catalog
	for _, entity := range parsed.Entities {
		entitySchema := model.EntityTypeSchema{}
		for _, source := range entity.Sources {
			sourceSchema := model.SourceSchema{Name: source.Name}
			for _, group := range source.Groups {
				converted, err := convertHCLGroup(group)
				if err != nil {
					return Catalog{}, fmt.Errorf("schema: %s: entity %q source %q: %w", doc.Location(), entity.Type, source.Name, err)
				}
				sourceSchema.Groups = append(sourceSchema.Groups, converted)
			}
			entitySchema.Sources = append(entitySchema.Sources, sourceSchema)
		}
		catalog.Set(entity.Type, entitySchema)
	}
	return catalog, nil
}

func convertHCLGroup(group hclGroup) (model.GroupSchema, error) {
	properties, err := ctyToMap(group.Properties)
	if err != nil {
		return model.GroupSchema{}, fmt.Errorf("group %q properties: %w", group.Key, err)
	}
	out := model.GroupSchema{
		Key:        group.Key,
		Name:       group.Name,
		Text:       group.Text,
		Properties: properties,
	}
	for _, field := range group.Fields {
		extra, err := ctyToMap(field.Properties)
		if err != nil {
			return model.GroupSchema{}, fmt.Errorf("field %q properties: %w", field.Key, err)
		}
		listValues, err := ctyToSlice(field.ListValues)
		if err != nil {
			return model.GroupSchema{}, fmt.Errorf("field %q list_values: %w", field.Key, err)
		}
		out.Fields = append(out.Fields, model.FieldDefinition{
			Key:         field.Key,
			Type:        model.FieldType(strings.TrimSpace(field.Type)),
			Displayer:   strings.TrimSpace(field.Displayer),
			Placeholder: field.Placeholder,
			Template:    field.Template,
			Properties: model.FieldProperties{
				ReadOnly:   field.ReadOnly,
				ListValues: listValues,
				Extra:      extra,
			},
		})
	}
	return out, nil
}

func ctyToAny(value cty.Value) (any, error) {
	if value == cty.NilVal || value.IsNull() || !value.IsWhollyKnown() {
		return nil, nil
	}
	payload, err := ctyjson.Marshal(value, value.Type())
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func ctyToMap(value cty.Value) (map[string]any, error) {
	decoded, err := ctyToAny(value)
	if err != nil || decoded == nil {
		return nil, err
	}
	mapped, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %s", value.Type().FriendlyName())
	}
	return mapped, nil
}

func ctyToSlice(value cty.Value) ([]any, error) {
	decoded, err := ctyToAny(value)
	if err != nil || decoded == nil {
		return nil, err
	}
	items, ok := decoded.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %s", value.Type().FriendlyName())
	}
	return items, nil
}
