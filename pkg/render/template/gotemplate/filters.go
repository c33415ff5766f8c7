package gotemplate

import (
	"encoding/json"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-addons/pkg/displayers"
)

func adaptFilter(fn func(input any, param any) (any, error)) pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramValue any
		if param != nil {
			paramValue = param.Interface()
		}
		result, err := fn(in.Interface(), paramValue)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}
}

func registerDefaultFilters() {
	defaults := map[string]pongo2.FilterFunction{
		"trim":      filterTrim,
		"dasherize": filterDasherize,
		"tojson":    filterToJSON,
	}
	for name, fn := range defaults {
		if !pongo2.FilterExists(name) {
			_ = pongo2.RegisterFilter(name, fn)
		}
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterDasherize turns a displayer name into its element suffix
// ("selectBox" → "select-box").
func filterDasherize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(displayers.Dasherize(in.String())), nil
}

// filterToJSON serialises a value for data attributes. Strings pass through
// unchanged; nil renders as an empty string.
func filterToJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	value := in.Interface()
	switch v := value.(type) {
	case nil:
		return pongo2.AsValue(""), nil
	case string:
		return pongo2.AsValue(v), nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:tojson", OrigError: err}
	}
	return pongo2.AsValue(string(payload)), nil
}
