// Package formatter renders values for terminal output.
package formatter

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"
)

// Formatter renders v in one output format.
type Formatter func(v interface{}) ([]byte, error)

// Formatters is the set of registered formats.
var Formatters = map[string]Formatter{
	"json":        JSON,
	"json-pretty": JSONPretty,
	"text":        Text,
	"yaml":        YAML,
}

// DefaultFormat is used when no format is given.
const DefaultFormat = "text"

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	DisableMethods:          true,
	SortKeys:                true,
}

// JSON outputs minified JSON.
func JSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// JSONPretty outputs indented JSON.
func JSONPretty(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// YAML outputs YAML. Values go through their JSON encoding first so custom
// JSON marshalers shape the output.
func YAML(v interface{}) ([]byte, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

// Text outputs an indented dump of the value's JSON shape.
func Text(v interface{}) ([]byte, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	return []byte(dumper.Sdump(generic)), nil
}

// Format renders v in the named format. An empty format means text.
func Format(format string, v interface{}) ([]byte, error) {
	if format == "" {
		format = DefaultFormat
	}
	f := Formatters[format]
	if f == nil {
		return nil, fmt.Errorf("unrecognized format %q: must be one of %v", format, Names())
	}
	return f(v)
}

// Names lists the registered formats in sorted order.
func Names() []string {
	names := make([]string, 0, len(Formatters))
	for n := range Formatters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func toGeneric(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return out, nil
}
