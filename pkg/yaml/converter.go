package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
)

// JSONToYAML converts JSON bytes to YAML bytes, keeping object key order.
func JSONToYAML(jsonBytes []byte) ([]byte, error) {
	if !json.Valid(jsonBytes) {
		return nil, fmt.Errorf("error parsing JSON: invalid document")
	}
	var jsonObj any
	if err := yaml.UnmarshalWithOptions(jsonBytes, &jsonObj, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	yamlBytes, err := yaml.Marshal(jsonObj)
	if err != nil {
		return nil, fmt.Errorf("error converting to YAML: %w", err)
	}
	return yamlBytes, nil
}

// Marshal renders v as YAML using its JSON field names and field order.
func Marshal(v any) ([]byte, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error encoding JSON: %w", err)
	}
	return JSONToYAML(jsonBytes)
}

// UnmarshalYAML parses YAML bytes into the provided object
func UnmarshalYAML(yamlBytes []byte, obj interface{}) error {
	if err := yaml.Unmarshal(yamlBytes, obj); err != nil {
		return fmt.Errorf("error parsing YAML: %w", err)
	}
	return nil
}
