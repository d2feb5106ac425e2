package yaml

import (
	"strings"
	"testing"
)

func TestJSONToYAML(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
		// Expected YAML output fragments (partial matches)
		expectedYAMLFragments []string
	}{
		{
			name:    "Simple JSON object",
			json:    `{"key": "value", "number": 42}`,
			wantErr: false,
			expectedYAMLFragments: []string{
				"key: value",
				"number: 42",
			},
		},
		{
			name:    "Nested JSON object",
			json:    `{"outer": {"inner": "value"}, "array": [1, 2, 3]}`,
			wantErr: false,
			expectedYAMLFragments: []string{
				"outer:",
				"  inner: value",
				"array:",
				"- 1",
				"- 2",
				"- 3",
			},
		},
		{
			name:    "Top level array",
			json:    `[{"id": "b", "command": "down"}, {"id": "a"}]`,
			wantErr: false,
			expectedYAMLFragments: []string{
				"- id: b",
				"  command: down",
				"- id: a",
			},
		},
		{
			name:    "Invalid JSON",
			json:    `{"invalid": json}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yamlBytes, err := JSONToYAML([]byte(tt.json))
			if (err != nil) != tt.wantErr {
				t.Errorf("JSONToYAML() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			yamlStr := string(yamlBytes)
			for _, fragment := range tt.expectedYAMLFragments {
				if !strings.Contains(yamlStr, fragment) {
					t.Errorf("YAML output missing expected fragment: %q\n%s", fragment, yamlStr)
				}
			}
		})
	}
}

func TestMarshalKeepsFieldOrder(t *testing.T) {
	v := struct {
		Zeta  string `json:"zeta"`
		Alpha bool   `json:"alpha"`
	}{Zeta: "last", Alpha: true}

	out, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	s := string(out)
	if strings.Index(s, "zeta:") > strings.Index(s, "alpha:") {
		t.Errorf("field order not preserved:\n%s", s)
	}
	if !strings.Contains(s, "alpha: true") {
		t.Errorf("unexpected output:\n%s", s)
	}
}

func TestUnmarshalYAML(t *testing.T) {
	var out struct {
		Services map[string]struct {
			Image string `yaml:"image"`
		} `yaml:"services"`
	}
	doc := "services:\n  db:\n    image: postgres:16\n"
	if err := UnmarshalYAML([]byte(doc), &out); err != nil {
		t.Fatalf("UnmarshalYAML returned error: %v", err)
	}
	if out.Services["db"].Image != "postgres:16" {
		t.Errorf("unexpected result: %+v", out)
	}

	if err := UnmarshalYAML([]byte("services: [\n"), &out); err == nil {
		t.Errorf("expected error for malformed YAML")
	}
}
