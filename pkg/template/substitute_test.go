package template

import (
	"strings"
	"testing"
)

func TestSubstitute(t *testing.T) {
	vars := MapLookup(map[string]string{
		"TAG":   "v1.3",
		"EMPTY": "",
	})
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "no variables", input: "postgres:16", want: "postgres:16"},
		{name: "plain", input: "jasper:${TAG}", want: "jasper:v1.3"},
		{name: "unset plain", input: "jasper:${MISSING}", want: "jasper:"},
		{name: "default when unset", input: "${MISSING:-latest}", want: "latest"},
		{name: "default when empty", input: "${EMPTY:-latest}", want: "latest"},
		{name: "set wins over default", input: "${TAG:-latest}", want: "v1.3"},
		{name: "dash keeps empty", input: "${EMPTY-latest}", want: ""},
		{name: "dash default when unset", input: "${MISSING-latest}", want: "latest"},
		{name: "default with dashes", input: "${MISSING:-a-b-c}", want: "a-b-c"},
		{name: "escaped dollar", input: "$${TAG}", want: "${TAG}"},
		{name: "required set", input: "${TAG:?tag required}", want: "v1.3"},
		{name: "required empty", input: "${EMPTY:?tag required}", wantErr: "EMPTY is not set or empty"},
		{name: "required unset", input: "${MISSING?tag required}", wantErr: "MISSING is not set"},
		{name: "question keeps empty", input: "${EMPTY?tag required}", want: ""},
		{name: "several", input: "${TAG}/${MISSING:-x}/${TAG}", want: "v1.3/x/v1.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Substitute(tt.input, vars)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Substitute(%q) error = %v, want %q", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Substitute(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Substitute(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestChain(t *testing.T) {
	first := MapLookup(map[string]string{"A": "first"})
	second := MapLookup(map[string]string{"A": "second", "B": "second"})
	lookup := Chain(nil, first, second)

	if v, _ := lookup("A"); v != "first" {
		t.Errorf("A = %q, want first", v)
	}
	if v, _ := lookup("B"); v != "second" {
		t.Errorf("B = %q, want second", v)
	}
	if _, ok := lookup("C"); ok {
		t.Error("C should be unset")
	}
}
