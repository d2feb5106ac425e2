package model

import (
	"strings"
)

const redactedValue = "********"

// EnvVar is a single name/value pair handed to the orchestration tool.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Environment is an ordered list of variables. Order is part of the contract with
// the orchestration layer and is preserved everywhere it is rendered.
type Environment []EnvVar

// Pairs renders the environment in NAME=value form, suitable for exec.Cmd.Env.
func (e Environment) Pairs() []string {
	pairs := make([]string, 0, len(e))
	for _, v := range e {
		pairs = append(pairs, v.Name+"="+v.Value)
	}
	return pairs
}

// Lookup returns the value of the first variable called name.
func (e Environment) Lookup(name string) (string, bool) {
	for _, v := range e {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// Names returns variable names in order.
func (e Environment) Names() []string {
	names := make([]string, 0, len(e))
	for _, v := range e {
		names = append(names, v.Name)
	}
	return names
}

// Redacted returns a copy with secret values masked. Empty secrets stay empty so
// a reader can still tell whether a tunnel is configured.
func (e Environment) Redacted() Environment {
	out := make(Environment, len(e))
	for i, v := range e {
		if IsSecretEnv(v.Name) && v.Value != "" {
			v.Value = redactedValue
		}
		out[i] = v
	}
	return out
}

// IsSecretEnv reports whether the variable carries key material or a credential.
func IsSecretEnv(name string) bool {
	return strings.HasSuffix(name, "_KEY") || strings.HasSuffix(name, "_TOKEN")
}
