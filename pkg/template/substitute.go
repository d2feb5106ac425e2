package template

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var varPattern = regexp.MustCompile(`\$\$|\$\{([^}]+)}`)

// Lookup resolves a variable name. ok is false when the variable is unset.
type Lookup func(name string) (value string, ok bool)

// OSLookup reads the process environment.
func OSLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapLookup resolves names from vars only.
func MapLookup(vars map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// Chain tries each lookup in order and returns the first hit.
func Chain(lookups ...Lookup) Lookup {
	return func(name string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Substitute performs compose-style interpolation on input:
//
//	${VAR}          value, empty if unset
//	${VAR:-default} default if VAR is unset or empty
//	${VAR-default}  default if VAR is unset
//	${VAR:?err}     error if VAR is unset or empty
//	${VAR?err}      error if VAR is unset
//	$$              a literal $
func Substitute(input string, lookup Lookup) (string, error) {
	if !strings.Contains(input, "$") {
		return input, nil
	}
	if lookup == nil {
		lookup = OSLookup
	}

	var b strings.Builder
	b.Grow(len(input))
	last := 0
	for _, idx := range varPattern.FindAllStringSubmatchIndex(input, -1) {
		b.WriteString(input[last:idx[0]])
		last = idx[1]
		if idx[2] < 0 {
			b.WriteByte('$')
			continue
		}
		value, err := evaluate(input[idx[2]:idx[3]], lookup)
		if err != nil {
			return "", err
		}
		b.WriteString(value)
	}
	b.WriteString(input[last:])
	return b.String(), nil
}

// evaluate resolves one expression without its ${ } delimiters.
func evaluate(expr string, lookup Lookup) (string, error) {
	name, op, operand := splitExpression(expr)
	value, set := lookup(name)

	switch op {
	case "":
		return value, nil
	case "-":
		if set {
			return value, nil
		}
		return operand, nil
	case ":-":
		if set && value != "" {
			return value, nil
		}
		return operand, nil
	case "?":
		if set {
			return value, nil
		}
		return "", fmt.Errorf("variable %s is not set: %s", name, operand)
	case ":?":
		if set && value != "" {
			return value, nil
		}
		return "", fmt.Errorf("variable %s is not set or empty: %s", name, operand)
	}
	return "", fmt.Errorf("invalid variable expression: ${%s}", expr)
}

// splitExpression splits at the first operator. Two character operators win
// over their one character suffix.
func splitExpression(expr string) (name, op, operand string) {
	i := strings.IndexAny(expr, ":-?")
	if i < 0 {
		return strings.TrimSpace(expr), "", ""
	}
	name = strings.TrimSpace(expr[:i])
	rest := expr[i:]
	for _, candidate := range []string{":-", ":?", "-", "?"} {
		if strings.HasPrefix(rest, candidate) {
			return name, candidate, rest[len(candidate):]
		}
	}
	return strings.TrimSpace(expr), "", ""
}
