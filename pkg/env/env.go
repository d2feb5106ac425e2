package env

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"jasper-launcher/internal/domain/model"
)

// Write renders vars in .env format, one NAME=value per line, preserving order.
// Values containing whitespace, quotes, `#`, `=` or `$` are double quoted with
// internal backslashes and quotes escaped.
func Write(w io.Writer, vars model.Environment) error {
	for _, v := range vars {
		if v.Name == "" {
			return fmt.Errorf("env variable with empty name")
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", v.Name, quote(v.Value)); err != nil {
			return fmt.Errorf("failed to write env variable %s: %w", v.Name, err)
		}
	}
	return nil
}

// Save writes vars to path in .env format. The file holds session secrets, so
// it is created readable by the owner only.
func Save(path string, vars model.Environment) error {
	if len(vars) == 0 {
		return nil // Nothing to write
	}

	var buf bytes.Buffer
	if err := Write(&buf, vars); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create env directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write env file %s: %w", path, err)
	}
	return nil
}

func quote(v string) string {
	if !strings.ContainsAny(v, " \t\n\r#=\"'$\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	v = strings.ReplaceAll(v, "$", `\$`)
	return `"` + v + `"`
}
