package docker_compose

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/infra/compose/embedded"
	"jasper-launcher/pkg/template"
)

func TestParseBundledProject(t *testing.T) {
	data, err := embedded.Bundled()
	if err != nil {
		t.Fatalf("failed to read bundled compose file: %v", err)
	}
	project, err := ParseProject(data)
	if err != nil {
		t.Fatalf("ParseProject returned error: %v", err)
	}

	if want := []string{"cloudflared", "db", "ngrok", "server", "ssh", "web"}; !reflect.DeepEqual(project.ServiceNames(), want) {
		t.Errorf("services = %v, want %v", project.ServiceNames(), want)
	}
	if want := []string{model.ProfileCloudflare, model.ProfileNgrok}; !reflect.DeepEqual(project.Profiles(), want) {
		t.Errorf("profiles = %v, want %v", project.Profiles(), want)
	}
	if missing := project.MissingProfiles([]string{model.ProfileCloudflare, model.ProfileNgrok}); len(missing) != 0 {
		t.Errorf("tunnel profiles reported missing: %v", missing)
	}

	repos := map[string]string{
		"server": "ghcr.io/cjmalloy/jasper",
		"web":    "ghcr.io/cjmalloy/jasper-ui",
		"db":     "postgres",
		"ssh":    "ghcr.io/cjmalloy/jasper-shell",
		"absent": "",
	}
	for service, want := range repos {
		if got := project.ImageRepository(service); got != want {
			t.Errorf("ImageRepository(%s) = %q, want %q", service, got, want)
		}
	}
}

func TestParseProjectErrors(t *testing.T) {
	if _, err := ParseProject([]byte("name: empty\n")); err == nil {
		t.Errorf("project without services should be rejected")
	}
	if _, err := ParseProject([]byte("services: [\n")); err == nil {
		t.Errorf("malformed YAML should be rejected")
	}
}

func TestLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compose.yml")
	doc := "services:\n  app:\n    image: nginx:1.27\n    profiles: [debug]\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	project, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject returned error: %v", err)
	}
	if got := project.MissingProfiles([]string{"debug", "cf"}); !reflect.DeepEqual(got, []string{"cf"}) {
		t.Errorf("MissingProfiles = %v", got)
	}
	if got := project.ImageRepository("app"); got != "nginx" {
		t.Errorf("ImageRepository = %q", got)
	}

	if _, err := LoadProject(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("missing file should fail")
	}
}

func TestProjectImages(t *testing.T) {
	data, err := embedded.Bundled()
	if err != nil {
		t.Fatalf("failed to read bundled compose file: %v", err)
	}
	project, err := ParseProject(data)
	if err != nil {
		t.Fatalf("ParseProject returned error: %v", err)
	}

	images, err := project.Images(template.MapLookup(map[string]string{
		"JASPER_SERVER_VERSION": "v1",
		"JASPER_CLIENT_VERSION": "",
	}))
	if err != nil {
		t.Fatalf("Images returned error: %v", err)
	}
	want := map[string]string{
		"server":      "ghcr.io/cjmalloy/jasper:v1",
		"web":         "ghcr.io/cjmalloy/jasper-ui:v1.3",
		"db":          "postgres:16",
		"ssh":         "ghcr.io/cjmalloy/jasper-shell:v1.1",
		"cloudflared": "cloudflare/cloudflared:latest",
		"ngrok":       "ngrok/ngrok:latest",
	}
	if !reflect.DeepEqual(images, want) {
		t.Errorf("Images = %v, want %v", images, want)
	}

	required, err := ParseProject([]byte("services:\n  app:\n    image: app:${TAG:?set TAG}\n"))
	if err != nil {
		t.Fatalf("ParseProject returned error: %v", err)
	}
	if _, err := required.Images(template.MapLookup(nil)); err == nil {
		t.Error("missing required variable should fail")
	}
}
