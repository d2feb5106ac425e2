package capabilities

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// fakeDocker writes a shell script that answers like the docker CLI.
func fakeDocker(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "docker")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProbeWithDockerAndCompose(t *testing.T) {
	binary := fakeDocker(t, `
if [ "$1" = "--version" ]; then echo "Docker version 27.3.1, build ce12230"; exit 0; fi
if [ "$1" = "compose" ]; then echo "v2.29.7"; exit 0; fi
exit 1
`)
	reports := NewCapabilityFactory(binary).Probe(context.Background())

	want := []Report{
		{Name: CapabilityOS, Version: runtime.GOOS + "/" + runtime.GOARCH, Available: true},
		{Name: CapabilityDocker, Version: "27.3.1", Available: true},
		{Name: CapabilityDockerCompose, Version: "2.29.7", Available: true},
	}
	if len(reports) != len(want) {
		t.Fatalf("Probe() returned %d reports", len(reports))
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Errorf("report %d = %+v, want %+v", i, reports[i], want[i])
		}
	}
	if missing := Missing(reports); len(missing) != 0 {
		t.Errorf("Missing() = %v", missing)
	}
}

func TestProbeWithoutComposePlugin(t *testing.T) {
	binary := fakeDocker(t, `
if [ "$1" = "--version" ]; then echo "Docker version 20.10.24, build 297e128"; exit 0; fi
echo "docker: 'compose' is not a docker command." >&2
exit 1
`)
	reports := NewCapabilityFactory(binary).Probe(context.Background())
	missing := Missing(reports)
	if len(missing) != 1 || missing[0] != CapabilityDockerCompose {
		t.Errorf("Missing() = %v, want [%s]", missing, CapabilityDockerCompose)
	}
}

func TestProbeMissingBinary(t *testing.T) {
	factory := NewCapabilityFactory(filepath.Join(t.TempDir(), "no-docker"))
	missing := Missing(factory.Probe(context.Background()))
	if len(missing) != 2 {
		t.Errorf("Missing() = %v, want docker and docker-compose", missing)
	}
	if factory.GetCapabilityByName(CapabilityDocker) == nil {
		t.Error("GetCapabilityByName(docker) = nil")
	}
	if factory.GetCapabilityByName("kubernetes") != nil {
		t.Error("unknown capability should be nil")
	}
}
