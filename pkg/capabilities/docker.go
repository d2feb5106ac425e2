package capabilities

import (
	"context"
	"os/exec"
	"strings"
)

// DockerCapability represents the Docker CLI
type DockerCapability struct {
	binary  string
	version string
}

// NewDockerCapability creates a new Docker capability
func NewDockerCapability(binary string) *DockerCapability {
	return &DockerCapability{binary: binary}
}

// Name returns the name of the capability
func (c *DockerCapability) Name() string {
	return CapabilityDocker
}

// Version returns the version of the capability
func (c *DockerCapability) Version() string {
	return c.version
}

// IsAvailable checks if the Docker CLI runs. Output looks like
// "Docker version 27.3.1, build ce12230".
func (c *DockerCapability) IsAvailable(ctx context.Context) bool {
	output, ok := probe(ctx, c.binary, "--version")
	if !ok || !strings.Contains(output, "Docker version") {
		return false
	}
	parts := strings.Fields(output)
	if len(parts) > 2 {
		c.version = strings.TrimSuffix(parts[2], ",")
	}
	return true
}

// probe runs binary with args and returns its trimmed standard output.
func probe(ctx context.Context, binary string, args ...string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, binary, args...).Output()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(output)), true
}
