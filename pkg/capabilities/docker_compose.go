package capabilities

import (
	"context"
	"strings"
)

// DockerComposeCapability represents the compose plugin of the Docker CLI
type DockerComposeCapability struct {
	binary  string
	version string
}

// NewDockerComposeCapability creates a new Docker Compose capability
func NewDockerComposeCapability(binary string) *DockerComposeCapability {
	return &DockerComposeCapability{binary: binary}
}

// Name returns the name of the capability
func (c *DockerComposeCapability) Name() string {
	return CapabilityDockerCompose
}

// Version returns the version of the capability
func (c *DockerComposeCapability) Version() string {
	return c.version
}

// IsAvailable checks if `docker compose` is installed. The standalone
// docker-compose v1 binary does not count.
func (c *DockerComposeCapability) IsAvailable(ctx context.Context) bool {
	output, ok := probe(ctx, c.binary, "compose", "version", "--short")
	if !ok || output == "" {
		return false
	}
	c.version = strings.TrimPrefix(strings.Fields(output)[0], "v")
	return true
}
