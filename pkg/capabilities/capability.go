package capabilities

import (
	"context"
	"time"
)

// Capability names
const (
	CapabilityDocker        = "docker"
	CapabilityDockerCompose = "docker-compose"
	CapabilityOS            = "os"
)

const probeTimeout = 10 * time.Second

// Capability represents a host capability that can be detected
type Capability interface {
	// Name returns the name of the capability
	Name() string
	// Version returns the detected version, or a default before detection
	Version() string
	// IsAvailable runs the detection
	IsAvailable(ctx context.Context) bool
}

// Report is the outcome of probing one capability.
type Report struct {
	Name      string `json:"name"`
	Version   string `json:"version,omitempty"`
	Available bool   `json:"available"`
}

// CapabilityFactory creates and returns all capabilities the launcher depends on
type CapabilityFactory struct {
	capabilities []Capability
}

// NewCapabilityFactory creates a factory probing the given docker CLI.
func NewCapabilityFactory(dockerBinary string) *CapabilityFactory {
	if dockerBinary == "" {
		dockerBinary = "docker"
	}
	return &CapabilityFactory{
		capabilities: []Capability{
			NewSystemOSCapability(),
			NewDockerCapability(dockerBinary),
			NewDockerComposeCapability(dockerBinary),
		},
	}
}

// GetAllCapabilities returns all capabilities
func (f *CapabilityFactory) GetAllCapabilities() []Capability {
	return f.capabilities
}

// GetCapabilityByName returns a capability by its name
func (f *CapabilityFactory) GetCapabilityByName(name string) Capability {
	for _, c := range f.capabilities {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Probe detects every capability in order.
func (f *CapabilityFactory) Probe(ctx context.Context) []Report {
	reports := make([]Report, 0, len(f.capabilities))
	for _, c := range f.capabilities {
		available := c.IsAvailable(ctx)
		reports = append(reports, Report{Name: c.Name(), Version: c.Version(), Available: available})
	}
	return reports
}

// Missing returns the names of the reports that are not available.
func Missing(reports []Report) []string {
	var missing []string
	for _, r := range reports {
		if !r.Available {
			missing = append(missing, r.Name)
		}
	}
	return missing
}
