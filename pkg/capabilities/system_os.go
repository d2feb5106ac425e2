package capabilities

import (
	"context"
	"runtime"
)

// SystemOSCapability reports the operating system information.
type SystemOSCapability struct {
	osType string
	arch   string
}

// NewSystemOSCapability returns a new SystemOSCapability.
func NewSystemOSCapability() *SystemOSCapability {
	return &SystemOSCapability{
		osType: runtime.GOOS,
		arch:   runtime.GOARCH,
	}
}

// Name implements Capability.
func (c *SystemOSCapability) Name() string {
	return CapabilityOS
}

// Version implements Capability.
func (c *SystemOSCapability) Version() string {
	return c.osType + "/" + c.arch
}

// IsAvailable implements Capability.
func (c *SystemOSCapability) IsAvailable(context.Context) bool {
	return true
}

// GetArch returns the OS architecture.
func (c *SystemOSCapability) GetArch() string {
	return c.arch
}
