package config

const (
	FeatureMetrics         = "metrics"
	FeatureGRPCHealth      = "grpc_health"
	FeatureHistory         = "history"
	FeatureReadinessWait   = "readiness_wait"
	FeatureEmbeddedCompose = "embedded_compose"
)

// DefaultFeatureValues defines the default values for each feature
var DefaultFeatureValues = map[string]bool{
	FeatureMetrics:         true,
	FeatureGRPCHealth:      true,
	FeatureHistory:         true,
	FeatureReadinessWait:   true,
	FeatureEmbeddedCompose: true,
}

// IsFeatureEnabled checks if a feature is enabled in the configuration.
func (c *Config) IsFeatureEnabled(feature string) bool {
	value, exists := c.Features[feature]
	if !exists {
		return DefaultFeatureValues[feature]
	}
	return value
}
