// internal/common/config/environment.go
package config

import "time"

// Environment names recognised by Resolve.
const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

const (
	DefaultBaseURL = "https://serverest.dev"
	DevBaseURL     = "http://localhost:3000"
	DefaultTimeout = 10000 // milliseconds
)

// Environment is the target the suite sends requests to.
type Environment struct {
	BaseURL string `json:"baseUrl"`
	Timeout int    `json:"timeout"` // milliseconds
}

// Resolve maps an environment name to its target. Unknown names, including the
// empty string, resolve to the defaults. Matching is case-sensitive.
func Resolve(envName string) Environment {
	switch envName {
	case EnvDev:
		return Environment{BaseURL: DevBaseURL, Timeout: DefaultTimeout}
	case EnvProd:
		return Environment{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout}
	default:
		return Environment{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout}
	}
}

// TimeoutDuration returns the per-request deadline.
func (e Environment) TimeoutDuration() time.Duration {
	return GetDuration(e.Timeout)
}
