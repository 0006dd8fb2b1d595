package valueobjects

import "slices"

// Status is the lifecycle status of an aggregate
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Environment is the deployment environment a device or reference data bundle belongs to
type Environment string

const (
	EnvironmentDev  Environment = "dev"
	EnvironmentQA   Environment = "qa"
	EnvironmentRef  Environment = "ref"
	EnvironmentInt  Environment = "int"
	EnvironmentProd Environment = "prod"
)

var environments = []Environment{EnvironmentDev, EnvironmentQA, EnvironmentRef, EnvironmentInt, EnvironmentProd}

// ParseEnvironment accepts any known environment
func ParseEnvironment(value string) (Environment, error) {
	env := Environment(value)
	if !env.IsValid() {
		return "", invalidFormat("environment", value)
	}
	return env, nil
}

// IsValid reports whether the environment is known
func (e Environment) IsValid() bool {
	return slices.Contains(environments, e)
}
