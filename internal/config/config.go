// Package config implements the configuration contract of a
// proficiency-testing round: a fixed struct populated first from an
// optional YAML file and then overlaid with command-line flags, so
// unknown keys are rejected at validation time instead of silently
// passed through.
package config

// AlgorithmAConfig carries Algorithm A's tuning parameters.
type AlgorithmAConfig struct {
	Tolerance     float64
	MaxIterations int
}

// SuppliedValueConfig carries the value/uncertainty pair required by
// CRM, Formulation, and Expert methods.
type SuppliedValueConfig struct {
	Value       float64
	Uncertainty float64
}

// InputDataConfig maps the caller's raw table columns onto the fields
// the validation kernel requires.
type InputDataConfig struct {
	IDCol          string
	ResultCol      string
	UncertaintyCol string
}

// CalculationConfig selects the assigned-value method and carries every
// method's parameters; only the block matching Method is consulted.
type CalculationConfig struct {
	Method      string
	SigmaPt     float64
	AlgorithmA  AlgorithmAConfig
	CRM         SuppliedValueConfig
	Formulation SuppliedValueConfig
	Expert      SuppliedValueConfig
}

// ReportingConfig carries the external renderer invocation contract.
type ReportingConfig struct {
	TemplatePath string
	OutputFormat string
	OutputPath   string
	RendererPath string
}

// TelemetryConfig carries the optional round-summary reporter's
// settings. Disabled by default: a proficiency-testing round frequently
// carries data a lab considers sensitive.
type TelemetryConfig struct {
	Enabled  bool
	Host     string
	Insecure bool
}

// Config is the fully resolved configuration for one CLI invocation.
type Config struct {
	InputData   InputDataConfig
	Calculation CalculationConfig
	Reporting   ReportingConfig
	Telemetry   TelemetryConfig
}

// Option mutates a Config being built. Options are applied in order, so
// a later option overrides an earlier one — this is how the CLI overlay
// takes precedence over the values loaded from a file.
type Option func(c *Config) error

// New builds a Config from defaults overlaid with the given options in
// order, matching spec's tolerance=1e-5, max_iterations=50 defaults.
func New(options ...Option) (*Config, error) {
	c := &Config{
		Calculation: CalculationConfig{
			Method: "A",
			AlgorithmA: AlgorithmAConfig{
				Tolerance:     1e-5,
				MaxIterations: 50,
			},
		},
	}

	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
