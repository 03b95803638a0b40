package config

import "fmt"

// IDCol sets the input table's id column name.
func IDCol(name string) Option {
	return func(c *Config) error {
		c.InputData.IDCol = name
		return nil
	}
}

// ResultCol sets the input table's result column name.
func ResultCol(name string) Option {
	return func(c *Config) error {
		c.InputData.ResultCol = name
		return nil
	}
}

// UncertaintyCol sets the input table's optional uncertainty column
// name.
func UncertaintyCol(name string) Option {
	return func(c *Config) error {
		c.InputData.UncertaintyCol = name
		return nil
	}
}

// Method sets the assigned-value method: A, CRM, Formulation, or
// Expert.
func Method(name string) Option {
	return func(c *Config) error {
		c.Calculation.Method = name
		return nil
	}
}

// SigmaPt sets the fitness-for-purpose standard deviation used for
// z-scores.
func SigmaPt(sigma float64) Option {
	return func(c *Config) error {
		if sigma <= 0 {
			return fmt.Errorf("config: sigma_pt must be > 0, got %v", sigma)
		}
		c.Calculation.SigmaPt = sigma
		return nil
	}
}

// AlgorithmATolerance sets Algorithm A's convergence tolerance.
func AlgorithmATolerance(tolerance float64) Option {
	return func(c *Config) error {
		if tolerance <= 0 {
			return fmt.Errorf("config: algorithm_a.tolerance must be > 0, got %v", tolerance)
		}
		c.Calculation.AlgorithmA.Tolerance = tolerance
		return nil
	}
}

// AlgorithmAMaxIterations sets Algorithm A's iteration cap.
func AlgorithmAMaxIterations(max int) Option {
	return func(c *Config) error {
		if max <= 0 {
			return fmt.Errorf("config: algorithm_a.max_iterations must be > 0, got %d", max)
		}
		c.Calculation.AlgorithmA.MaxIterations = max
		return nil
	}
}

// CRMValue sets the CRM method's supplied value and uncertainty.
func CRMValue(value, uncertainty float64) Option {
	return func(c *Config) error {
		if uncertainty < 0 {
			return fmt.Errorf("config: crm.uncertainty must be >= 0, got %v", uncertainty)
		}
		c.Calculation.CRM = SuppliedValueConfig{Value: value, Uncertainty: uncertainty}
		return nil
	}
}

// FormulationValue sets the Formulation method's supplied value and
// uncertainty.
func FormulationValue(value, uncertainty float64) Option {
	return func(c *Config) error {
		if uncertainty < 0 {
			return fmt.Errorf("config: formulation.uncertainty must be >= 0, got %v", uncertainty)
		}
		c.Calculation.Formulation = SuppliedValueConfig{Value: value, Uncertainty: uncertainty}
		return nil
	}
}

// ExpertValue sets the Expert method's supplied value and uncertainty.
func ExpertValue(value, uncertainty float64) Option {
	return func(c *Config) error {
		if uncertainty < 0 {
			return fmt.Errorf("config: expert.uncertainty must be >= 0, got %v", uncertainty)
		}
		c.Calculation.Expert = SuppliedValueConfig{Value: value, Uncertainty: uncertainty}
		return nil
	}
}

// Renderer sets the external report renderer's invocation parameters.
func Renderer(rendererPath, templatePath, outputFormat, outputPath string) Option {
	return func(c *Config) error {
		c.Reporting.RendererPath = rendererPath
		c.Reporting.TemplatePath = templatePath
		c.Reporting.OutputFormat = outputFormat
		c.Reporting.OutputPath = outputPath
		return nil
	}
}

// TelemetryHost enables telemetry and sets the collector endpoint.
func TelemetryHost(host string) Option {
	return func(c *Config) error {
		c.Telemetry.Enabled = true
		c.Telemetry.Host = host
		return nil
	}
}

// TelemetryInsecure disables TLS for the telemetry connection.
func TelemetryInsecure() Option {
	return func(c *Config) error {
		c.Telemetry.Insecure = true
		return nil
	}
}
