package config

import (
	"fmt"
	"io/ioutil"

	"github.com/go-yaml/yaml"
)

// fileConfig is a closed struct rather than the dynamically-typed
// map[string]interface{} the teacher's own parseFromFile walks: FromFile
// decodes it strictly, so a key this struct does not declare is a
// parse error instead of being silently accepted.
type fileConfig struct {
	InputData struct {
		IDCol          string `yaml:"id_col"`
		ResultCol      string `yaml:"result_col"`
		UncertaintyCol string `yaml:"uncertainty_col"`
	} `yaml:"input_data"`

	Calculation struct {
		Method     string  `yaml:"method"`
		SigmaPt    float64 `yaml:"sigma_pt"`
		AlgorithmA struct {
			Tolerance     float64 `yaml:"tolerance"`
			MaxIterations int     `yaml:"max_iterations"`
		} `yaml:"algorithm_a"`
		CRM struct {
			Value       float64 `yaml:"value"`
			Uncertainty float64 `yaml:"uncertainty"`
		} `yaml:"crm"`
		Formulation struct {
			Value       float64 `yaml:"value"`
			Uncertainty float64 `yaml:"uncertainty"`
		} `yaml:"formulation"`
		Expert struct {
			Value       float64 `yaml:"value"`
			Uncertainty float64 `yaml:"uncertainty"`
		} `yaml:"expert"`
	} `yaml:"calculation"`

	Reporting struct {
		RendererPath string `yaml:"renderer_path"`
		TemplatePath string `yaml:"template_path"`
		OutputFormat string `yaml:"output_format"`
		OutputPath   string `yaml:"output_path"`
	} `yaml:"reporting"`

	Telemetry struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Insecure bool   `yaml:"insecure"`
	} `yaml:"telemetry"`
}

// FromFile reads a YAML configuration file and returns the Options
// needed to apply it to a Config, in the same file-then-CLI-overlay
// order the caller composes with flag-derived options.
func FromFile(path string) ([]Option, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	var opts []Option
	if fc.InputData.IDCol != "" {
		opts = append(opts, IDCol(fc.InputData.IDCol))
	}
	if fc.InputData.ResultCol != "" {
		opts = append(opts, ResultCol(fc.InputData.ResultCol))
	}
	if fc.InputData.UncertaintyCol != "" {
		opts = append(opts, UncertaintyCol(fc.InputData.UncertaintyCol))
	}
	if fc.Calculation.Method != "" {
		opts = append(opts, Method(fc.Calculation.Method))
	}
	if fc.Calculation.SigmaPt != 0 {
		opts = append(opts, SigmaPt(fc.Calculation.SigmaPt))
	}
	if fc.Calculation.AlgorithmA.Tolerance != 0 {
		opts = append(opts, AlgorithmATolerance(fc.Calculation.AlgorithmA.Tolerance))
	}
	if fc.Calculation.AlgorithmA.MaxIterations != 0 {
		opts = append(opts, AlgorithmAMaxIterations(fc.Calculation.AlgorithmA.MaxIterations))
	}
	if fc.Calculation.CRM.Value != 0 || fc.Calculation.CRM.Uncertainty != 0 {
		opts = append(opts, CRMValue(fc.Calculation.CRM.Value, fc.Calculation.CRM.Uncertainty))
	}
	if fc.Calculation.Formulation.Value != 0 || fc.Calculation.Formulation.Uncertainty != 0 {
		opts = append(opts, FormulationValue(fc.Calculation.Formulation.Value, fc.Calculation.Formulation.Uncertainty))
	}
	if fc.Calculation.Expert.Value != 0 || fc.Calculation.Expert.Uncertainty != 0 {
		opts = append(opts, ExpertValue(fc.Calculation.Expert.Value, fc.Calculation.Expert.Uncertainty))
	}
	if fc.Reporting.RendererPath != "" {
		opts = append(opts, Renderer(fc.Reporting.RendererPath, fc.Reporting.TemplatePath, fc.Reporting.OutputFormat, fc.Reporting.OutputPath))
	}
	if fc.Telemetry.Enabled {
		opts = append(opts, TelemetryHost(fc.Telemetry.Host))
	}
	if fc.Telemetry.Insecure {
		opts = append(opts, TelemetryInsecure())
	}

	return opts, nil
}
