// Package cli implements the three round-lifecycle subcommands
// (validate, calculate, report-only) exposed to a human or script
// operator, and maps every error kind of the statistical core onto a
// stable process exit code.
package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/pt-lab/isopt/internal/config"
)

// Invocation is a fully parsed command line: the subcommand, its
// positional arguments, and the configuration options collected from
// both an optional config file and CLI flags, applied in that order so
// flags always win.
type Invocation struct {
	Command string
	Args    []string
	Options []config.Option

	// SuppliedValue and SuppliedUncertainty carry the --supplied-value
	// and --supplied-uncertainty flags verbatim. They apply to whatever
	// method the resolved Config ends up selecting, so they cannot be
	// folded into a config.Option the way method-specific CRM/
	// Formulation/Expert blocks are.
	SuppliedValue       *float64
	SuppliedUncertainty *float64

	Verbose bool
}

// createFlagSet builds the pflag.FlagSet shared by every subcommand.
func createFlagSet() *pflag.FlagSet {
	pf := pflag.NewFlagSet("isopt", pflag.ContinueOnError)
	pf.Usage = func() {
		fmt.Printf("Usage of isopt:\nisopt <validate|calculate|report-only> [options] <input-file>\n")
		fmt.Printf("\n%s", pf.FlagUsagesWrapped(10))
	}

	pf.StringP("config", "c", "", "Use YAML configuration file")
	pf.String("id-col", "", "Name of the participant id column")
	pf.String("result-col", "", "Name of the result column")
	pf.String("uncertainty-col", "", "Name of the optional uncertainty column")
	pf.String("method", "", "Assigned-value method: A, CRM, Formulation, Expert")
	pf.Float64("sigma-pt", 0, "Fitness-for-purpose standard deviation for z-scores")
	pf.Float64("tolerance", 0, "Algorithm A convergence tolerance")
	pf.Int("max-iterations", 0, "Algorithm A iteration cap")
	pf.Float64("supplied-value", 0, "Supplied assigned value for non-A methods")
	pf.Float64("supplied-uncertainty", 0, "Supplied assigned uncertainty for non-A methods")
	pf.String("renderer", "", "Path to the external report renderer binary")
	pf.String("template", "", "Report template path")
	pf.String("format", "", "Report output format: pdf, html, docx")
	pf.String("output", "", "Report output path")
	pf.String("results-record", "", "Path to a results record JSON file (report-only)")
	pf.Bool("verbose", false, "Append offending row/value detail to error messages")

	return pf
}

// Parse parses args (excluding the program name) into an Invocation.
// The first positional argument is the subcommand; the remainder are
// passed through to that subcommand.
func Parse(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{}, fmt.Errorf("isopt: no subcommand given")
	}

	command := args[0]
	pf := createFlagSet()

	if err := pf.Parse(args[1:]); err != nil {
		return Invocation{}, err
	}

	opts, err := optionsFromFlags(pf)
	if err != nil {
		return Invocation{}, err
	}

	inv := Invocation{
		Command: command,
		Args:    pf.Args(),
		Options: opts,
	}

	if pf.Changed("supplied-value") {
		v, _ := pf.GetFloat64("supplied-value")
		inv.SuppliedValue = &v
	}
	if pf.Changed("supplied-uncertainty") {
		v, _ := pf.GetFloat64("supplied-uncertainty")
		inv.SuppliedUncertainty = &v
	}
	if pf.Changed("results-record") && len(inv.Args) == 0 {
		v, _ := pf.GetString("results-record")
		inv.Args = []string{v}
	}
	inv.Verbose, _ = pf.GetBool("verbose")

	return inv, nil
}

func optionsFromFlags(pf *pflag.FlagSet) ([]config.Option, error) {
	var opts []config.Option

	if v, _ := pf.GetString("config"); v != "" {
		fileOpts, err := config.FromFile(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOpts...)
	}

	if v, _ := pf.GetString("id-col"); v != "" {
		opts = append(opts, config.IDCol(v))
	}
	if v, _ := pf.GetString("result-col"); v != "" {
		opts = append(opts, config.ResultCol(v))
	}
	if v, _ := pf.GetString("uncertainty-col"); v != "" {
		opts = append(opts, config.UncertaintyCol(v))
	}
	if v, _ := pf.GetString("method"); v != "" {
		opts = append(opts, config.Method(v))
	}
	if pf.Changed("sigma-pt") {
		v, _ := pf.GetFloat64("sigma-pt")
		opts = append(opts, config.SigmaPt(v))
	}
	if pf.Changed("tolerance") {
		v, _ := pf.GetFloat64("tolerance")
		opts = append(opts, config.AlgorithmATolerance(v))
	}
	if pf.Changed("max-iterations") {
		v, _ := pf.GetInt("max-iterations")
		opts = append(opts, config.AlgorithmAMaxIterations(v))
	}
	if v, _ := pf.GetString("renderer"); v != "" {
		template, _ := pf.GetString("template")
		format, _ := pf.GetString("format")
		output, _ := pf.GetString("output")
		opts = append(opts, config.Renderer(v, template, format, output))
	}

	return opts, nil
}
