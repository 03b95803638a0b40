package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pt-lab/isopt/internal/config"
	"github.com/pt-lab/isopt/internal/events"
	"github.com/pt-lab/isopt/internal/render"
	"github.com/pt-lab/isopt/internal/telemetry"
	"github.com/pt-lab/isopt/pkg/ptcore"
	"github.com/pt-lab/isopt/pkg/validate"
)

// Exit codes, matching spec's exit code contract: 0 success, 1
// structural error (any §7 kind other than a renderer failure), 2
// RendererFailed.
const (
	ExitSuccess         = 0
	ExitStructuralError = 1
	ExitRendererFailed  = 2
)

// Run executes an already-parsed Invocation and returns the process
// exit code to use.
func Run(ctx InvocationContext, inv Invocation) int {
	ctx.Verbose = ctx.Verbose || inv.Verbose

	cfg, err := config.New(inv.Options...)
	if err != nil {
		fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
		return ExitStructuralError
	}

	switch inv.Command {
	case "validate":
		return runValidate(ctx, cfg, inv.Args)
	case "calculate":
		return runCalculate(ctx, cfg, inv)
	case "report-only":
		return runReportOnly(ctx, cfg, inv.Args)
	default:
		fmt.Fprintf(ctx.Stderr, "isopt: unknown subcommand %q\n", inv.Command)
		return ExitStructuralError
	}
}

// InvocationContext carries the I/O streams and verbosity flag a
// subcommand needs, isolated from global state so tests can capture
// output.
type InvocationContext struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Verbose bool
}

func runValidate(ctx InvocationContext, cfg *config.Config, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(ctx.Stderr, "isopt validate: expected exactly one input file argument")
		return ExitStructuralError
	}

	rows, err := readCSV(args[0])
	if err != nil {
		fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
		return ExitStructuralError
	}

	mapping := validate.ColumnMapping{
		IDCol:          cfg.InputData.IDCol,
		ResultCol:      cfg.InputData.ResultCol,
		UncertaintyCol: cfg.InputData.UncertaintyCol,
	}

	result, err := validate.Validate(rows, mapping)
	if err != nil {
		fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
		return ExitStructuralError
	}

	fmt.Fprintf(ctx.Stdout, "validated %d rows, %d dropped\n", result.Dataset.Len(), len(result.DroppedRows))
	return ExitSuccess
}

func runCalculate(ctx InvocationContext, cfg *config.Config, inv Invocation) int {
	if len(inv.Args) != 1 {
		fmt.Fprintln(ctx.Stderr, "isopt calculate: expected exactly one input file argument")
		return ExitStructuralError
	}

	rows, err := readCSV(inv.Args[0])
	if err != nil {
		fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
		return ExitStructuralError
	}

	mapping := validate.ColumnMapping{
		IDCol:          cfg.InputData.IDCol,
		ResultCol:      cfg.InputData.ResultCol,
		UncertaintyCol: cfg.InputData.UncertaintyCol,
	}

	result, err := validate.Validate(rows, mapping)
	if err != nil {
		fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
		return ExitStructuralError
	}

	roundID := roundIDFromPath(inv.Args[0])

	bus := events.New()
	logCh, logDone := bus.Subscribe()
	go events.NewConsoleLogger(ctx.Stderr).Run(logCh, logDone)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Shutdown(shutdownCtx)
	}()

	for _, d := range result.DroppedRows {
		events.PublishRowDropped(bus, roundID, d.Index, d.Reason)
	}

	method := ptcore.Method(cfg.Calculation.Method)
	var sigmaPt *float64
	if cfg.Calculation.SigmaPt > 0 {
		v := cfg.Calculation.SigmaPt
		sigmaPt = &v
	}

	supplied := suppliedValueFor(cfg, method)
	if inv.SuppliedValue != nil {
		u := 0.0
		if inv.SuppliedUncertainty != nil {
			u = *inv.SuppliedUncertainty
		} else if supplied != nil {
			u = supplied.Uncertainty
		}
		supplied = &ptcore.SuppliedValue{Value: *inv.SuppliedValue, Uncertainty: u}
	}

	rec, err := ptcore.RunRound(
		result.Dataset,
		sigmaPt,
		result.DroppedRows,
		method,
		ptcore.AlgorithmAParams{
			Tolerance:     cfg.Calculation.AlgorithmA.Tolerance,
			MaxIterations: cfg.Calculation.AlgorithmA.MaxIterations,
		},
		supplied,
	)
	if err != nil {
		events.PublishRoundFailed(bus, roundID, err)
		fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
		return ExitStructuralError
	}

	if rec.Converged != nil && !*rec.Converged && rec.Iterations != nil {
		events.PublishNonConverged(bus, roundID, *rec.Iterations)
	}
	events.PublishRoundComputed(bus, roundID, string(rec.Method))

	if cfg.Telemetry.Enabled {
		go sendTelemetry(cfg, roundID, rec)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
		return ExitStructuralError
	}
	fmt.Fprintln(ctx.Stdout, string(data))

	if cfg.Reporting.RendererPath != "" {
		if err := renderResults(cfg, data); err != nil {
			fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
			return ExitRendererFailed
		}
	}

	return ExitSuccess
}

func runReportOnly(ctx InvocationContext, cfg *config.Config, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(ctx.Stderr, "isopt report-only: expected exactly one results-record JSON file argument")
		return ExitStructuralError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
		return ExitStructuralError
	}

	var rec ptcore.ResultsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
		return ExitStructuralError
	}

	if err := renderResults(cfg, data); err != nil {
		fmt.Fprintln(ctx.Stderr, formatError(err, ctx.Verbose))
		return ExitRendererFailed
	}
	return ExitSuccess
}

func renderResults(cfg *config.Config, resultsRecordJSON []byte) error {
	tmp, err := os.CreateTemp("", "isopt-results-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(resultsRecordJSON); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	r := render.New(cfg.Reporting.RendererPath)
	return r.Render(
		nil,
		cfg.Reporting.TemplatePath,
		tmp.Name(),
		cfg.Reporting.OutputFormat,
		cfg.Reporting.OutputPath,
	)
}

// roundIDFromPath derives a stable round identifier from the input
// file's base name (extension stripped) when no other identifier is
// available. It is a display/telemetry convenience, not a domain
// concept the statistical core has any notion of.
func roundIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sendTelemetry ships a privacy-preserving RoundSummary for rec to the
// configured collector. It never fails the calculate invocation that
// triggered it — send failures go to an ErrorReporter instead.
func sendTelemetry(cfg *config.Config, roundID string, rec ptcore.ResultsRecord) {
	summary := ptcore.Summarize(roundID, rec, time.Now().Unix())

	reporter := telemetry.New(
		telemetry.Config{Host: cfg.Telemetry.Host, Insecure: cfg.Telemetry.Insecure},
		telemetry.NoopErrorReporter{},
	)
	reporter.Send(summary)
	reporter.Wait()
}

func suppliedValueFor(cfg *config.Config, method ptcore.Method) *ptcore.SuppliedValue {
	switch method {
	case ptcore.MethodCRM:
		return &ptcore.SuppliedValue{Value: cfg.Calculation.CRM.Value, Uncertainty: cfg.Calculation.CRM.Uncertainty}
	case ptcore.MethodFormulation:
		return &ptcore.SuppliedValue{Value: cfg.Calculation.Formulation.Value, Uncertainty: cfg.Calculation.Formulation.Uncertainty}
	case ptcore.MethodExpert:
		return &ptcore.SuppliedValue{Value: cfg.Calculation.Expert.Value, Uncertainty: cfg.Calculation.Expert.Uncertainty}
	default:
		return nil
	}
}

func readCSV(path string) ([]validate.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}

	var rows []validate.Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(validate.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// detailer is implemented by the ptcore error kinds that carry the
// offending cell content behind their row number (NegativeUncertainty,
// NonFiniteResult, NonFiniteUncertainty, EmptyID).
type detailer interface {
	Detail() string
}

// formatError maps a core error to the single-line message the CLI
// surfaces. In verbose mode it appends the offending row/value detail
// for error kinds that carry one; kinds with nothing beyond their
// Error() string (MissingColumn, EmptyDataset, ...) are left alone
// rather than having their message echoed back a second time.
func formatError(err error, verbose bool) string {
	msg := fmt.Sprintf("isopt: %s", err.Error())
	if !verbose {
		return msg
	}
	if d, ok := err.(detailer); ok {
		return fmt.Sprintf("%s (%s)", msg, d.Detail())
	}
	return msg
}
