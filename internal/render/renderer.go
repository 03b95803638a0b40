// Package render shells out to an external report renderer binary that
// turns a results record JSON file into a formatted report (PDF, HTML,
// or DOCX). The renderer contract is: invoke it with the template path,
// results record path, format, and output path as positional arguments;
// a non-zero exit means the render failed and stderr explains why.
package render

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// RendererFailed reports a non-zero exit from the configured renderer
// binary, carrying its captured stderr for diagnosis.
type RendererFailed struct {
	Stderr string
}

func (e RendererFailed) Error() string {
	return fmt.Sprintf("renderer failed: %s", e.Stderr)
}

// Renderer invokes a single external binary to produce a report.
type Renderer struct {
	BinaryPath string
}

// New returns a Renderer bound to the given binary path.
func New(binaryPath string) *Renderer {
	return &Renderer{BinaryPath: binaryPath}
}

// Render runs the renderer binary against a results record file,
// producing outputPath in the requested format. A nil ctx runs the
// renderer without a deadline.
func (r *Renderer) Render(ctx context.Context, templatePath, resultsRecordPath, format, outputPath string) error {
	if r.BinaryPath == "" {
		return fmt.Errorf("render: no renderer binary configured")
	}

	args := []string{templatePath, resultsRecordPath, format, outputPath}

	var cmd *exec.Cmd
	if ctx != nil {
		cmd = exec.CommandContext(ctx, r.BinaryPath, args...)
	} else {
		cmd = exec.Command(r.BinaryPath, args...)
	}

	stdoutReader, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderrReader, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	var stderrBuf bytes.Buffer
	stdoutScanner := bufio.NewScanner(stdoutReader)
	stderrScanner := bufio.NewScanner(stderrReader)

	done := make(chan struct{})
	go func() {
		for stdoutScanner.Scan() {
			// Renderer stdout is diagnostic chatter only; the report
			// itself is written to outputPath.
		}
		close(done)
	}()

	stderrDone := make(chan struct{})
	go func() {
		for stderrScanner.Scan() {
			stderrBuf.Write(stderrScanner.Bytes())
			stderrBuf.WriteByte('\n')
		}
		close(stderrDone)
	}()

	if err := cmd.Start(); err != nil {
		return err
	}

	<-done
	<-stderrDone

	if err := cmd.Wait(); err != nil {
		return RendererFailed{Stderr: stderrBuf.String()}
	}

	return nil
}
