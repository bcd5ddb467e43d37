// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// defaultBridge is the aggregation engine executable looked up on PATH.
const defaultBridge = "tximport-bridge"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Bridge implements Aggregator by invoking the tximport bridge executable.
// The bridge takes the abundance file, a tx2gene table written to a
// temporary file, and the matching flags, and prints the aggregated
// matrices as JSON on stdout.
type Bridge struct {
	command string
	exec    executor
}

// NewBridge creates a Bridge running the given executable, or the default
// bridge when command is empty. It verifies the executable is on PATH.
func NewBridge(command string) (*Bridge, error) {
	return newBridge(command, &osExecutor{})
}

func newBridge(command string, exec executor) (*Bridge, error) {
	if command == "" {
		command = defaultBridge
	}
	if _, err := exec.LookPath(command); err != nil {
		return nil, fmt.Errorf("aggregator executable %q not found: %w", command, err)
	}
	return &Bridge{command: command, exec: exec}, nil
}

// Aggregate runs the bridge and decodes its output. The tx2gene table is
// handed over as a temporary file that is removed when the call returns.
func (b *Bridge) Aggregate(ctx context.Context, req Request) (Result, error) {
	tmp, err := os.CreateTemp("", "tx2gene-*.tsv")
	if err != nil {
		return Result{}, fmt.Errorf("creating tx2gene temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := req.Mapping.WriteFile(tmpPath); err != nil {
		return Result{}, err
	}

	args := []string{
		"--quant", req.QuantPath,
		"--tx2gene", tmpPath,
		"--tool", string(req.Tool),
	}
	if req.TxOut {
		args = append(args, "--tx-out")
	}
	if req.IgnoreTxVersion {
		args = append(args, "--ignore-tx-version")
	}

	var stdout, stderr bytes.Buffer
	if err := b.exec.Run(ctx, b.command, args, &stdout, &stderr); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return Result{}, fmt.Errorf("aggregating %s: %w: %s", req.QuantPath, err, msg)
		}
		return Result{}, fmt.Errorf("aggregating %s: %w", req.QuantPath, err)
	}

	var res Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return Result{}, fmt.Errorf("decoding aggregator output for %s: %w", req.QuantPath, err)
	}
	return res, nil
}
