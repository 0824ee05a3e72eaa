// Package worker implements the core's side of the line-delimited
// JSON-RPC 2.0 protocol spoken to a per-language analyzer subprocess.
// Ported from original_source/semmerge/lang/ts/bridge.py's TSWorker: no
// JSON-RPC library is used, since the wire format here is a single
// hand-rolled request/response line pair, the same scope the Python
// bridge covers with plain json.dumps/json.loads over subprocess pipes.
package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/jimmc414/semantic-merge/logx"
	"github.com/jimmc414/semantic-merge/opmodel"
	"github.com/jimmc414/semantic-merge/semmergeerrors"
	"github.com/jimmc414/semantic-merge/snapshot"
)

// ErrBackendNotImplemented matches (via errors.Is) the error every RPC
// returns when no command is registered for a language, mirroring the
// NotImplementedError raised
// by the C#/Java placeholder bridges in original_source/semmerge/lang.
var ErrBackendNotImplemented = semmergeerrors.ErrUnsupportedLanguage

// politeShutdownWait bounds how long Close waits for the worker to exit
// after a polite termination signal before escalating to a hard kill.
const politeShutdownWait = 2 * time.Second

// Client is a long-lived connection to one analyzer worker subprocess.
// The transport guarantees one outstanding request at a time.
type Client struct {
	language string
	command  []string
	logger   logx.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  *bufio.Writer
	stdout *bufio.Reader
	nextID int
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for lifecycle and diagnostic messages.
func WithLogger(logger logx.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient constructs a Client for language, launched via command when
// first used. An empty command means the language has no registered
// backend; BuildAndDiff and Diff then return an error matching
// ErrBackendNotImplemented.
func NewClient(language string, command []string, opts ...Option) *Client {
	c := &Client{language: language, command: command, logger: logx.NopLogger{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// buildAndDiffResult is the decoded shape of a buildAndDiff RPC result.
type buildAndDiffResult struct {
	OpLogLeft   []map[string]any `json:"opLogLeft"`
	OpLogRight  []map[string]any `json:"opLogRight"`
	SymbolMaps  map[string]any   `json:"symbolMaps"`
	Diagnostics []map[string]any `json:"diagnostics"`
}

// BuildAndDiff runs the buildAndDiff RPC over base/left/right snapshots.
func (c *Client) BuildAndDiff(ctx context.Context, base, left, right snapshot.Snapshot) (opLogLeft, opLogRight opmodel.OpLog, symbolMaps map[string]any, err error) {
	params := map[string]any{
		"base":   base.ToPayload(),
		"left":   left.ToPayload(),
		"right":  right.ToPayload(),
		"config": map[string]any{},
	}
	raw, err := c.rpc(ctx, "buildAndDiff", params)
	if err != nil {
		return opmodel.OpLog{}, opmodel.OpLog{}, nil, err
	}

	var result buildAndDiffResult
	if err := remarshal(raw, &result); err != nil {
		return opmodel.OpLog{}, opmodel.OpLog{}, nil, &semmergeerrors.ProtocolError{Method: "buildAndDiff", Message: "decoding result", Cause: err}
	}

	opLogLeft, err = opLogFromDicts(result.OpLogLeft)
	if err != nil {
		return opmodel.OpLog{}, opmodel.OpLog{}, nil, err
	}
	opLogRight, err = opLogFromDicts(result.OpLogRight)
	if err != nil {
		return opmodel.OpLog{}, opmodel.OpLog{}, nil, err
	}
	return opLogLeft, opLogRight, result.SymbolMaps, nil
}

// diffResult is the decoded shape of a diff RPC result.
type diffResult struct {
	OpLogRight []map[string]any `json:"opLogRight"`
}

// Diff runs the diff RPC over a base/right snapshot pair.
func (c *Client) Diff(ctx context.Context, base, right snapshot.Snapshot) (opmodel.OpLog, error) {
	params := map[string]any{"base": base.ToPayload(), "right": right.ToPayload()}
	raw, err := c.rpc(ctx, "diff", params)
	if err != nil {
		return opmodel.OpLog{}, err
	}

	var result diffResult
	if err := remarshal(raw, &result); err != nil {
		return opmodel.OpLog{}, &semmergeerrors.ProtocolError{Method: "diff", Message: "decoding result", Cause: err}
	}
	return opLogFromDicts(result.OpLogRight)
}

func opLogFromDicts(items []map[string]any) (opmodel.OpLog, error) {
	ops := make([]opmodel.Op, 0, len(items))
	for _, item := range items {
		op, err := opmodel.FromDict(item)
		if err != nil {
			return opmodel.OpLog{}, &semmergeerrors.ProtocolError{Message: "decoding op", Cause: err}
		}
		ops = append(ops, op)
	}
	return opmodel.OpLog{Ops: ops}, nil
}

func remarshal(src any, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// Close terminates the worker process, if running: polite signal
// followed by a bounded wait, escalating to a hard kill.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.cmd == nil || c.cmd.Process == nil {
		return nil
	}
	proc := c.cmd.Process
	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()

	_ = proc.Signal(syscall.SIGTERM)
	select {
	case <-done:
	case <-time.After(politeShutdownWait):
		c.logger.Warn("worker: polite shutdown timed out, killing", "language", c.language)
		_ = proc.Kill()
		<-done
	}
	c.cmd = nil
	c.stdin = nil
	c.stdout = nil
	return nil
}

func (c *Client) rpc(ctx context.Context, method string, params map[string]any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLocked(ctx); err != nil {
		return nil, err
	}

	c.nextID++
	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      c.nextID,
		"method":  method,
		"params":  params,
	}
	line, err := json.Marshal(request)
	if err != nil {
		return nil, &semmergeerrors.ProtocolError{Method: method, Message: "encoding request", Cause: err}
	}
	if _, err := c.stdin.Write(append(line, '\n')); err != nil {
		return nil, &semmergeerrors.ProtocolError{Method: method, Message: "writing request", Cause: err}
	}
	if err := c.stdin.Flush(); err != nil {
		return nil, &semmergeerrors.ProtocolError{Method: method, Message: "flushing request", Cause: err}
	}

	for {
		raw, err := c.stdout.ReadString('\n')
		if err != nil {
			return nil, &semmergeerrors.ProtocolError{Method: method, Message: "worker exited before responding", Cause: err}
		}
		trimmed := trimNewline(raw)
		if trimmed == "" {
			continue
		}
		var envelope map[string]any
		if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
			return nil, &semmergeerrors.ProtocolError{Method: method, Message: "malformed JSON from worker", Cause: err}
		}
		if errPayload, ok := envelope["error"]; ok {
			return nil, &semmergeerrors.ProtocolError{Method: method, Message: fmt.Sprintf("worker error: %v", errPayload)}
		}
		return envelope["result"], nil
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func (c *Client) ensureLocked(ctx context.Context) error {
	if c.cmd != nil && c.cmd.ProcessState == nil {
		return nil
	}
	if len(c.command) == 0 {
		return &semmergeerrors.UnsupportedLanguageError{Language: c.language}
	}

	c.logger.Debug("worker: starting", "language", c.language, "command", c.command)
	cmd := exec.CommandContext(ctx, c.command[0], c.command[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &semmergeerrors.ProtocolError{Message: "opening worker stdin", Cause: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &semmergeerrors.ProtocolError{Message: "opening worker stdout", Cause: err}
	}
	if err := cmd.Start(); err != nil {
		return &semmergeerrors.ProtocolError{Message: "starting worker process", Cause: err}
	}

	c.cmd = cmd
	c.stdin = bufio.NewWriter(stdin)
	c.stdout = bufio.NewReader(stdout)
	c.nextID = 0
	return nil
}
