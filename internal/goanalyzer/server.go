package goanalyzer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jimmc414/semantic-merge/opmodel"
	"github.com/jimmc414/semantic-merge/snapshot"
)

// request and response mirror the envelope worker.Client writes and
// reads on the other end of the pipe.
type request struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int            `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}

type rpcError struct {
	Message string `json:"message"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

// Serve reads line-delimited JSON-RPC requests from r and writes
// responses to w until r is exhausted, the Go-native counterpart of the
// TypeScript worker bridge's readline loop.
func Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}
		resp := handle(req)
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func handle(req request) response {
	switch req.Method {
	case "buildAndDiff":
		return handleBuildAndDiff(req)
	case "diff":
		return handleDiff(req)
	default:
		return response{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Message: fmt.Sprintf("unknown method %q", req.Method)}}
	}
}

func handleBuildAndDiff(req request) response {
	base, err := snapshotFromParams(req.Params, "base")
	if err != nil {
		return errResponse(req.ID, err)
	}
	left, err := snapshotFromParams(req.Params, "left")
	if err != nil {
		return errResponse(req.ID, err)
	}
	right, err := snapshotFromParams(req.Params, "right")
	if err != nil {
		return errResponse(req.ID, err)
	}

	opLogLeft, opLogRight, symbolMaps, err := BuildAndDiff(base, left, right)
	if err != nil {
		return errResponse(req.ID, err)
	}

	return response{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{
		"opLogLeft":   opsToDicts(opLogLeft),
		"opLogRight":  opsToDicts(opLogRight),
		"symbolMaps":  symbolMaps,
		"diagnostics": []map[string]any{},
	}}
}

func handleDiff(req request) response {
	base, err := snapshotFromParams(req.Params, "base")
	if err != nil {
		return errResponse(req.ID, err)
	}
	right, err := snapshotFromParams(req.Params, "right")
	if err != nil {
		return errResponse(req.ID, err)
	}

	opLogRight, err := Diff(base, right)
	if err != nil {
		return errResponse(req.ID, err)
	}

	return response{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{
		"opLogRight": opsToDicts(opLogRight),
	}}
}

func errResponse(id int, err error) response {
	return response{JSONRPC: "2.0", ID: id, Error: &rpcError{Message: err.Error()}}
}

func opsToDicts(log opmodel.OpLog) []map[string]any {
	out := make([]map[string]any, len(log.Ops))
	for i, op := range log.Ops {
		out[i] = op.ToDict()
	}
	return out
}

func snapshotFromParams(params map[string]any, key string) (snapshot.Snapshot, error) {
	raw, ok := params[key]
	if !ok {
		return snapshot.Snapshot{}, fmt.Errorf("goanalyzer: missing %q param", key)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("goanalyzer: re-encoding %q param: %w", key, err)
	}
	var payload struct {
		Files []struct {
			Path    string `json:"path"`
			Content string `json:"content"`
		} `json:"files"`
		Project string `json:"project"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("goanalyzer: decoding %q param: %w", key, err)
	}
	snap := snapshot.Snapshot{Project: payload.Project, Files: make([]snapshot.File, len(payload.Files))}
	for i, f := range payload.Files {
		snap.Files[i] = snapshot.File{Path: f.Path, Content: f.Content}
	}
	return snap, nil
}
