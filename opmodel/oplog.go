package opmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OpLog is an ordered sequence of Ops. Order is not semantically
// significant on input — composition reorders — but OpLog preserves
// whatever order its constructor was given.
type OpLog struct {
	Ops []Op
}

// Validate checks the OpLog invariants from spec §3: every op has a
// non-empty id and symbolId, no two ops share an id, and schemaVersion is
// uniform across the log.
func (l OpLog) Validate() error {
	seen := make(map[string]struct{}, len(l.Ops))
	var version int
	for i, op := range l.Ops {
		if op.ID == "" {
			return fmt.Errorf("opmodel: op at index %d has an empty id", i)
		}
		if op.Target.SymbolID == "" {
			return fmt.Errorf("opmodel: op %s has an empty symbolId", op.ID)
		}
		if _, dup := seen[op.ID]; dup {
			return fmt.Errorf("opmodel: duplicate op id %q", op.ID)
		}
		seen[op.ID] = struct{}{}
		if i == 0 {
			version = op.SchemaVersion
		} else if op.SchemaVersion != version {
			return fmt.Errorf("opmodel: mixed schemaVersion in log: %d and %d", version, op.SchemaVersion)
		}
	}
	return nil
}

// ToJSON serializes the log as a JSON array of op dicts.
func (l OpLog) ToJSON() ([]byte, error) {
	items := make([]map[string]any, len(l.Ops))
	for i, op := range l.Ops {
		items[i] = op.ToDict()
	}
	return json.Marshal(items)
}

// OpLogFromJSON parses a JSON array of op dicts, rejecting any op whose
// schemaVersion is not [CurrentSchemaVersion].
func OpLogFromJSON(data []byte) (OpLog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return OpLog{}, fmt.Errorf("opmodel: malformed op log JSON: %w", err)
	}
	ops := make([]Op, 0, len(items))
	for i, item := range items {
		op, err := FromDict(item)
		if err != nil {
			return OpLog{}, fmt.Errorf("opmodel: op log item %d: %w", i, err)
		}
		if op.SchemaVersion != CurrentSchemaVersion {
			return OpLog{}, fmt.Errorf(
				"opmodel: op %s has unrecognized schemaVersion %d (want %d)",
				op.ID, op.SchemaVersion, CurrentSchemaVersion,
			)
		}
		ops = append(ops, op)
	}
	return OpLog{Ops: ops}, nil
}
