package opmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ToDict renders op as a plain map, matching the wire shape in spec §3:
// id, schemaVersion, type, target{symbolId, addressId}, params, guards,
// effects, provenance.
func (op Op) ToDict() map[string]any {
	return map[string]any{
		"id":            op.ID,
		"schemaVersion": op.SchemaVersion,
		"type":          string(op.Type),
		"target": map[string]any{
			"symbolId":  op.Target.SymbolID,
			"addressId": op.Target.AddressID,
		},
		"params":  cloneAnyMap(op.Params),
		"guards":  cloneAnyMap(op.Guards),
		"effects": cloneAnyMap(op.Effects),
		"provenance": map[string]any{
			"timestamp": op.Provenance.Timestamp,
			"author":    op.Provenance.Author,
			"commit":    op.Provenance.Commit,
		},
	}
}

// FromDict reconstructs an Op from the map shape produced by [Op.ToDict].
// Unknown top-level keys are stripped, not preserved — the documented
// choice for the spec's open question, matching the behavior of the
// original Python implementation's Op.from_dict, which only ever reads
// the fields it knows about.
func FromDict(data map[string]any) (Op, error) {
	id, _ := data["id"].(string)
	if id == "" {
		return Op{}, fmt.Errorf("opmodel: op is missing a non-empty id")
	}

	schemaVersion := CurrentSchemaVersion
	if raw, ok := data["schemaVersion"]; ok {
		v, err := toInt(raw)
		if err != nil {
			return Op{}, fmt.Errorf("opmodel: schemaVersion: %w", err)
		}
		schemaVersion = v
	}

	typ, _ := data["type"].(string)
	if typ == "" {
		return Op{}, fmt.Errorf("opmodel: op %s is missing a type", id)
	}

	target, err := targetFromDict(data["target"])
	if err != nil {
		return Op{}, fmt.Errorf("opmodel: op %s: %w", id, err)
	}
	if target.SymbolID == "" {
		return Op{}, fmt.Errorf("opmodel: op %s is missing a non-empty symbolId", id)
	}

	provenance := provenanceFromDict(data["provenance"])

	return Op{
		ID:            id,
		SchemaVersion: schemaVersion,
		Type:          Kind(typ),
		Target:        target,
		Params:        anyMapFrom(data["params"]),
		Guards:        anyMapFrom(data["guards"]),
		Effects:       anyMapFrom(data["effects"]),
		Provenance:    provenance,
	}, nil
}

func targetFromDict(raw any) (Target, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Target{}, fmt.Errorf("target must be an object")
	}
	symbolID, _ := m["symbolId"].(string)
	addressID, _ := m["addressId"].(string)
	return Target{SymbolID: symbolID, AddressID: addressID}, nil
}

func provenanceFromDict(raw any) Provenance {
	m, ok := raw.(map[string]any)
	if !ok {
		return Provenance{}
	}
	timestamp, _ := m["timestamp"].(string)
	author, _ := m["author"].(string)
	commit, _ := m["commit"].(string)
	return Provenance{Timestamp: timestamp, Author: author, Commit: commit}
}

func anyMapFrom(raw any) map[string]any {
	m, ok := raw.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return cloneAnyMap(m)
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		return int(i), err
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
}

// ToJSON marshals op via its dict representation so JSON round-trips
// through the same path as [Op.ToDict]/[FromDict].
func (op Op) ToJSON() ([]byte, error) {
	return json.Marshal(op.ToDict())
}

// OpFromJSON is the inverse of [Op.ToJSON].
func OpFromJSON(data []byte) (Op, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Op{}, fmt.Errorf("opmodel: malformed op JSON: %w", err)
	}
	return FromDict(raw)
}
