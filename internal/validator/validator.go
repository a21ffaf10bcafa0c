// Package validator checks design snapshots against the embedded CUE
// schema. Consumers of `svmodel dump` output rely on this shape, so a
// snapshot that fails validation is a bug in the model or the schema.
package validator

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource []byte

// Definition names a top-level schema definition.
type Definition string

const (
	Snapshot   Definition = "#Snapshot"
	Module     Definition = "#Module"
	Diagnostic Definition = "#Diagnostic"
)

// Validator validates JSON values against one schema definition.
type Validator struct {
	ctx *cue.Context
	def cue.Value
}

// New compiles the embedded schema and selects the #Snapshot definition.
func New() (*Validator, error) {
	return NewFor(Snapshot)
}

// NewFor compiles the embedded schema and selects def.
func NewFor(def Definition) (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	v := schema.LookupPath(cue.ParsePath(string(def)))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("looking up %s: %w", def, err)
	}
	return &Validator{ctx: ctx, def: v}, nil
}

// Validate marshals data to JSON and checks it against the schema.
func (v *Validator) Validate(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling data to JSON: %w", err)
	}
	return v.ValidateJSON(raw)
}

// ValidateJSON checks encoded JSON against the schema.
func (v *Validator) ValidateJSON(raw []byte) error {
	value, err := v.unify(raw)
	if err != nil {
		return err
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Errors returns every validation error for data, one message per
// failing field. It returns nil when data is valid.
func (v *Validator) Errors(data any) []string {
	raw, err := json.Marshal(data)
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}
	value, err := v.unify(raw)
	if err != nil {
		return []string{err.Error()}
	}
	err = value.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}
	var msgs []string
	for _, e := range cueerrors.Errors(err) {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

func (v *Validator) unify(raw []byte) (cue.Value, error) {
	data := v.ctx.CompileBytes(raw, cue.Filename("input.json"))
	if err := data.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compiling JSON as CUE: %w", err)
	}
	return v.def.Unify(data), nil
}
