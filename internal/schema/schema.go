// Package schema compiles the embedded JSON Schemas for the wire envelopes
// and validates raw payloads before they are decoded. Consumers treat
// handoffs and results as opaque, validated-on-read JSON values.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed *.schema.json
var schemaFS embed.FS

// Schemas are registered under absolute mem:// URIs so that $ref resolution
// between them never falls back to the compiler's filesystem loader.
const (
	ProposalSchema = "mem://townreeve/proposal.schema.json"
	HandoffSchema  = "mem://townreeve/handoff.schema.json"
	ResultSchema   = "mem://townreeve/result.schema.json"
)

var compiled = mustCompileSchemas()

func mustCompileSchemas() map[string]*jsonschema.Schema {
	c := jsonschema.NewCompiler()
	files := map[string]string{
		ProposalSchema: "proposal.schema.json",
		HandoffSchema:  "handoff.schema.json",
		ResultSchema:   "result.schema.json",
	}
	for name, file := range files {
		raw, err := schemaFS.ReadFile(file)
		if err != nil {
			panic(fmt.Sprintf("schema: read %s: %v", name, err))
		}
		if err := c.AddResource(name, bytes.NewReader(raw)); err != nil {
			panic(fmt.Sprintf("schema: add %s: %v", name, err))
		}
	}
	out := make(map[string]*jsonschema.Schema, 3)
	for _, name := range []string{ProposalSchema, HandoffSchema, ResultSchema} {
		s, err := c.Compile(name)
		if err != nil {
			panic(fmt.Sprintf("schema: compile %s: %v", name, err))
		}
		out[name] = s
	}
	return out
}

// Validate checks raw JSON against one of the named envelope schemas.
func Validate(name string, raw []byte) error {
	s, ok := compiled[name]
	if !ok {
		return fmt.Errorf("schema: unknown schema %q", name)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("schema: decode: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("schema: %s: %w", name, err)
	}
	return nil
}
