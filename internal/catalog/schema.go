package catalog

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

// SchemaError reports a catalog document that does not satisfy the schema.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValidateSchema checks a YAML catalog document against the embedded CUE
// schema: closed structs, known enum values, upper-case construction ids
// and at least one construction id per pattern.
//
// Regular expressions are not compiled here; Load does that.
func ValidateSchema(data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Catalog"))
	if !def.Exists() {
		return fmt.Errorf("catalog schema: #Catalog not defined")
	}

	if err := cueyaml.Validate(data, def); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}
