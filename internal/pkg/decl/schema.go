package decl

import (
	_ "embed"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed declaration.schema.json
var schemaData []byte

var compiled *jsonschema.Schema

func init() {
	var err error
	compiled, err = jsonschema.CompileString("declaration.schema.json", string(schemaData))
	if err != nil {
		panic(fmt.Errorf("compile declaration schema: %w", err))
	}
}

// Validate checks a decoded JSON document against the declaration schema.
func Validate(doc interface{}) error {
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("%w: validate declaration: %w", errdefs.ErrInvalidArgument, err)
	}
	return nil
}
