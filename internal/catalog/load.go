package catalog

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/aftermath/internal/gameerr"
)

//go:embed mod.schema.json
var modSchema string

// LoadOptions controls how a mod file is read.
type LoadOptions struct {
	// ValidateSchema checks the document against the embedded JSON schema
	// before building.
	ValidateSchema bool
}

// Load reads a YAML mod file and builds its catalog.
func Load(path string, opts LoadOptions) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mod file: %w", err)
	}
	return Parse(data, opts)
}

// Parse builds a catalog from YAML bytes and records their digest.
func Parse(data []byte, opts LoadOptions) (*Catalog, error) {
	if opts.ValidateSchema {
		if err := ValidateDocument(data); err != nil {
			return nil, err
		}
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, gameerr.WrapValidation("failed to parse mod file", err)
	}

	c, err := Build(&doc)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	c.mu.Lock()
	c.digest = hex.EncodeToString(sum[:])
	c.mu.Unlock()
	return c, nil
}

// ValidateDocument checks raw YAML against the mod schema. The YAML is
// normalized through JSON so the validator sees JSON value types.
func ValidateDocument(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return gameerr.WrapInternal("compile mod schema", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return gameerr.WrapValidation("failed to parse mod file", err)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return gameerr.WrapValidation("mod file is not representable as JSON", err)
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return gameerr.WrapValidation("mod file is not representable as JSON", err)
	}
	if err := schema.Validate(normalized); err != nil {
		return gameerr.WrapValidation("mod file failed schema validation", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("mod.schema.json", modSchema)
}
