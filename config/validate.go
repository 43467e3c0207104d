package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://spectral.local/config.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString(schemaURL, schemaJSON)
	})
	return schema, schemaErr
}

// Validate checks the configuration against the embedded JSON schema.
// Semantic checks that need derived values run in computeDerived.
func (c *Config) Validate() error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	doc, err := c.document()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", ErrInvalid, flatten(verr))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// document renders the config as a generic JSON value keyed by the YAML
// field names, which is what the schema describes.
func (c *Config) document() (any, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("re-reading config: %w", err)
	}
	// Round-trip through encoding/json so numbers arrive as float64.
	buf, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return doc, nil
}

// flatten reports the leaf causes of a validation error, one per line.
func flatten(verr *jsonschema.ValidationError) string {
	if len(verr.Causes) == 0 {
		return fmt.Sprintf("%s: %s", verr.InstanceLocation, verr.Message)
	}
	var out string
	for i, cause := range verr.Causes {
		if i > 0 {
			out += "; "
		}
		out += flatten(cause)
	}
	return out
}
