// Package schema provides utilities for working with JSON schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/yeisme/grumpy/pkg/configs"
	"github.com/yeisme/grumpy/pkg/models"
)

func write(out io.Writer, s *jsonschema.Schema) error {
	schemaJSON, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(schemaJSON))
	return err
}

// GenRulesSchema generates the JSON schema for the custom rules file and writes it to the provided writer.
func GenRulesSchema(out io.Writer) error {
	reflector := &jsonschema.Reflector{
		FieldNameTag:               "toml",
		RequiredFromJSONSchemaTags: true,
	}
	return write(out, reflector.Reflect(&models.RuleSet{}))
}

// GenConfigSchema generates the JSON schema for the entire application configuration and writes it to the provided writer.
func GenConfigSchema(out io.Writer) error {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "mapstructure",
	}
	return write(out, reflector.Reflect(&configs.Config{}))
}
