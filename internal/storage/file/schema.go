package file

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed property.schema.json
var schemaSrc string

var propertySchema = jsonschema.MustCompileString("property.schema.json", schemaSrc)

// decodeDocument turns a JSON or YAML file into the generic shape the
// validator and the mappers work on.
func decodeDocument(b []byte, isYAML bool) (map[string]any, error) {
	if isYAML {
		var y any
		if err := yaml.Unmarshal(b, &y); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		// round-trip through JSON so numbers and maps look the same as for .json files
		jb, err := json.Marshal(y)
		if err != nil {
			return nil, fmt.Errorf("yaml to json: %w", err)
		}
		b = jb
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document is %T, want object", doc)
	}
	return m, nil
}

func validate(doc map[string]any) error {
	if err := propertySchema.Validate(doc); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
