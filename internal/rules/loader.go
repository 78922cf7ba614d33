package rules

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Fr3nn3r/ZurichInnovation/internal/common"
)

//go:embed rules_detailed.json
var defaultRules []byte

// Default returns the embedded 18-criterion reference rule set.
func Default() (*Table, error) {
	return Parse(defaultRules)
}

// LoadFile reads and validates a rule table from a JSON file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load reads and validates a rule table from r.
func Load(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return Parse(raw)
}

// Parse validates raw JSON against the table schema and the per-type shape
// invariants. A single malformed entry fails the whole run; criteria are
// never silently skipped.
func Parse(raw []byte) (*Table, error) {
	if err := validateAgainstSchema(BuildTableJSONSchema(), raw); err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "rule table rejected by schema", err)
	}

	var criteria []Criterion
	if err := json.Unmarshal(raw, &criteria); err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "rule table unmarshal failed", err)
	}

	seen := make(map[int]bool, len(criteria))
	for _, c := range criteria {
		if seen[c.ID] {
			return nil, common.ConfigErrorf("duplicate criterion id %d", c.ID)
		}
		seen[c.ID] = true
		if err := validateShape(c); err != nil {
			return nil, err
		}
	}
	return newTable(criteria), nil
}

// validateAgainstSchema validates "data" against "schemaMap".
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
