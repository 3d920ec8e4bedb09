package finance

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const shapeSchema = `{
  "type": "object",
  "required": ["Metrics", "Segments", "Ratios", "Company Name", "Summary"],
  "properties": {
    "Metrics": {"type": "object", "additionalProperties": {"type": "string"}},
    "Segments": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["Revenue", "EBIT"],
        "properties": {
          "Revenue": {"type": "string"},
          "EBIT": {"type": "string"}
        }
      }
    },
    "Ratios": {"type": "object", "additionalProperties": {"type": "string"}},
    "Company Name": {"type": "string"},
    "Summary": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 2,
      "maxItems": 2
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", strings.NewReader(shapeSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("record.json")
	})
	return schema, schemaErr
}

// CheckShape compares the JSON object in raw model output against the
// requested response shape and returns one line per deviation. The result
// is diagnostic only; ParseStructured tolerates every deviation it reports.
func CheckShape(raw string) []string {
	span, ok := ExtractJSONSpan(raw)
	if !ok {
		return []string{"no JSON object found"}
	}
	var v any
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return []string{fmt.Sprintf("invalid JSON: %v", err)}
	}
	s, err := compiledSchema()
	if err != nil {
		return []string{err.Error()}
	}
	err = s.Validate(v)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}

	var out []string
	collectCauses(verr, &out)
	sort.Strings(out)
	return out
}

func collectCauses(e *jsonschema.ValidationError, out *[]string) {
	if len(e.Causes) == 0 {
		loc := e.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, loc+": "+e.Message)
		return
	}
	for _, c := range e.Causes {
		collectCauses(c, out)
	}
}
