package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConfigRecord is the parsed content of an uploaded configuration file: an
// arbitrary string-keyed tree with no fixed schema. It is read-only input to
// rule evaluation; every field is optional.
type ConfigRecord map[string]any

// ParseConfigRecord decodes raw JSON bytes into a ConfigRecord. The document
// root must be a JSON object.
func ParseConfigRecord(data []byte) (ConfigRecord, error) {
	var record ConfigRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing configuration document: %w", err)
	}
	return record, nil
}

// Get resolves a dotted path (e.g. "database.password") against the record.
// It returns the value and true when every segment resolves. A missing key,
// or an intermediate value that is not an object, reads as absent rather
// than an error; rules treat absence as "not applicable".
func (c ConfigRecord) Get(path string) (any, bool) {
	var current any = map[string]any(c)

	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// StringValue renders a configuration value in its string form. Non-string
// values (numbers, booleans) are stringified rather than rejected, matching
// how secret-like fields are checked.
func StringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
