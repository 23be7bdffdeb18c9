package compendium

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Book identifies the source book a page belongs to
type Book struct {
	Name   string `json:"name"`
	ItemID string `json:"itemId"`
}

// Page is one compendium page as returned by the source
type Page struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Properties PropertyBag `json:"properties"`
	Book       Book        `json:"book"`
}

// Record is one atomic unit of authored content from a page's modern
// "datarecord" format. Payload is a JSON string whose decoded form carries a
// type tag selecting its semantics. Parent linkage is by name, not id.
type Record struct {
	Name    string `json:"name"`
	Level   int    `json:"level,omitempty"`
	Parent  string `json:"parent,omitempty"`
	Payload string `json:"payload"`
}

// UnmarshalJSON tolerates the level arriving as a number or a numeric
// string, and the payload arriving inline as an object instead of a string
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    string          `json:"name"`
		Level   json.RawMessage `json:"level"`
		Parent  string          `json:"parent"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Name = raw.Name
	r.Parent = raw.Parent
	r.Level = decodeLevel(raw.Level)

	if len(raw.Payload) > 0 {
		var s string
		if err := json.Unmarshal(raw.Payload, &s); err == nil {
			r.Payload = s
		} else {
			r.Payload = string(raw.Payload)
		}
	}
	return nil
}

// decodeLevel parses a level that may be a number, a numeric string, or
// absent. Anything unparseable comes back as 0, which level maps exclude.
func decodeLevel(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return 0
}

// Property keys with special meaning on a page
const (
	// PropertyPayload holds a pre-baked native payload for the page
	PropertyPayload = "data-payload"
	// PropertyRecords holds the modern datarecord array
	PropertyRecords = "data-datarecords"
)

// PropertyBag is a page's raw property map
type PropertyBag map[string]any

// String returns a property as a trimmed string, or "" when absent or not a
// string
func (b PropertyBag) String(key string) string {
	if v, ok := b[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// Has reports whether a property is present
func (b PropertyBag) Has(key string) bool {
	_, ok := b[key]
	return ok
}

// Number returns a property as a number, accepting JSON numbers and numeric
// strings
func (b PropertyBag) Number(key string) (float64, bool) {
	switch v := b[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// Bool returns a property as a boolean, accepting JSON booleans and the
// "Yes"/"True" strings legacy pages use
func (b PropertyBag) Bool(key string) bool {
	switch v := b[key].(type) {
	case bool:
		return v
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(v))
		return trimmed == "yes" || trimmed == "true" || trimmed == "1"
	}
	return false
}

// Records decodes the modern datarecord array. The second return is false
// when the page has no decodable datarecords at all (the legacy path applies
// then). Individually malformed entries are skipped, not fatal.
func (b PropertyBag) Records() ([]Record, bool) {
	raw, ok := b[PropertyRecords]
	if !ok {
		return nil, false
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		data = encoded
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		var rec Record
		if err := json.Unmarshal(entry, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, true
}
