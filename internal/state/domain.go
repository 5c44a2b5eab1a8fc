package state

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Domain is one directory root the backend knows how to query. Only Name is
// interpreted; every other field the backend sends is kept verbatim in Extra.
type Domain struct {
	Name  string                     `json:"name"`
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes a domain record, tolerating unknown fields.
func (d *Domain) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding domain: %w", err)
	}

	*d = Domain{}
	if v, ok := raw["name"]; ok {
		// A non-string name is carried as its JSON text rather than rejected.
		if err := json.Unmarshal(v, &d.Name); err != nil {
			d.Name = string(bytes.Trim(v, `"`))
		}
		delete(raw, "name")
	}
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}

// MarshalJSON writes the name and all extra fields back out.
func (d Domain) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Extra)+1)
	for k, v := range d.Extra {
		out[k] = v
	}
	name, err := json.Marshal(d.Name)
	if err != nil {
		return nil, err
	}
	out["name"] = name
	return json.Marshal(out)
}

// Field decodes an extra field into v. It reports false when the field is
// absent.
func (d Domain) Field(key string, v any) (bool, error) {
	raw, ok := d.Extra[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decoding field %q: %w", key, err)
	}
	return true, nil
}

func cloneDomains(in []Domain) []Domain {
	out := make([]Domain, len(in))
	copy(out, in)
	return out
}
