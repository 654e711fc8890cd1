package repository

import "encoding/json"

// Embedded documents (line items, snapshots, delivery blocks) are stored as
// JSON text columns, the same way the source system embedded them.

func marshalJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func unmarshalJSON(raw string, v interface{}) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), v)
}
