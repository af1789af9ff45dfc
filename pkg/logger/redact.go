package logger

import (
	"encoding/json"
	"strings"
)

const Redacted = "[REDACTED]"

// sensitiveKeys are compared after lower casing and dropping '_' and '-', so
// "idToken", "id_token" and "ID-Token" all match "idtoken".
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"passwordhash":  {},
	"idtoken":       {},
	"token":         {},
	"authorization": {},
	"cookie":        {},
	"jwtsecret":     {},
}

func IsSensitive(key string) bool {
	k := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(key))
	_, ok := sensitiveKeys[k]
	return ok
}

// RedactJSON masks sensitive fields at any depth. Bodies that are not JSON
// are reported by size only.
func RedactJSON(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "[non-json body]"
	}
	out, err := json.Marshal(redact(data))
	if err != nil {
		return "[unencodable body]"
	}
	return string(out)
}

func redact(data any) any {
	switch v := data.(type) {
	case map[string]any:
		for key, value := range v {
			if IsSensitive(key) {
				v[key] = Redacted
				continue
			}
			v[key] = redact(value)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = redact(item)
		}
		return v
	default:
		return v
	}
}
