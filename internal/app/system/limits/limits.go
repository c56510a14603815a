// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for JSON request bodies.
	// All API endpoints accept small payloads; anything larger is abuse.
	MaxJSONBodySize = 64 << 10 // 64 KB

	// MaxCooperativeFormSize is the maximum size for cooperative
	// create/update payloads, which carry a sanitized HTML description.
	MaxCooperativeFormSize = 1 << 20 // 1 MB
)
