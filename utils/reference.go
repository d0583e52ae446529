package utils

import (
	"os"
	"strings"

	"github.com/google/uuid"
)

// NewReferenceCode returns an opaque public booking reference like
// "RES-9F2C41A8B3D0". Codes are unique (uuid-derived) and never reused.
func NewReferenceCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "RES-" + strings.ToUpper(raw[:12])
}

// EnvOrDefault returns the env value or the fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
