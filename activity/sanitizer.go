package activity

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-masker"
)

var defaultMaskerOnce sync.Once

// DefaultMasker returns the shared masker with credential-bearing keys
// registered.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeData masks credential values in an additional_data payload before
// it is persisted. The input map is never mutated; a nil or empty payload
// becomes an empty map. A masking failure is returned so the caller can
// refuse the write instead of storing an unmasked or emptied payload.
func SanitizeData(mask *masker.Masker, data map[string]any) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	cloned := cloneData(data)
	if mask == nil {
		return cloned, nil
	}
	masked, err := mask.Mask(cloned)
	if err != nil {
		return nil, fmt.Errorf("activity: mask additional data: %w", err)
	}
	out, ok := masked.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("activity: masker returned %T for additional data", masked)
	}
	return out, nil
}

func registerDefaultMaskFields(mask *masker.Masker) {
	for _, field := range []string{"password", "Password", "password_hash", "PasswordHash", "token", "Token", "secret", "Secret"} {
		mask.RegisterMaskField(field, "filled4")
	}
}

func cloneData(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
