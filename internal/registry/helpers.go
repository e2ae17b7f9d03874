package registry

import (
	"crypto/rand"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	idMaxLength            = 64
	randomIDSuffixLength   = 8
	randomIDSuffixFallback = "abcdefgh"
)

var (
	idPattern           = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	nonAlphanumericExpr = regexp.MustCompile(`[^a-z0-9]+`)
)

// GenerateID derives a registry id from a runbook file path.
func GenerateID(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}

	id := SanitizeFilename(base)
	if id == "" {
		id = fmt.Sprintf("runbook-%s", randomIDSuffix(randomIDSuffixLength))
	}

	return id
}

// UniqueID returns GenerateID(path), suffixed with -2, -3, ... until it is not taken.
func (r *Registry) UniqueID(path string) string {
	base := GenerateID(path)
	id := base
	for n := 2; ; n++ {
		if _, err := r.Get(id); err != nil {
			return id
		}
		suffix := fmt.Sprintf("-%d", n)
		id = trimToLength(base, idMaxLength-len(suffix)) + suffix
	}
}

// ValidateID ensures the provided ID matches the allowed pattern.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("runbook ID cannot be empty")
	}

	if len(id) > idMaxLength {
		return fmt.Errorf("runbook ID %q is too long: maximum length is %d characters", id, idMaxLength)
	}

	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid runbook ID %q: must match %s", id, idPattern.String())
	}

	return nil
}

// SanitizeFilename normalizes a filename into an identifier-friendly format.
func SanitizeFilename(name string) string {
	lowered := strings.ToLower(name)
	sanitized := nonAlphanumericExpr.ReplaceAllString(lowered, "-")
	sanitized = strings.Trim(sanitized, "-")

	if len(sanitized) > idMaxLength {
		sanitized = trimToLength(sanitized, idMaxLength)
	}

	return sanitized
}

func randomIDSuffix(length int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	if length <= 0 {
		return ""
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return randomIDSuffixFallback
	}

	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}

	return string(buf)
}

func trimToLength(value string, length int) string {
	if len(value) <= length {
		return strings.Trim(value, "-")
	}

	return strings.Trim(value[:length], "-")
}
