// Package device derives display names and stable fingerprints from admin
// user-agent strings, for session audit trails.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// Service computes device fingerprints. Disabled instances return empty
// fingerprints so callers can treat fingerprinting as optional.
type Service struct {
	enabled bool
}

func NewService(enabled bool) *Service {
	return &Service{enabled: enabled}
}

// ParseUserAgent turns a raw user-agent string into a short display name
// like "Chrome on Mac OS X".
func ParseUserAgent(raw string) string {
	if raw == "" {
		return "Unknown Device"
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name
	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(fmt.Sprintf("%s on %s", browser, os))
}

// ComputeFingerprint hashes the browser identity down to its major version,
// so routine browser updates do not look like new devices.
func (s *Service) ComputeFingerprint(raw string) string {
	if !s.enabled {
		return ""
	}

	ua := useragent.New(raw)
	browser, version := ua.Browser()
	major := version
	if i := strings.Index(version, "."); i >= 0 {
		major = version[:i]
	}

	material := strings.Join([]string{browser, major, ua.OSInfo().Name, ua.Platform()}, "|")
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

// CompareFingerprints reports whether two fingerprints match and whether the
// mismatch counts as drift.
func (s *Service) CompareFingerprints(stored, current string) (matched, drift bool) {
	if stored == current {
		return true, false
	}
	return false, true
}
