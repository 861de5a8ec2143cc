package manifest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the download endpoint for the shipped texture set.
const DefaultBaseURL = "https://www.solarsystemscope.com/textures/download"

// Common validation errors.
var (
	ErrDuplicateLocal  = errors.New("manifest: duplicate local filename")
	ErrMissingName     = errors.New("manifest: entry missing local or remote name")
	ErrMalformedDigest = errors.New("manifest: malformed sha256 digest")
	ErrBadBaseURL      = errors.New("manifest: invalid base URL")
)

// Entry describes a single asset to fetch. Digest is an optional
// hex-encoded SHA-256 of the expected content; when empty the file is
// downloaded without verification.
type Entry struct {
	LocalName  string `yaml:"local"`
	RemoteName string `yaml:"remote"`
	Digest     string `yaml:"sha256,omitempty"`
}

// Manifest is an ordered set of entries under a common base URL.
// It is immutable after construction.
type Manifest struct {
	BaseURL string  `yaml:"base_url"`
	Entries []Entry `yaml:"files"`
}

// Default returns the compiled-in texture manifest. The entries carry no
// digests; the published textures are not content-addressed.
func Default() *Manifest {
	return &Manifest{
		BaseURL: DefaultBaseURL,
		Entries: []Entry{
			{LocalName: "sun.jpg", RemoteName: "2k_sun.jpg"},
			{LocalName: "mercury.jpg", RemoteName: "2k_mercury.jpg"},
			{LocalName: "venus.jpg", RemoteName: "2k_venus_surface.jpg"},
			{LocalName: "earth.jpg", RemoteName: "2k_earth_daymap.jpg"},
			{LocalName: "moon.jpg", RemoteName: "2k_moon.jpg"},
			{LocalName: "mars.jpg", RemoteName: "2k_mars.jpg"},
			{LocalName: "jupiter.jpg", RemoteName: "2k_jupiter.jpg"},
			{LocalName: "saturn.jpg", RemoteName: "2k_saturn.jpg"},
			{LocalName: "uranus.jpg", RemoteName: "2k_uranus.jpg"},
			{LocalName: "neptune.jpg", RemoteName: "2k_neptune.jpg"},
			{LocalName: "stars.jpg", RemoteName: "2k_stars_milky_way.jpg"},
		},
	}
}

// Load reads a manifest from a YAML file. An empty base_url falls back to
// DefaultBaseURL. The returned manifest is already validated.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest file: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest file: %w", err)
	}

	if m.BaseURL == "" {
		m.BaseURL = DefaultBaseURL
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural invariants: unique local filenames, non-empty
// names, well-formed digests, and a parseable base URL. An empty entry list
// is valid; a run over it succeeds trivially. A manifest that fails
// validation must never reach the scheduler.
func (m *Manifest) Validate() error {
	u, err := url.Parse(m.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrBadBaseURL, m.BaseURL)
	}

	seen := make(map[string]struct{}, len(m.Entries))
	for _, e := range m.Entries {
		if e.LocalName == "" || e.RemoteName == "" {
			return fmt.Errorf("%w: local=%q remote=%q", ErrMissingName, e.LocalName, e.RemoteName)
		}
		if _, ok := seen[e.LocalName]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateLocal, e.LocalName)
		}
		seen[e.LocalName] = struct{}{}

		if e.Digest != "" {
			if err := checkDigest(e.Digest); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMalformedDigest, e.LocalName, err)
			}
		}
	}
	return nil
}

// RemoteURL joins the base URL with an entry's remote filename.
func (m *Manifest) RemoteURL(e Entry) string {
	return strings.TrimRight(m.BaseURL, "/") + "/" + e.RemoteName
}

// checkDigest verifies that s is a 64-character hex string (a SHA-256).
func checkDigest(s string) error {
	if len(s) != hex.EncodedLen(32) {
		return fmt.Errorf("length %d, want 64", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return err
	}
	return nil
}
