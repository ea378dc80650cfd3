package release

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// ErrNotFound reports a missing properties file.
var ErrNotFound = errors.New("properties file not found")

// ErrNoVersion reports a properties file without a version assignment.
var ErrNoVersion = errors.New("no version entry in properties file")

// versionPattern matches the version assignment in library.properties.
// The value runs up to the first whitespace character.
var versionPattern = regexp.MustCompile(`version=(\S+)`)

// PropertiesStore reads and writes the version entry of an Arduino
// library.properties file. All other content of the file is left untouched
// byte for byte.
type PropertiesStore struct {
	Path string
}

func NewPropertiesStore(path string) *PropertiesStore {
	return &PropertiesStore{Path: path}
}

// RawVersion returns the version token exactly as written in the file.
func (s *PropertiesStore) RawVersion() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return "", fmt.Errorf("reading %s: %w", s.Path, err)
	}
	match := versionPattern.FindSubmatch(data)
	if match == nil {
		return "", fmt.Errorf("%w: %s", ErrNoVersion, s.Path)
	}
	return string(match[1]), nil
}

// Read extracts and parses the version entry.
func (s *PropertiesStore) Read() (Version, error) {
	raw, err := s.RawVersion()
	if err != nil {
		return Version{}, err
	}
	v, err := ParseVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("%s: %w", s.Path, err)
	}
	return v, nil
}

// Write replaces the version token in place, preserving everything else in
// the file. It reports whether a replacement occurred; false means the file
// had no version entry and was left unmodified.
func (s *PropertiesStore) Write(v Version) (bool, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return false, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	if !versionPattern.Match(data) {
		return false, nil
	}
	updated := versionPattern.ReplaceAll(data, []byte("version="+v.String()))
	info, err := os.Stat(s.Path)
	mode := os.FileMode(0644)
	if err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(s.Path, updated, mode); err != nil {
		return false, fmt.Errorf("writing %s: %w", s.Path, err)
	}
	return true, nil
}
