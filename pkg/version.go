package release

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a three-component semantic version as stored in
// library.properties. It carries no prerelease or build metadata because the
// Arduino Library Manager does not accept either.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag returns the git tag form of the version, prefixed with "v".
func (v Version) Tag() string {
	return "v" + v.String()
}

// ParseVersion parses a dotted version string into its components. Missing
// trailing components default to 0, so "9" parses as 9.0.0. Any non-integer
// or negative component is an error, as are more than three components.
func ParseVersion(s string) (Version, error) {
	var v Version
	if s == "" {
		return v, fmt.Errorf("empty version string")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return v, fmt.Errorf("unexpected version format: %s", s)
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return v, fmt.Errorf("invalid version component %q in %q", part, s)
		}
		if n < 0 {
			return v, fmt.Errorf("negative version component %q in %q", part, s)
		}
		nums[i] = n
	}
	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

// BumpKind selects which version component to increment.
type BumpKind string

const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// ParseBumpKind maps free-form user input to a BumpKind. Anything other than
// "major" or "minor" (case-insensitive), including the empty string, falls
// back to a patch bump.
func ParseBumpKind(s string) BumpKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return BumpMajor
	case "minor":
		return BumpMinor
	default:
		return BumpPatch
	}
}

// Bump returns the next version for the given bump kind, zeroing all
// lower-order components. It never mutates the receiver.
func (v Version) Bump(kind BumpKind) Version {
	switch kind {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}
