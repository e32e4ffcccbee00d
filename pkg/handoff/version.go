package handoff

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// VersionGate accepts or rejects extras based on their declared hand-off version.
// A nil gate accepts everything.
type VersionGate struct {
	constraint *semver.Constraints
}

// NewVersionGate parses constraint (e.g. ">= 1.0.0, < 2.0.0"). An empty constraint
// yields a nil gate.
func NewVersionGate(constraint string) (*VersionGate, error) {
	if constraint == "" {
		return nil, nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid hand-off version constraint %q: %w", constraint, err)
	}
	return &VersionGate{constraint: c}, nil
}

// Check validates the optional version field of extras. Extras that do not declare a
// version are accepted.
func (g *VersionGate) Check(extras Extras) error {
	if g == nil {
		return nil
	}

	raw, err := extras.ReadField(KeyVersion)
	if errors.Is(err, ErrFieldMissing) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleVersion, err)
	}

	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: %q is not a version", ErrIncompatibleVersion, raw)
	}
	if !g.constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleVersion, v, g.constraint)
	}
	return nil
}
