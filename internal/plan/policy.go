package plan

import (
	"fmt"
	"strings"
)

// CollisionPolicy selects what happens when a destination is already claimed.
type CollisionPolicy string

const (
	// CollisionSuffix appends ".2", ".3", ... before the extension.
	CollisionSuffix CollisionPolicy = "suffix"
	// CollisionSkip leaves the subtitle in place and reports it.
	CollisionSkip CollisionPolicy = "skip"
)

// ParseCollisionPolicy accepts "suffix" or "skip"; blank means suffix.
func ParseCollisionPolicy(value string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", CollisionSuffix:
		return CollisionSuffix, nil
	case CollisionSkip:
		return CollisionSkip, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q (want suffix or skip)", value)
	}
}
