// Package classify maps manifest items to canonical reconcile entries by
// inspecting the resource identifier.
package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fulmenhq/dfrecon/pkg/manifest"
	"github.com/fulmenhq/dfrecon/pkg/reconcile"
)

// Resource types recognised in identifiers.
const (
	TypeSecurityKey = "securitykey"
	TypeOtherKey    = "otherkey"
)

// rules are checked in order; the first substring found wins.
var rules = []string{TypeSecurityKey, TypeOtherKey}

// ErrUnclassifiable is matched by UnclassifiableResourceError via errors.Is.
var ErrUnclassifiable = errors.New("unclassifiable resource")

// UnclassifiableResourceError reports an identifier that matches no rule.
type UnclassifiableResourceError struct {
	Resource string
}

func (e *UnclassifiableResourceError) Error() string {
	return fmt.Sprintf("resource %q should contain %s", e.Resource, strings.Join(rules, " or "))
}

// Is implements errors.Is support
func (e *UnclassifiableResourceError) Is(target error) bool { return target == ErrUnclassifiable }

// Type returns the resource type encoded in a resource identifier.
func Type(resource string) (string, error) {
	for _, t := range rules {
		if strings.Contains(resource, t) {
			return t, nil
		}
	}
	return "", &UnclassifiableResourceError{Resource: resource}
}

// Entry converts a manifest item into its canonical entry. The tenant is
// carried over verbatim.
func Entry(item manifest.DataItem) (reconcile.Entry, error) {
	t, err := Type(item.Resource)
	if err != nil {
		return reconcile.Entry{}, err
	}
	return reconcile.Entry{Name: item.Resource, Type: t, Tenant: item.Tenant}, nil
}

// Entries classifies every item of a manifest. It stops at the first item
// that cannot be classified, since a partial set would misreport additions.
func Entries(items []manifest.DataItem) (reconcile.Set, error) {
	set := make(reconcile.Set, len(items))
	for i, item := range items {
		e, err := Entry(item)
		if err != nil {
			return nil, fmt.Errorf("manifest item %d: %w", i, err)
		}
		set.Add(e)
	}
	return set, nil
}
