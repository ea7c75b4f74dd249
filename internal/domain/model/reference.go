package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Ref is a reference to a panel entity, either by exact identifier or by
// bare name. The panel does not enforce name uniqueness, so only the ID
// form is guaranteed unambiguous; name resolution is the resolver's job.
type Ref struct {
	id   int64
	name string
	byID bool
}

// RefByID returns an explicit-identifier reference.
func RefByID(id int64) Ref { return Ref{id: id, byID: true} }

// RefByName returns a bare-name reference.
func RefByName(name string) Ref { return Ref{name: name} }

// ParseRef parses an operator-supplied reference. The "id:" prefix selects
// the explicit-identifier form; anything else is a bare name. A bare string
// of digits is still a name — only the prefix opts into ID semantics.
func ParseRef(s string) (Ref, error) {
	if rest, ok := strings.CutPrefix(s, "id:"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return Ref{}, &ValidationError{Field: "reference", Reason: fmt.Sprintf("%q is not a valid id", s)}
		}
		return RefByID(id), nil
	}
	if s == "" {
		return Ref{}, &ValidationError{Field: "reference"}
	}
	return RefByName(s), nil
}

// ByID reports whether the reference is the explicit-identifier form.
func (r Ref) ByID() bool { return r.byID }

// ID returns the identifier; valid only when ByID is true.
func (r Ref) ID() int64 { return r.id }

// Name returns the bare name; valid only when ByID is false.
func (r Ref) Name() string { return r.name }

func (r Ref) String() string {
	if r.byID {
		return fmt.Sprintf("id:%d", r.id)
	}
	return fmt.Sprintf("name %q", r.name)
}
