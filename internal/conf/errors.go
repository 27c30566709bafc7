package conf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKeyNotFound reports a mutation on a key the document does not
// contain.
var ErrKeyNotFound = errors.New("key not found")

// ParseError reports a malformed document or value.
type ParseError struct {
	Line   int    // 1-based line number, 0 if unknown
	Text   string // offending line or value
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Text)
}

// CardinalityError reports more than one enabled candidate on a key
// with Single cardinality.
type CardinalityError struct {
	Key     string
	Raw     string   // the raw value that resolved to the conflict
	Enabled []string // the conflicting enabled values
}

func (e *CardinalityError) Error() string {
	key := e.Key
	if key == "" {
		key = "value"
	}
	return fmt.Sprintf("%s: %d enabled candidates for single-choice key (%s) in %q",
		key, len(e.Enabled), strings.Join(e.Enabled, ", "), e.Raw)
}

// UnboundReferenceError reports interpolation of a key that is not
// resolved at the point of use. Only keys declared earlier in the
// document are visible.
type UnboundReferenceError struct {
	Key string // key whose value contains the reference, if known
	Ref string // the referenced name
	Raw string // the raw value containing the reference
}

func (e *UnboundReferenceError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: reference to unresolved key $%s in %q", e.Key, e.Ref, e.Raw)
	}
	return fmt.Sprintf("reference to unresolved key $%s in %q", e.Ref, e.Raw)
}
