package conf

import (
	"errors"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Kind describes how a key's value is interpreted.
type Kind int

const (
	Scalar Kind = iota
	Collection
	CandidateSingle
	CandidateMultiple
)

func (k Kind) String() string {
	switch k {
	case Collection:
		return "collection"
	case CandidateSingle:
		return "single"
	case CandidateMultiple:
		return "multiple"
	default:
		return "scalar"
	}
}

func (k Kind) cardinality() Cardinality {
	if k == CandidateMultiple {
		return Multiple
	}
	return Single
}

// Cardinality bounds how many candidates of a key may be enabled at
// once: Single allows at most one, Multiple any number.
type Cardinality int

const (
	Single Cardinality = iota
	Multiple
)

func (c Cardinality) String() string {
	if c == Multiple {
		return "multiple"
	}
	return "single"
}

// Schema reports the kind of each known key.
type Schema interface {
	KindOf(key string) (Kind, bool)
}

// SchemaMap is a Schema backed by a map.
type SchemaMap map[string]Kind

func (m SchemaMap) KindOf(key string) (Kind, bool) {
	k, ok := m[key]
	return k, ok
}

// Value is the resolved value of one key.
type Value struct {
	Key        string
	Kind       Kind
	Raw        string      // value after interpolation
	Candidates []Candidate // nil unless a candidate kind
	scalar     string
	list       []string
}

// Scalar returns the effective scalar: the enabled candidate for
// single-choice keys, the literal for scalars, and a space-joined
// list otherwise.
func (v Value) Scalar() string { return v.scalar }

// List returns the effective values: enabled candidates for candidate
// kinds, items for collections, and a one-element list for non-empty
// scalars.
func (v Value) List() []string { return v.list }

// Enabled returns the enabled candidate values in order.
func (v Value) Enabled() []string { return enabledValues(v.Candidates) }

// Disabled returns the disabled candidate values in order.
func (v Value) Disabled() []string {
	var out []string
	for _, c := range v.Candidates {
		if !c.Enabled {
			out = append(out, c.Value)
		}
	}
	return out
}

// Config is a fully resolved document.
type Config struct {
	keys   []string
	values map[string]Value
}

// Keys returns the resolved keys in first-assignment order.
func (c *Config) Keys() []string { return c.keys }

// Get returns the resolved value for key.
func (c *Config) Get(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Scalar returns the effective scalar for key, or "" when absent.
func (c *Config) Scalar(key string) string {
	return c.values[key].scalar
}

// Len returns the number of resolved keys.
func (c *Config) Len() int { return len(c.keys) }

func (c *Config) lookup(name string) (string, bool) {
	v, ok := c.values[name]
	if !ok {
		return "", false
	}
	return v.scalar, true
}

// Resolve walks doc in declaration order and resolves every entry
// against schema. Interpolation sees only keys resolved earlier.
// Unknown keys resolve as scalars. The first error aborts resolution;
// there is no partial config.
func Resolve(doc *Document, schema Schema) (*Config, error) {
	return resolve(doc, schema, false)
}

// ResolveStrict is Resolve with unknown and duplicate keys rejected.
func ResolveStrict(doc *Document, schema Schema) (*Config, error) {
	return resolve(doc, schema, true)
}

func resolve(doc *Document, schema Schema, strict bool) (*Config, error) {
	cfg := &Config{values: make(map[string]Value)}
	for _, e := range doc.Entries() {
		kind := Scalar
		known := false
		if schema != nil {
			kind, known = schema.KindOf(e.Key)
		}
		if !known {
			if strict {
				return nil, &ParseError{Line: e.Line, Text: e.Key, Reason: "unknown key"}
			}
			kind = Scalar
		}

		if _, seen := cfg.values[e.Key]; seen {
			if strict {
				return nil, &ParseError{Line: e.Line, Text: e.Key, Reason: "duplicate key"}
			}
		} else {
			cfg.keys = append(cfg.keys, e.Key)
		}

		val, err := resolveEntry(e, kind, cfg.lookup)
		if err != nil {
			decorate(err, e)
			return nil, err
		}
		cfg.values[e.Key] = val
	}
	return cfg, nil
}

// ResolveCandidates applies the candidate-list rule to a raw value in
// isolation: tokens are classified by the '!' sentinel and card is
// enforced. It returns all candidates plus the enabled values.
func ResolveCandidates(key, raw string, card Cardinality) ([]Candidate, []string, error) {
	toks, err := shellquote.Split(raw)
	if err != nil {
		return nil, nil, &ParseError{Text: raw, Reason: err.Error()}
	}
	return classify(key, raw, toks, card)
}

func classify(key, raw string, toks []string, card Cardinality) ([]Candidate, []string, error) {
	cands := make([]Candidate, len(toks))
	for i, t := range toks {
		cands[i] = parseCandidate(t)
	}
	enabled := enabledValues(cands)
	if card == Single && len(enabled) > 1 {
		return nil, nil, &CardinalityError{Key: key, Raw: raw, Enabled: enabled}
	}
	return cands, enabled, nil
}

func resolveEntry(e *Entry, kind Kind, lookup func(string) (string, bool)) (Value, error) {
	val := Value{Key: e.Key, Kind: kind}

	switch kind {
	case Scalar:
		raw, err := expandRaw(e, lookup)
		if err != nil {
			return Value{}, err
		}
		val.Raw = raw
		val.scalar = raw
		if raw != "" {
			val.list = []string{raw}
		}

	case Collection:
		toks, err := expandTokens(e, lookup)
		if err != nil {
			return Value{}, err
		}
		val.Raw = strings.Join(toks, " ")
		val.list = toks
		val.scalar = val.Raw

	default:
		toks, err := expandTokens(e, lookup)
		if err != nil {
			return Value{}, err
		}
		val.Raw = strings.Join(toks, " ")
		cands, enabled, err := classify(e.Key, val.Raw, toks, kind.cardinality())
		if err != nil {
			return Value{}, err
		}
		val.Candidates = cands
		val.list = enabled
		if kind == CandidateSingle {
			if len(enabled) == 1 {
				val.scalar = enabled[0]
			}
		} else {
			val.scalar = strings.Join(enabled, " ")
		}
	}
	return val, nil
}

// expandRaw interpolates the entry's value without tokenizing it.
func expandRaw(e *Entry, lookup func(string) (string, bool)) (string, error) {
	if e.Style == StyleArray {
		items, err := expandItems(e, lookup)
		if err != nil {
			return "", err
		}
		return strings.Join(items, " "), nil
	}
	if e.Style == StyleSingle {
		return e.Value, nil
	}
	return Interpolate(e.Value, lookup)
}

// expandTokens interpolates and tokenizes the entry's value.
func expandTokens(e *Entry, lookup func(string) (string, bool)) ([]string, error) {
	if e.Style == StyleArray {
		return expandItems(e, lookup)
	}
	raw, err := expandRaw(e, lookup)
	if err != nil {
		return nil, err
	}
	toks, err := shellquote.Split(raw)
	if err != nil {
		return nil, &ParseError{Line: e.Line, Text: raw, Reason: err.Error()}
	}
	return toks, nil
}

// expandItems interpolates array items. Single-quoted items stay
// literal.
func expandItems(e *Entry, lookup func(string) (string, bool)) ([]string, error) {
	items := make([]string, len(e.Items))
	for i, it := range e.Items {
		s := it.Value
		if it.Style != StyleSingle {
			var err error
			s, err = Interpolate(s, lookup)
			if err != nil {
				return nil, err
			}
		}
		items[i] = s
	}
	return items, nil
}

// decorate fills in key and line context on typed errors raised below
// entry level.
func decorate(err error, e *Entry) {
	var ub *UnboundReferenceError
	if errors.As(err, &ub) && ub.Key == "" {
		ub.Key = e.Key
	}
	var ce *CardinalityError
	if errors.As(err, &ce) && ce.Key == "" {
		ce.Key = e.Key
	}
	var pe *ParseError
	if errors.As(err, &pe) && pe.Line == 0 {
		pe.Line = e.Line
	}
}
