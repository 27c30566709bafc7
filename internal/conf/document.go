package conf

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// node is one physical construct: a blank line, a comment line, or an
// assignment.
type node struct {
	text  string // verbatim line for non-entries
	entry *Entry
}

// Document is a parsed configuration file. It preserves comments,
// blank lines, and formatting, so an untouched document serializes
// byte-identically to its source.
type Document struct {
	nodes          []*node
	noFinalNewline bool
}

// Entries returns all assignments in document order, including
// duplicate keys.
func (d *Document) Entries() []*Entry {
	var out []*Entry
	for _, n := range d.nodes {
		if n.entry != nil {
			out = append(out, n.entry)
		}
	}
	return out
}

// Get returns the effective entry for key: the last assignment wins.
func (d *Document) Get(key string) (*Entry, bool) {
	var found *Entry
	for _, n := range d.nodes {
		if n.entry != nil && n.entry.Key == key {
			found = n.entry
		}
	}
	return found, found != nil
}

// Has reports whether key is assigned anywhere in the document.
func (d *Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns the distinct keys in first-assignment order.
func (d *Document) Keys() []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range d.nodes {
		if n.entry == nil || seen[n.entry.Key] {
			continue
		}
		seen[n.entry.Key] = true
		out = append(out, n.entry.Key)
	}
	return out
}

// String renders the document. Untouched lines are emitted verbatim;
// mutated entries are re-rendered canonically.
func (d *Document) String() string {
	var b strings.Builder
	for i, n := range d.nodes {
		if n.entry != nil {
			b.WriteString(n.entry.render())
		} else {
			b.WriteString(n.text)
		}
		if i < len(d.nodes)-1 || !d.noFinalNewline {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// SetScalar assigns a literal value to key, appending a new assignment
// if the key is absent. Dollar signs are escaped so the stored text
// resolves back to the same literal.
func (d *Document) SetScalar(key, value string) {
	raw := strings.ReplaceAll(value, "$", "$$")
	if e, ok := d.Get(key); ok {
		e.Items = nil
		e.Value = raw
		switch e.Style {
		case StyleArray:
			e.Style = StyleDouble
		case StyleSingle:
			if strings.Contains(value, "'") {
				e.Style = StyleDouble
			} else {
				// single quotes are literal, no escaping needed
				e.Value = value
			}
		}
		e.dirty = true
		return
	}
	d.append(&Entry{Key: key, Value: raw, Style: StyleDouble})
}

// Select makes value the only enabled candidate for key. Other
// candidates stay in the document, disabled. A missing key is
// appended; a missing candidate is added enabled.
func (d *Document) Select(key, value string) error {
	e, ok := d.Get(key)
	if !ok {
		e = &Entry{Key: key, Style: StyleDouble}
		d.append(e)
		e.setCandidates([]Candidate{{Value: value, Enabled: true}})
		return nil
	}
	cands, err := e.Candidates()
	if err != nil {
		return err
	}
	found := false
	for i := range cands {
		if cands[i].Value == value {
			cands[i].Enabled = true
			found = true
		} else {
			cands[i].Enabled = false
		}
	}
	if !found {
		cands = append(cands, Candidate{Value: value, Enabled: true})
	}
	e.setCandidates(cands)
	return nil
}

// Toggle flips the sentinel on one candidate of key. A candidate not
// yet present is added enabled.
func (d *Document) Toggle(key, value string) error {
	e, ok := d.Get(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	cands, err := e.Candidates()
	if err != nil {
		return err
	}
	found := false
	for i := range cands {
		if cands[i].Value == value {
			cands[i].Enabled = !cands[i].Enabled
			found = true
		}
	}
	if !found {
		cands = append(cands, Candidate{Value: value, Enabled: true})
	}
	e.setCandidates(cands)
	return nil
}

func (d *Document) append(e *Entry) {
	e.dirty = true
	d.nodes = append(d.nodes, &node{entry: e})
	d.noFinalNewline = false
}

// Candidates returns the candidate tokens of the entry's raw value.
// Interpolation references are kept as written.
func (e *Entry) Candidates() ([]Candidate, error) {
	toks, err := e.tokens()
	if err != nil {
		return nil, err
	}
	cands := make([]Candidate, len(toks))
	for i, t := range toks {
		cands[i] = parseCandidate(t)
	}
	return cands, nil
}

func (e *Entry) tokens() ([]string, error) {
	if e.Style == StyleArray {
		toks := make([]string, len(e.Items))
		for i, it := range e.Items {
			toks[i] = it.Value
		}
		return toks, nil
	}
	toks, err := shellquote.Split(e.Value)
	if err != nil {
		return nil, &ParseError{Line: e.Line, Text: e.Value, Reason: err.Error()}
	}
	return toks, nil
}

// setCandidates replaces the entry's tokens. Candidate values are raw
// source tokens, so interpolation references pass through unescaped.
func (e *Entry) setCandidates(cands []Candidate) {
	if e.Style == StyleArray {
		items := make([]Item, len(cands))
		for i, c := range cands {
			items[i] = Item{Value: c.String(), Style: StyleDouble}
		}
		e.Items = items
	} else {
		toks := make([]string, len(cands))
		for i, c := range cands {
			toks[i] = quoteToken(c.String())
		}
		e.Value = strings.Join(toks, " ")
	}
	e.dirty = true
}

func (e *Entry) render() string {
	if !e.dirty {
		return e.text
	}
	var b strings.Builder
	b.WriteString(e.Key)
	b.WriteByte('=')
	switch e.Style {
	case StyleArray:
		b.WriteByte('(')
		for i, it := range e.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(renderItem(it))
		}
		b.WriteByte(')')
	case StyleSingle:
		b.WriteByte('\'')
		b.WriteString(e.Value)
		b.WriteByte('\'')
	case StyleDouble:
		b.WriteByte('"')
		b.WriteString(escapeDouble(e.Value))
		b.WriteByte('"')
	default:
		if needsQuoting(e.Value) {
			b.WriteByte('"')
			b.WriteString(escapeDouble(e.Value))
			b.WriteByte('"')
		} else {
			b.WriteString(e.Value)
		}
	}
	if e.Comment != "" {
		b.WriteByte(' ')
		b.WriteString(e.Comment)
	}
	return b.String()
}

func renderItem(it Item) string {
	switch it.Style {
	case StyleSingle:
		if !strings.Contains(it.Value, "'") {
			return "'" + it.Value + "'"
		}
		return `"` + escapeDouble(it.Value) + `"`
	case StyleNone:
		if !needsQuoting(it.Value) {
			return it.Value
		}
		return `"` + escapeDouble(it.Value) + `"`
	default:
		return `"` + escapeDouble(it.Value) + `"`
	}
}

// quoteToken quotes a candidate token for embedding in a scalar value.
// The sentinel and interpolation references pass through unquoted.
func quoteToken(tok string) string {
	if tok != "" && !strings.ContainsAny(tok, " \t'\"#") {
		return tok
	}
	return `"` + strings.ReplaceAll(strings.ReplaceAll(tok, `\`, `\\`), `"`, `\"`) + `"`
}

func needsQuoting(s string) bool {
	return s == "" || strings.ContainsAny(s, " \t#'\"()")
}

func escapeDouble(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
