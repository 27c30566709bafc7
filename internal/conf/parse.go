package conf

import (
	"fmt"
	"regexp"
	"strings"
)

// QuoteStyle records how a value was written in the source.
type QuoteStyle int

const (
	StyleNone QuoteStyle = iota
	StyleDouble
	StyleSingle
	StyleArray
)

// Item is one element of an array literal.
type Item struct {
	Value string
	Style QuoteStyle
}

// Entry is a single assignment in a document.
type Entry struct {
	Key     string
	Value   string // raw value, outer quotes removed; empty for arrays
	Items   []Item // array items; nil for scalar values
	Style   QuoteStyle
	Comment string // trailing comment including '#', empty if none
	Line    int    // 1-based line of the assignment

	text  string // verbatim source, used while the entry is untouched
	dirty bool
}

var (
	keyRe     = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)
	keyNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidKey reports whether name is a legal configuration key.
func ValidKey(name string) bool {
	return keyNameRe.MatchString(name)
}

// Parse reads a document from raw text. The returned Document
// serializes byte-identically until it is mutated.
func Parse(raw string) (*Document, error) {
	doc := &Document{}
	if raw == "" {
		return doc, nil
	}
	doc.noFinalNewline = !strings.HasSuffix(raw, "\n")
	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			doc.nodes = append(doc.nodes, &node{text: line})
			continue
		}

		m := keyRe.FindStringSubmatch(strings.TrimLeft(line, " \t"))
		if m == nil {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: "not an assignment"}
		}
		key, rest := m[1], m[2]

		e := &Entry{Key: key, Line: i + 1}

		switch {
		case strings.HasPrefix(rest, "("):
			start := i
			items, comment, end, err := parseArray(lines, i, rest[1:])
			if err != nil {
				return nil, err
			}
			e.Style = StyleArray
			e.Items = items
			e.Comment = comment
			e.text = strings.Join(lines[start:end+1], "\n")
			i = end

		case strings.HasPrefix(rest, `"`), strings.HasPrefix(rest, "'"):
			quote := rest[0]
			value, remainder, err := scanQuoted(rest, quote)
			if err != nil {
				return nil, &ParseError{Line: i + 1, Text: line, Reason: err.Error()}
			}
			comment, err := scanTrailing(remainder)
			if err != nil {
				return nil, &ParseError{Line: i + 1, Text: line, Reason: err.Error()}
			}
			e.Value = value
			e.Comment = comment
			e.Style = StyleSingle
			if quote == '"' {
				e.Style = StyleDouble
			}
			e.text = line

		default:
			value, comment := scanBare(rest)
			e.Value = value
			e.Style = StyleNone
			e.Comment = comment
			e.text = line
		}

		doc.nodes = append(doc.nodes, &node{entry: e})
	}

	return doc, nil
}

// scanQuoted reads a quoted value starting at s[0] == quote. Double
// quotes honor \" and \\ escapes; single quotes are literal. Returns
// the value and the remainder after the closing quote.
func scanQuoted(s string, quote byte) (string, string, error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		if quote == '"' && c == '\\' && i+1 < len(s) {
			if next := s[i+1]; next == '"' || next == '\\' {
				b.WriteByte(next)
				i++
				continue
			}
		}
		if c == quote {
			return b.String(), s[i+1:], nil
		}
		b.WriteByte(c)
	}
	if quote == '\'' {
		return "", "", fmt.Errorf("unterminated single quote")
	}
	return "", "", fmt.Errorf("unterminated double quote")
}

// scanTrailing validates what follows a closed value: nothing, or a
// comment.
func scanTrailing(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if strings.HasPrefix(s, "#") {
		return s, nil
	}
	return "", fmt.Errorf("unexpected text after value: %q", s)
}

// scanBare reads an unquoted value. A '#' starts a comment at the
// start of the value or after whitespace; elsewhere it is literal.
func scanBare(s string) (string, string) {
	if strings.HasPrefix(s, "#") {
		return "", strings.TrimSpace(s)
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '#' && (s[i-1] == ' ' || s[i-1] == '\t') {
			return strings.TrimRight(s[:i], " \t"), strings.TrimSpace(s[i:])
		}
	}
	return strings.TrimRight(s, " \t"), ""
}

// parseArray reads an array literal that starts on lines[start] after
// the opening parenthesis. It may span lines. Returns the items, the
// trailing comment after ')', and the index of the closing line.
func parseArray(lines []string, start int, rest string) ([]Item, string, int, error) {
	var items []Item
	content := rest
	lineno := start
	for {
		closed, lineItems, after, err := scanArrayLine(content)
		if err != nil {
			return nil, "", 0, &ParseError{Line: lineno + 1, Text: lines[lineno], Reason: err.Error()}
		}
		items = append(items, lineItems...)
		if closed {
			comment, err := scanTrailing(after)
			if err != nil {
				return nil, "", 0, &ParseError{Line: lineno + 1, Text: lines[lineno], Reason: err.Error()}
			}
			return items, comment, lineno, nil
		}
		lineno++
		if lineno >= len(lines) {
			return nil, "", 0, &ParseError{Line: start + 1, Text: lines[start], Reason: "unterminated array literal"}
		}
		content = lines[lineno]
	}
}

// scanArrayLine reads items from one line of an array literal. It
// reports whether the closing ')' was seen and what follows it.
func scanArrayLine(s string) (bool, []Item, string, error) {
	var items []Item
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return false, items, "", nil
		}
		switch s[0] {
		case ')':
			return true, items, s[1:], nil
		case '#':
			return false, items, "", nil
		case '"', '\'':
			quote := s[0]
			value, rem, err := scanQuoted(s, quote)
			if err != nil {
				return false, nil, "", err
			}
			if rem != "" && rem[0] != ' ' && rem[0] != '\t' && rem[0] != ')' && rem[0] != '#' {
				return false, nil, "", fmt.Errorf("malformed array item: %q", rem)
			}
			style := StyleDouble
			if quote == '\'' {
				style = StyleSingle
			}
			items = append(items, Item{Value: value, Style: style})
			s = rem
		default:
			j := strings.IndexAny(s, " \t)")
			if j < 0 {
				items = append(items, Item{Value: s, Style: StyleNone})
				return false, items, "", nil
			}
			items = append(items, Item{Value: s[:j], Style: StyleNone})
			s = s[j:]
		}
	}
}
