package conf

import "strings"

// Interpolate substitutes $NAME and ${NAME} references in raw using
// lookup. $$ produces a literal dollar sign. A dollar that does not
// start a well-formed reference is kept as-is.
func Interpolate(raw string, lookup func(string) (string, bool)) (string, error) {
	if !strings.ContainsRune(raw, '$') {
		return raw, nil
	}
	var b strings.Builder
	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(raw) {
			b.WriteByte('$')
			i++
			continue
		}
		switch next := raw[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i += 2
		case next == '{':
			end := strings.IndexByte(raw[i+2:], '}')
			if end < 0 {
				return "", &ParseError{Text: raw, Reason: "unterminated ${ reference"}
			}
			name := raw[i+2 : i+2+end]
			if !validName(name) {
				return "", &ParseError{Text: raw, Reason: "invalid reference ${" + name + "}"}
			}
			v, ok := lookup(name)
			if !ok {
				return "", &UnboundReferenceError{Ref: name, Raw: raw}
			}
			b.WriteString(v)
			i += 2 + end + 1
		case isNameStart(next):
			j := i + 1
			for j < len(raw) && isNameChar(raw[j]) {
				j++
			}
			name := raw[i+1 : j]
			v, ok := lookup(name)
			if !ok {
				return "", &UnboundReferenceError{Ref: name, Raw: raw}
			}
			b.WriteString(v)
			i = j
		default:
			b.WriteByte('$')
			i++
		}
	}
	return b.String(), nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func validName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}
