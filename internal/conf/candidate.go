package conf

// Candidate is one token of a candidate list. A leading '!' in the
// source marks the candidate as disabled.
type Candidate struct {
	Value   string
	Enabled bool
}

// parseCandidate interprets a single token. A bare "!" is kept as a
// literal value; the sentinel only applies when it prefixes something.
func parseCandidate(token string) Candidate {
	if len(token) > 1 && token[0] == '!' {
		return Candidate{Value: token[1:], Enabled: false}
	}
	return Candidate{Value: token, Enabled: true}
}

// String renders the candidate as a source token, with the sentinel
// for disabled candidates.
func (c Candidate) String() string {
	if !c.Enabled {
		return "!" + c.Value
	}
	return c.Value
}

// enabledValues filters a candidate list down to the enabled values,
// preserving order.
func enabledValues(cands []Candidate) []string {
	var out []string
	for _, c := range cands {
		if c.Enabled {
			out = append(out, c.Value)
		}
	}
	return out
}
