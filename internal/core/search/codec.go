package search

import (
	"regexp"
	"strings"
)

var (
	// opRe matches the boolean operator written right before a group's opening paren
	opRe = regexp.MustCompile(`\b(AND|OR|NOT)\s+$`)
	// closeRe matches what may follow the paren closing a group: the end or the next operator and group
	closeRe = regexp.MustCompile(`^\s*(?:$|(?:AND|OR|NOT)\s+\()`)
)

// Parsed is the result of decoding a query string
type Parsed struct {
	Criteria Criteria `json:"criteria"`
	// Dropped holds group contents that matched no field prefix
	Dropped []string `json:"dropped,omitempty"`
}

// BuildQuery serialises criteria into a single boolean query string
// criteria with blank values are skipped, the first emitted group carries no operator
func BuildQuery(criteria Criteria) string {
	parts := make([]string, 0, len(criteria))
	for _, c := range criteria {
		if strings.TrimSpace(c.Value) == "" {
			continue
		}
		part := FormatQueryPart(c.Field, c.Value)
		if c.Field == ClusterRecordID {
			token, _ := ClusterRecordID.Prefix()
			part = token + part
		}
		if len(parts) == 0 {
			parts = append(parts, "("+part+")")
			continue
		}
		parts = append(parts, c.Operator.String()+" ("+part+")")
	}
	return strings.Join(parts, " ")
}

// ParseQuery decodes a query string built by BuildQuery back into criteria
// every criterion gets a fresh id and the first operator is forced to AND
func ParseQuery(q string) Parsed {
	out := Parsed{Criteria: Criteria{}}
	if strings.TrimSpace(q) == "" {
		return out
	}
	for _, g := range groups(q) {
		op := AND
		if g.op != "" {
			op, _ = ParseOperator(g.op)
		}
		field, value, ok := splitGroup(g.content)
		if !ok {
			out.Dropped = append(out.Dropped, g.content)
			continue
		}
		out.Criteria = append(out.Criteria, New(field, value, op))
	}
	out.Criteria = Normalize(out.Criteria)
	return out
}

type group struct{ op, content string }

// groups splits q into its parenthesised groups
// A group closes at the first ')' followed by the end of q or by the next operator and group, so
// parentheses and quotes inside values survive. When no ')' qualifies the first one closes it.
func groups(q string) []group {
	var out []group
	rest := q
	for {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			return out
		}
		var g group
		if m := opRe.FindStringSubmatch(rest[:open]); m != nil {
			g.op = m[1]
		}
		body := rest[open+1:]
		first, end := -1, -1
		for i := 0; i < len(body) && end < 0; i++ {
			if body[i] != ')' {
				continue
			}
			if first < 0 {
				first = i
			}
			if closeRe.MatchString(body[i+1:]) {
				end = i
			}
		}
		if end < 0 {
			end = first
		}
		if end < 0 {
			return out
		}
		g.content = body[:end]
		out = append(out, g)
		rest = body[end+1:]
	}
}

// splitGroup finds the first field whose prefix starts content and returns the bare value
func splitGroup(content string) (Field, string, bool) {
	for _, e := range prefixes {
		if !strings.HasPrefix(content, e.p.token) {
			continue
		}
		v := content[len(e.p.token):]
		if e.p.separator {
			v = strings.TrimPrefix(v, " ")
		}
		if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
			v = v[1 : len(v)-1]
		}
		return e.field, v, true
	}
	return Keyword, "", false
}
