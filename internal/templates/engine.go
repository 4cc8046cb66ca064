// Package templates supplies report template markup and the engine that
// populates it. The placeholder syntax, {{NAME}} for substitution and
// {{#if NAME}}...{{/if}} for conditional regions, is the wire contract with
// stored templates and must be preserved exactly.
package templates

import (
	"strconv"
	"strings"
)

// VariableMap maps placeholder names to formatted values. Content flags use
// the literal strings "true"/"false": the conditional evaluator is
// string-typed, and any non-empty truthy string behaves like boolean true.
type VariableMap map[string]string

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenPlaceholder
	tokenCondOpen
	tokenCondClose
)

type token struct {
	kind tokenKind
	text string // literal text, or placeholder/flag name
}

// tokenize splits a template into literal, placeholder, conditional-open and
// conditional-close tokens. A "{{" with no closing "}}" is literal text.
func tokenize(template string) []token {
	var tokens []token
	for len(template) > 0 {
		open := strings.Index(template, "{{")
		if open < 0 {
			tokens = append(tokens, token{tokenLiteral, template})
			break
		}
		if open > 0 {
			tokens = append(tokens, token{tokenLiteral, template[:open]})
		}
		rest := template[open+2:]
		close := strings.Index(rest, "}}")
		if close < 0 {
			tokens = append(tokens, token{tokenLiteral, template[open:]})
			break
		}

		inner := rest[:close]
		switch {
		case strings.HasPrefix(inner, "#if "):
			tokens = append(tokens, token{tokenCondOpen, strings.TrimSpace(inner[4:])})
		case strings.TrimSpace(inner) == "/if":
			tokens = append(tokens, token{tokenCondClose, ""})
		default:
			tokens = append(tokens, token{tokenPlaceholder, strings.TrimSpace(inner)})
		}
		template = rest[close+2:]
	}
	return tokens
}

// truthy implements the conditional contract: the literal "true", any other
// non-empty non-"false" string, or a positive number keeps the region;
// missing values, "false", empty strings and zero remove it.
func truthy(value string, present bool) bool {
	if !present {
		return false
	}
	switch value {
	case "", "false":
		return false
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n > 0
	}
	return true
}

// Populate evaluates conditional regions and substitutes placeholders in a
// single linear scan over the token stream. Conditionals do not nest: once a
// region is open, everything up to the first {{/if}} belongs to it, and any
// conditional-open met inside is consumed without effect. Missing placeholder
// keys substitute as empty strings, so no raw {{...}} token ever reaches the
// output.
func Populate(template string, variables VariableMap) string {
	var out strings.Builder
	out.Grow(len(template))

	inRegion := false
	keeping := true

	for _, t := range tokenize(template) {
		switch t.kind {
		case tokenCondOpen:
			if !inRegion {
				inRegion = true
				v, ok := variables[t.text]
				keeping = truthy(v, ok)
			}
			// an open inside a region is swallowed, not nested

		case tokenCondClose:
			inRegion = false
			keeping = true

		case tokenPlaceholder:
			if keeping {
				out.WriteString(variables[t.text])
			}

		case tokenLiteral:
			if keeping {
				out.WriteString(t.text)
			}
		}
	}

	return out.String()
}
