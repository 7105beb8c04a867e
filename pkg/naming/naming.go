// Package naming implements deterministic, total rewriting of OpenAPI
// source names into valid, idiomatic Go-host-language identifiers for the
// backend emitters, plus the filename sanitization used when one file is
// written per record/operation.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// restricted is the set of identifiers that collide with keywords in at
// least one supported backend language; sanitize appends a suffix rather
// than reject, so output stays deterministic and total.
var restricted = map[string]bool{
	"async": true, "enum": true, "final": true, "match": true,
	"mut": true, "ref": true, "self": true, "type": true, "use": true,
	"fn": true, "impl": true, "let": true, "mod": true, "move": true,
	"pub": true, "struct": true, "trait": true, "where": true,
}

// IsRestricted reports whether s collides with a reserved word.
func IsRestricted(s string) bool {
	return restricted[s]
}

var camelSplit = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// acronymSplit separates an uppercase run from a following capitalized
// word ("XMLHttp" -> "XML Http").
var acronymSplit = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)

// RemoveAccents strips diacritics, converting accented characters to
// their base forms (e.g. "café" -> "cafe").
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// rewriteNames applies the custom OpenAPI-sourced rewrites that predate
// case conversion: a couple of literal numeric-sign identifiers some
// specs use for reactions/votes, and punctuation that case conversion
// alone wouldn't remove cleanly.
func rewriteNames(s string) string {
	if s == "+1" {
		return "PlusOne"
	}
	if s == "-1" {
		return "MinusOne"
	}
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.NewReplacer("@", "", "'", "", "+", "").Replace(s)
	s = strings.ReplaceAll(s, ":", " ")
	s = strings.ReplaceAll(s, ".", "_")
	return s
}

// toSnake converts an already-rewritten string to snake_case, handling
// camelCase/PascalCase and acronym boundaries. A digit run stays attached
// to the letters before it ("contractor1099" is not split).
func toSnake(s string) string {
	s = RemoveAccents(s)
	s = acronymSplit.ReplaceAllString(s, "${1}_${2}")
	s = camelSplit.ReplaceAllString(s, "${1}_${2}")
	parts := splitWords(s)
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, "_")
}

// toPascal converts an already-rewritten string to PascalCase.
func toPascal(s string) string {
	s = RemoveAccents(s)
	s = acronymSplit.ReplaceAllString(s, "$1 $2")
	s = camelSplit.ReplaceAllString(s, "$1 $2")
	parts := splitWords(s)
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		if len(p) > 1 {
			b.WriteString(strings.ToLower(p[1:]))
		}
	}
	return b.String()
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

func splitWords(s string) []string {
	raw := nonAlnum.Split(s, -1)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SanitizeIdent converts s into a snake_case identifier, appending an
// underscore if it collides with a reserved word and prefixing an
// underscore if it would otherwise start with a digit. Idempotent:
// SanitizeIdent(SanitizeIdent(x)) == SanitizeIdent(x). Never returns the
// empty string — panics instead, since an invalid identifier is a
// test-visible, unrecoverable authoring bug in the source spec.
func SanitizeIdent(s string) string {
	original := s
	rewritten := rewriteNames(s)
	out := toSnake(rewritten)
	if IsRestricted(out) {
		out += "_"
	}
	if out != "" && unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	assertValidIdent(out, original)
	return out
}

// SanitizeStruct converts s into a PascalCase identifier, appending
// "Struct" on a reserved-word collision. Idempotent and total, mirroring
// SanitizeIdent's guarantees. Rejects (panics on) a numeric-leading
// result, since no legal rewrite exists for a name that is purely
// numeric or starts with a digit in Pascal case.
func SanitizeStruct(s string) string {
	original := s
	rewritten := rewriteNames(s)
	out := toPascal(rewritten)
	if IsRestricted(out) {
		out += "Struct"
	}
	assertValidIdent(out, original)
	return out
}

// SanitizeFilename is the snake-cased form used when deriving output file
// names from model or service names.
func SanitizeFilename(s string) string {
	return SanitizeIdent(s)
}

func assertValidIdent(s, original string) {
	if s == "" {
		panic(fmt.Sprintf("naming: empty identifier from %q", original))
	}
	if unicode.IsDigit(rune(s[0])) {
		panic(fmt.Sprintf("naming: numeric-leading identifier %q from %q", s, original))
	}
	if strings.Contains(s, ".") {
		panic(fmt.Sprintf("naming: dot in identifier %q from %q", s, original))
	}
}

// AnonymousArrayItemName picks a name for an anonymous array element
// type when inlining it, trying in order: the singularized parent name
// (if the parent name is itself plural), "{Parent}{SingularChild}",
// "{Child}Item", "{Parent}{Child}Item". taken is consulted to skip names
// already in use; ok is false if every candidate collides, in which case
// the caller should fall back to Ty::Any.
func AnonymousArrayItemName(parent, child string, taken func(string) bool) (string, bool) {
	candidates := make([]string, 0, 4)
	if singular, isPlural := singularize(parent); isPlural {
		candidates = append(candidates, SanitizeStruct(singular))
	}
	if child != "" {
		candidates = append(candidates, SanitizeStruct(parent)+SanitizeStruct(singularizeOnly(child)))
		candidates = append(candidates, SanitizeStruct(child)+"Item")
		candidates = append(candidates, SanitizeStruct(parent)+SanitizeStruct(child)+"Item")
	} else {
		candidates = append(candidates, SanitizeStruct(parent)+"Item")
	}
	for _, c := range candidates {
		if !taken(c) {
			return c, true
		}
	}
	return "", false
}

// singularize returns the singular form of a plausibly-plural word and
// whether it looked plural at all (a trailing "s" not preceded by
// another "s", to avoid mangling words like "Address").
func singularize(s string) (string, bool) {
	if len(s) > 1 && strings.HasSuffix(s, "ies") {
		return s[:len(s)-3] + "y", true
	}
	if len(s) > 2 && strings.HasSuffix(s, "ses") {
		return s[:len(s)-2], true
	}
	if len(s) > 1 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") {
		return s[:len(s)-1], true
	}
	return s, false
}

func singularizeOnly(s string) string {
	out, _ := singularize(s)
	return out
}
