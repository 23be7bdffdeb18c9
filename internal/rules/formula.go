package rules

import (
	"regexp"
	"strings"
)

// placeholderPattern matches @{...} attribute placeholders in formulas
var placeholderPattern = regexp.MustCompile(`@\{([^{}]*)\}`)

// NormalizeFormula rewrites every @{...} placeholder in a formula string to
// use canonical attribute names: ability abbreviations expand to full names,
// a trailing "_mod" becomes a "-modifier" suffix on the full name, and any
// other underscore becomes a hyphen. Strings without placeholders pass
// through untouched. Normalizing an already-normalized string is a no-op.
func NormalizeFormula(formula string) string {
	return placeholderPattern.ReplaceAllStringFunc(formula, func(match string) string {
		inner := match[2 : len(match)-1]
		return "@{" + normalizePlaceholder(inner) + "}"
	})
}

func normalizePlaceholder(name string) string {
	trimmed := strings.TrimSpace(name)

	base := trimmed
	isModifier := false
	if lower := strings.ToLower(trimmed); strings.HasSuffix(lower, "_mod") {
		base = trimmed[:len(trimmed)-len("_mod")]
		isModifier = true
	}

	if full, ok := ExpandAbility(base); ok {
		base = full
	}
	base = strings.ReplaceAll(base, "_", "-")

	if isModifier {
		return base + "-modifier"
	}
	return base
}

// NormalizeValue recursively rewrites formula placeholders in any decoded
// JSON value. Strings are normalized, maps and slices are walked, and
// everything else passes through unchanged.
func NormalizeValue(value any) any {
	switch v := value.(type) {
	case string:
		return NormalizeFormula(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, entry := range v {
			out[key] = NormalizeValue(entry)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, entry := range v {
			out[i] = NormalizeValue(entry)
		}
		return out
	default:
		return value
	}
}
