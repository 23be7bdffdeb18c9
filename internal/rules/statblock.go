package rules

import (
	"regexp"
	"strconv"
	"strings"
)

// statEntryPattern matches one "<Name> [+|-]<int>" token, tolerating
// whitespace on either side of the sign
var statEntryPattern = regexp.MustCompile(`^(.*?)\s*([+-])?\s*(\d+)$`)

// ParseStatBlock parses a free-text "Name +N, Name +N" list into a mapping of
// canonical attribute name to integer. Entries that do not carry a trailing
// number are skipped. Empty input yields an empty mapping.
func ParseStatBlock(text string) map[string]int {
	result := make(map[string]int)
	if strings.TrimSpace(text) == "" {
		return result
	}

	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		matches := statEntryPattern.FindStringSubmatch(token)
		if matches == nil {
			continue
		}

		name := CanonicalName(matches[1])
		if name == "" {
			continue
		}

		value, err := strconv.Atoi(matches[3])
		if err != nil {
			continue
		}
		if matches[2] == "-" {
			value = -value
		}

		result[name] = value
	}

	return result
}
