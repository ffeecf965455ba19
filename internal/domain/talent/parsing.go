package talent

import "strings"

// SplitEmailAddresses splits a free-text cell holding one or two addresses
// separated by comma, semicolon or whitespace.
func SplitEmailAddresses(cell string) []string {
	replaced := strings.NewReplacer(",", " ", ";", " ").Replace(cell)

	out := make([]string, 0, 2)
	for _, token := range strings.Fields(replaced) {
		out = append(out, strings.TrimSpace(token))
	}
	return out
}

// YesIsTrue translates a "Yes"/other survey answer into a boolean.
func YesIsTrue(response string) bool {
	return strings.TrimSpace(response) == "Yes"
}

// TriState translates a "Yes"/"No"/other answer into an optional boolean:
// anything that is neither keeps the "prefer not to say" null.
func TriState(response string) *bool {
	switch strings.TrimSpace(response) {
	case "Yes":
		v := true
		return &v
	case "No":
		v := false
		return &v
	default:
		return nil
	}
}

// NonEmpty reports whether a cell carries a value; meta/delta membership is
// recorded by presence, not content.
func NonEmpty(cell string) bool {
	return strings.TrimSpace(cell) != ""
}
