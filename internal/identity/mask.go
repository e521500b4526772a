package identity

import "strings"

// MaskID hides all but the last numTrailingShown characters of id behind
// asterisks while keeping its length. Negative counts hide everything and
// counts beyond the length show everything.
func MaskID(id string, numTrailingShown int) string {
	runes := []rune(id)
	shown := max(0, min(numTrailingShown, len(runes)))
	hidden := len(runes) - shown
	return strings.Repeat("*", hidden) + string(runes[hidden:])
}
