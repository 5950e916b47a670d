package orders

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// matchCity resolves a submitted delivery city against the known set,
// tolerating casing differences ("ben arous" matches "Ben Arous").
func matchCity(input string) (string, bool) {
	normalized := titleCaser.String(input)
	for _, c := range Cities {
		if c == normalized {
			return c, true
		}
	}
	return "", false
}
