package catalog

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/meridian-shop/meridian/internal/shared"
)

var errValidation = shared.ErrValidation

var titleCaser = cases.Title(language.English)

// matchCategory resolves a submitted category against the known set,
// tolerating casing differences ("electronics" matches "Electronics").
func matchCategory(input string) (string, bool) {
	normalized := titleCaser.String(input)
	for _, c := range Categories {
		if c == normalized {
			return c, true
		}
	}
	return "", false
}
