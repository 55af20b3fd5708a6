// Package export derives the names and locations of per-item export artifacts.
package export

import (
	"path"
	"regexp"
	"strings"

	"github.com/mattsolo1/grove-showcase/pkg/models"
)

// nameSeparator replaces " + " and runs of whitespace in sanitized names.
const nameSeparator = "  "

var (
	parensPattern     = regexp.MustCompile(`[()]`)
	illegalPattern    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)
	plusPattern       = regexp.MustCompile(` \+ `)
	whitespacePattern = regexp.MustCompile(`\s{2,}`)
)

// SanitizeName makes an item name safe for use in a filename: parentheses
// and characters illegal in filenames are removed, and " + " as well as any
// run of two or more whitespace characters become exactly two spaces.
func SanitizeName(name string) string {
	s := parensPattern.ReplaceAllString(name, "")
	s = strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
	s = illegalPattern.ReplaceAllString(s, "")
	s = plusPattern.ReplaceAllString(s, nameSeparator)
	s = whitespacePattern.ReplaceAllString(s, nameSeparator)
	return strings.TrimSpace(s)
}

// Filename is the artifact filename of item: "{id}_{sanitized name}.json".
func Filename(item *models.CatalogItem) string {
	return item.ID + "_" + SanitizeName(item.Name) + ".json"
}

// Ref addresses the export artifact of one item. ID is carried separately
// so sources can look the artifact up by id when File has been renamed.
type Ref struct {
	Dir  string
	ID   string
	File string
}

// RefOf returns the artifact reference of item.
func RefOf(item *models.CatalogItem) Ref {
	return Ref{Dir: item.Type.Dir(), ID: item.ID, File: Filename(item)}
}

// Path is the artifact location relative to the catalog root.
func (r Ref) Path() string {
	return path.Join(r.Dir, r.File)
}

// ArtifactPath is the artifact location relative to the catalog root.
func ArtifactPath(item *models.CatalogItem) string {
	return RefOf(item).Path()
}
