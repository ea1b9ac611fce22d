package entity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	folder     = cases.Fold()
	stripMarks = runes.Remove(runes.In(unicode.Mn))
)

// NameKey normaliza un nombre para unicidad: sin mayúsculas, sin tildes y con espacios colapsados.
// "Acetaminofén  500mg" y "ACETAMINOFEN 500MG" producen la misma clave.
func NameKey(name string) string {
	t := transform.Chain(norm.NFD, stripMarks, norm.NFC)
	s, _, err := transform.String(t, name)
	if err != nil {
		s = name
	}
	return strings.Join(strings.Fields(folder.String(s)), " ")
}
