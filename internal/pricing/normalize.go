package pricing

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// cityAliases maps folded (lower-case, accent-free) spellings to the canonical
// names used in the tariff table, most specific first.
var cityAliases = map[string][]string{
	"jujuy":                         {"San Salvador de Jujuy", "Jujuy"},
	"san salvador de jujuy":         {"San Salvador de Jujuy", "Jujuy"},
	"s.s. de jujuy":                 {"San Salvador de Jujuy", "Jujuy"},
	"ss de jujuy":                   {"San Salvador de Jujuy", "Jujuy"},
	"ss jujuy":                      {"San Salvador de Jujuy", "Jujuy"},
	"ssj":                           {"San Salvador de Jujuy", "Jujuy"},
	"buenos aires":                  {"Buenos Aires", "Capital Federal", "CABA"},
	"bs as":                         {"Buenos Aires", "Capital Federal", "CABA"},
	"bs. as.":                       {"Buenos Aires", "Capital Federal", "CABA"},
	"bsas":                          {"Buenos Aires", "Capital Federal", "CABA"},
	"caba":                          {"Capital Federal", "Buenos Aires", "CABA"},
	"capital":                       {"Capital Federal", "Buenos Aires", "CABA"},
	"capital federal":               {"Capital Federal", "Buenos Aires", "CABA"},
	"cap fed":                       {"Capital Federal", "Buenos Aires", "CABA"},
	"ciudad de buenos aires":        {"Capital Federal", "Buenos Aires", "CABA"},
	"salta":                         {"Salta"},
	"tucuman":                       {"San Miguel de Tucumán", "Tucumán"},
	"san miguel de tucuman":         {"San Miguel de Tucumán", "Tucumán"},
	"cordoba":                       {"Córdoba"},
	"palpala":                       {"Palpalá"},
	"perico":                        {"Perico"},
	"san pedro":                     {"San Pedro de Jujuy", "San Pedro"},
	"san pedro de jujuy":            {"San Pedro de Jujuy", "San Pedro"},
	"lgsm":                          {"Libertador General San Martín", "Libertador"},
	"libertador":                    {"Libertador General San Martín", "Libertador"},
	"libertador gral san martin":    {"Libertador General San Martín", "Libertador"},
	"libertador general san martin": {"Libertador General San Martín", "Libertador"},
	"humahuaca":                     {"Humahuaca"},
	"tilcara":                       {"Tilcara"},
	"la quiaca":                     {"La Quiaca"},
}

// NormalizeCity returns the canonical tariff spellings for a free-text city
// name. Unknown names come back as a single trimmed candidate in their
// original case. The result always has at least one element.
func NormalizeCity(name string) []string {
	trimmed := strings.TrimSpace(name)
	if names, ok := cityAliases[foldCity(trimmed)]; ok {
		return slices.Clone(names)
	}
	return []string{trimmed}
}

// foldCity lower-cases, strips diacritics and collapses inner whitespace.
func foldCity(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
