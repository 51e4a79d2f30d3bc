// Package geo maps free-text Australian locations to a state or territory
//
// Addresses end with the state, so tokens are read from the end and the
// rightmost match wins. At each position the checks are
// 1 full state names ending there ("New South Wales", "queensland")
// 2 standalone abbreviations ("NSW", "Vic.")
// 3 four digit postcodes
// Capital city names only count when nothing above matched anywhere.
package geo

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// State is an Australian state or territory
type State struct {
	Code string `json:"state"`
	Name string `json:"name"`
}

// States lists every state and territory ordered by code
var States = []State{
	{Code: "ACT", Name: "Australian Capital Territory"},
	{Code: "NSW", Name: "New South Wales"},
	{Code: "NT", Name: "Northern Territory"},
	{Code: "QLD", Name: "Queensland"},
	{Code: "SA", Name: "South Australia"},
	{Code: "TAS", Name: "Tasmania"},
	{Code: "VIC", Name: "Victoria"},
	{Code: "WA", Name: "Western Australia"},
}

var (
	byCode  = map[string]State{}
	byName  = map[string]State{} // folded full name
	byAbbr  = map[string]State{} // folded abbreviation
	byCity  = map[string]State{} // folded capital city
	maxName int                  // longest name in tokens
)

func init() {
	for _, s := range States {
		byCode[s.Code] = s
		byAbbr[strings.ToLower(s.Code)] = s
		n := strings.ToLower(s.Name)
		byName[n] = s
		if k := len(strings.Fields(n)); k > maxName {
			maxName = k
		}
	}
	// colloquial
	byAbbr["tassie"] = byCode["TAS"]

	for city, code := range map[string]string{
		"canberra": "ACT", "sydney": "NSW", "darwin": "NT", "brisbane": "QLD",
		"adelaide": "SA", "hobart": "TAS", "melbourne": "VIC", "perth": "WA",
	} {
		byCity[city] = byCode[code]
	}
}

var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			cases.Fold(),
			width.Fold,
		)
	},
}

// Normalize resolves a location string to a state
// ok is false for empty or unrecognized input
func Normalize(location string) (State, bool) {
	toks := tokens(location)
	if len(toks) == 0 {
		return State{}, false
	}

	for i := len(toks) - 1; i >= 0; i-- {
		if s, ok := endingAt(toks, i); ok {
			return s, true
		}
	}
	for i := len(toks) - 1; i >= 0; i-- {
		if s, ok := byCity[toks[i]]; ok {
			return s, true
		}
	}
	return State{}, false
}

// endingAt matches a state name, abbreviation or postcode whose last token is toks[i]
func endingAt(toks []string, i int) (State, bool) {
	for k := min(maxName, i+1); k >= 2; k-- {
		if s, ok := byName[strings.Join(toks[i-k+1:i+1], " ")]; ok {
			return s, true
		}
	}
	t := toks[i]
	if s, ok := byName[t]; ok {
		return s, true
	}
	if s, ok := byAbbr[t]; ok {
		return s, true
	}
	return fromPostcode(t)
}

// tokens folds s and splits it on anything that is not a letter or digit
func tokens(s string) []string {
	s = strings.TrimSpace(strings.ToValidUTF8(s, ""))
	if s == "" {
		return nil
	}
	tr := foldPool.Get().(transform.Transformer)
	folded, _, err := transform.String(tr, s)
	tr.Reset()
	foldPool.Put(tr)
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// fromPostcode maps an Australia Post code range to its state
func fromPostcode(tok string) (State, bool) {
	if len(tok) != 4 {
		return State{}, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return State{}, false
	}
	var code string
	switch {
	case n >= 200 && n <= 299, n >= 2600 && n <= 2618, n >= 2900 && n <= 2920:
		code = "ACT"
	case n >= 800 && n <= 999:
		code = "NT"
	case n >= 1000 && n <= 2999:
		code = "NSW"
	case n >= 3000 && n <= 3999, n >= 8000 && n <= 8999:
		code = "VIC"
	case n >= 4000 && n <= 4999, n >= 9000 && n <= 9999:
		code = "QLD"
	case n >= 5000 && n <= 5999:
		code = "SA"
	case n >= 6000 && n <= 6999:
		code = "WA"
	case n >= 7000 && n <= 7999:
		code = "TAS"
	default:
		return State{}, false
	}
	return byCode[code], true
}
