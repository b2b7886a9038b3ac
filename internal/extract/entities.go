package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/credenceproj/credence/internal/model"
)

var (
	// quantityRe captures an optional currency symbol, the number, an
	// optional magnitude word/suffix and an optional percent marker.
	quantityRe = regexp.MustCompile(`(?i)([$€£]?)\s*(\d+(?:,\d{3})*(?:\.\d+)?)\s*(thousand|million|billion|trillion|[kmbt]\b)?\s*(%|percent\b)?`)

	yearRe      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	monthDateRe = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?,?(?:\s+\d{4})?`)
	quarterRe   = regexp.MustCompile(`(?i)\bq[1-4]\s+\d{4}\b`)

	// currencyWordRe spots a spelled-out currency right after a number
	// ("5 million dollars").
	currencyWordRe = regexp.MustCompile(`(?i)^\s*(?:dollars|usd|euros|eur|pounds|gbp)\b`)
)

// Entities extracts the typed entity set from arbitrary text. Used outside
// the extractor to read quantities out of source excerpts.
func Entities(text string) model.EntitySet {
	return extractEntities(text)
}

// extractEntities pulls typed entities out of one sentence. Unparseable
// numeric literals are skipped, never fatal.
func extractEntities(sentence string) model.EntitySet {
	var set model.EntitySet

	dateSpans := monthDateRe.FindAllStringIndex(sentence, -1)
	dateSpans = append(dateSpans, quarterRe.FindAllStringIndex(sentence, -1)...)

	for _, m := range quantityRe.FindAllStringSubmatchIndex(sentence, -1) {
		if m[0] > 0 && isAlnum(sentence[m[0]-1]) {
			continue // Mid-token digits ("Q2", "B2B") are not quantities
		}
		if insideSpan(dateSpans, m[0]) {
			continue // Day-of-month digits are part of the date
		}
		sym := matchGroup(sentence, m, 1)
		num := matchGroup(sentence, m, 2)
		mag := matchGroup(sentence, m, 3)
		pct := matchGroup(sentence, m, 4)

		value, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
		if err != nil {
			continue
		}

		unit := model.UnitCount
		switch {
		case pct != "":
			unit = model.UnitPercent
		case sym != "":
			unit = model.UnitCurrency
		case currencyWordRe.MatchString(sentence[m[1]:]):
			unit = model.UnitCurrency
		}

		// Bare four-digit integers in the calendar range are years, not
		// measurements; yearRe picks them up below.
		if unit == model.UnitCount && mag == "" && isYearLike(num) {
			continue
		}

		set.Quantities = append(set.Quantities, model.Quantity{
			Value: value * magnitudeFactor(mag),
			Unit:  unit,
			Raw:   strings.TrimSpace(sentence[m[0]:m[1]]),
		})
	}

	for _, y := range yearRe.FindAllString(sentence, -1) {
		if n, err := strconv.Atoi(y); err == nil {
			set.Years = append(set.Years, n)
		}
	}

	set.Dates = append(set.Dates, monthDateRe.FindAllString(sentence, -1)...)
	set.Dates = append(set.Dates, quarterRe.FindAllString(sentence, -1)...)
	set.Names = extractNames(sentence)

	return set
}

func matchGroup(s string, m []int, i int) string {
	if m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}

func magnitudeFactor(mag string) float64 {
	switch strings.ToLower(strings.TrimSpace(mag)) {
	case "k", "thousand":
		return 1e3
	case "m", "million":
		return 1e6
	case "b", "billion":
		return 1e9
	case "t", "trillion":
		return 1e12
	default:
		return 1
	}
}

func isYearLike(num string) bool {
	if len(num) != 4 || strings.ContainsAny(num, ".,") {
		return false
	}
	n, err := strconv.Atoi(num)
	return err == nil && n >= 1900 && n <= 2099
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func insideSpan(spans [][]int, pos int) bool {
	for _, span := range spans {
		if pos >= span[0] && pos < span[1] {
			return true
		}
	}
	return false
}

// extractNames collects runs of capitalized words as proper-noun
// candidates. A lone capitalized word at sentence start is skipped — it is
// usually just the sentence opener.
func extractNames(sentence string) []string {
	tokens := strings.Fields(sentence)
	var names []string
	var run []string
	runStart := -1

	flush := func() {
		if len(run) == 0 {
			return
		}
		if !(len(run) == 1 && runStart == 0) {
			names = append(names, strings.Join(run, " "))
		}
		run = nil
		runStart = -1
	}

	for i, tok := range tokens {
		word := strings.Trim(tok, ".,;:!?()\"'")
		if isCapitalized(word) {
			if len(run) == 0 {
				runStart = i
			}
			run = append(run, word)
			if strings.ContainsAny(tok, ".,;:!?") {
				flush()
			}
			continue
		}
		flush()
	}
	flush()

	return dedupeStrings(names)
}

func isCapitalized(word string) bool {
	if len(word) < 2 {
		return false
	}
	if word[0] < 'A' || word[0] > 'Z' {
		return false
	}
	for _, r := range word[1:] {
		if !unicode.IsLetter(r) && r != '&' && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

func dedupeStrings(items []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, item := range items {
		key := strings.ToLower(item)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, item)
		}
	}
	return unique
}
