package extract

import "strings"

// Abbreviations whose trailing period does not end a sentence.
var abbreviations = map[string]bool{
	"inc.": true, "corp.": true, "ltd.": true, "llc.": true, "co.": true,
	"mr.": true, "mrs.": true, "ms.": true, "dr.": true, "jr.": true,
	"sr.": true, "st.": true, "no.": true, "vs.": true, "approx.": true,
	"est.": true, "e.g.": true, "i.e.": true, "etc.": true, "u.s.": true,
	"u.k.": true, "fig.": true, "al.": true,
}

// splitSentences splits text on sentence terminators, with lookahead so
// that decimal points ("$1.5 billion") and known abbreviations do not cause
// false breaks. Sentences outside [minLen, maxLen] are discarded.
func splitSentences(text string, minLen, maxLen int) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= minLen && len(sentence) <= maxLen {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// A terminator inside a decimal or at text end has no space after it;
		// the remainder is flushed below.
		if i+1 >= len(text) || (text[i+1] != ' ' && text[i+1] != '\t') {
			continue
		}
		if r == '.' && endsWithAbbreviation(current.String()) {
			continue
		}
		flush()
	}

	if current.Len() > 0 {
		flush()
	}

	return sentences
}

// endsWithAbbreviation reports whether the buffer's last word is a known
// abbreviation or a single-letter initial ("J.", "U.S.").
func endsWithAbbreviation(s string) bool {
	s = strings.TrimRight(s, " \t")
	word := s
	if idx := strings.LastIndexAny(s, " \t"); idx >= 0 {
		word = s[idx+1:]
	}
	if abbreviations[strings.ToLower(word)] {
		return true
	}
	return len(word) == 2 && word[1] == '.' && word[0] >= 'A' && word[0] <= 'Z'
}
