package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	titleMaxWords = 8
	titleMaxRunes = 60
)

// Unicode letters with optional trailing digits ("ffmpeg2" stays one word).
var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*`)

// Minimal English stop-words set for compact titles.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
	"what": {}, "how": {}, "why": {}, "can": {}, "do": {}, "does": {}, "about": {},
}

// deriveSessionTitle builds a compact display title from the first user
// message: significant words only, title-cased, capped in length. Returns ""
// when the message has nothing usable.
func deriveSessionTitle(text string) string {
	toks := titleWordRE.FindAllString(strings.ToLower(strings.TrimSpace(text)), -1)
	if len(toks) == 0 {
		return ""
	}

	caser := cases.Title(language.English)
	out := make([]string, 0, titleMaxWords)
	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		out = append(out, caser.String(w))
		if len(out) >= titleMaxWords {
			break
		}
	}
	if len(out) == 0 {
		return ""
	}

	title := strings.Join(out, " ")
	if utf8.RuneCountInString(title) > titleMaxRunes {
		title = string([]rune(title)[:titleMaxRunes])
	}
	return title
}
