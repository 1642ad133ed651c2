package web

import (
	"html"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCity is shown when Workable has no city for a job.
const DefaultCity = "New York, NY"

// teaserSentences is how many sentences the detail header shows.
const teaserSentences = 4

var (
	printer = message.NewPrinter(language.AmericanEnglish)

	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

	compactUnits = []struct {
		size   float64
		suffix string
	}{
		{1e12, "T"},
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "K"},
	}
)

// CompactNumber formats n like en-US compact notation: 999, 1.2K, 12K, 1.5M.
func CompactNumber(n int64) string {
	if n < 0 {
		return "-" + CompactNumber(-n)
	}
	if n < 1000 {
		return printer.Sprintf("%d", n)
	}

	f := float64(n)
	for i, u := range compactUnits {
		if f < u.size {
			continue
		}
		scaled := roundCompact(f / u.size)
		// 999_950 rounds to 1000K; promote to the next unit.
		if scaled >= 1000 && i > 0 {
			next := compactUnits[i-1]
			return formatScaled(roundCompact(f/next.size)) + next.suffix
		}
		return formatScaled(scaled) + u.suffix
	}
	return printer.Sprintf("%d", n)
}

// ViewCountTitle renders the full count with en-US grouping: "1,234 views".
func ViewCountTitle(n int64) string {
	if n == 1 {
		return "1 view"
	}
	return printer.Sprintf("%d views", n)
}

// roundCompact keeps one decimal below 10 and none above, matching the two
// significant digits compact notation shows.
func roundCompact(v float64) float64 {
	if v < 10 {
		return math.Round(v*10) / 10
	}
	return math.Round(v)
}

func formatScaled(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.1f", v)
}

// FormatDate renders an RFC 3339 timestamp as "January 2, 2006". Unparseable
// input is returned unchanged.
func FormatDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("January 2, 2006")
}

// CapitalizeFirst upper-cases the first rune of s.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// DisplayCity returns city, or DefaultCity when it is blank.
func DisplayCity(city string) string {
	if strings.TrimSpace(city) == "" {
		return DefaultCity
	}
	return city
}

// Teaser strips markup from an HTML description and keeps its first few
// sentences.
func Teaser(description string) string {
	plain := html.UnescapeString(tagPattern.ReplaceAllString(description, ""))
	sentences := sentencePattern.FindAllString(plain, teaserSentences)
	for i, s := range sentences {
		sentences[i] = strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.Join(sentences, " "))
}
