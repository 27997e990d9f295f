// Package extract holds the stateless text heuristics that pull structured
// fields out of a raw user utterance. Every function is pure and returns a
// partial map: an absent key means "not detected", never a placeholder.
// Malformed numeric text simply fails to populate a field; nothing here
// returns an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// price patterns in priority order: explicit range, "under $X", "up to $X".
	// First match wins; the patterns are mutually exclusive by construction.
	priceRangeRe = regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})*(?:k|K)?)\s*(?:to|-)\s*\$?(\d{1,3}(?:,\d{3})*(?:k|K)?)`)
	priceUnderRe = regexp.MustCompile(`(?i)under\s*\$?(\d{1,3}(?:,\d{3})*(?:k|K)?)`)
	priceUpToRe  = regexp.MustCompile(`(?i)up\s*to\s*\$?(\d{1,3}(?:,\d{3})*(?:k|K)?)`)

	bedroomRe = regexp.MustCompile(`(?i)(\d+)\s*(?:bed|bedroom)`)

	locationInRe   = regexp.MustCompile(`(?i)in\s+([A-Za-z\s]+?)(?:\s|$|,)`)
	locationNearRe = regexp.MustCompile(`(?i)near\s+([A-Za-z\s]+?)(?:\s|$|,)`)

	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)

	currencyRe = regexp.MustCompile(`\$?(\d{1,3}(?:,\d{3})*(?:k|K)?)`)
)

// weekdays in fixed Monday→Sunday order. PreferredDay scans this list, not
// the text, so the first hit is the earliest day of the week mentioned
// anywhere in the utterance.
var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// parsePrice converts a matched currency token to an integer amount.
// Commas are thousands separators; a trailing k/K multiplies by 1000.
func parsePrice(s string) (int, bool) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, false
	}
	if strings.HasSuffix(strings.ToLower(s), "k") {
		f, err := strconv.ParseFloat(s[:len(s)-1], 64)
		if err != nil {
			return 0, false
		}
		return int(f * 1000), true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PriceRange detects a price constraint: a two-sided "$X to/- $Y" range, or
// a one-sided "under $X" / "up to $X" upper bound.
func PriceRange(text string) map[string]any {
	out := map[string]any{}
	if m := priceRangeRe.FindStringSubmatch(text); m != nil {
		if lo, ok := parsePrice(m[1]); ok {
			out["price_min"] = lo
		}
		if hi, ok := parsePrice(m[2]); ok {
			out["price_max"] = hi
		}
		return out
	}
	for _, re := range []*regexp.Regexp{priceUnderRe, priceUpToRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if hi, ok := parsePrice(m[1]); ok {
				out["price_max"] = hi
			}
			return out
		}
	}
	return out
}

// BedroomCount detects the first integer immediately preceding "bed" or
// "bedroom".
func BedroomCount(text string) map[string]any {
	out := map[string]any{}
	if m := bedroomRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out["bedrooms"] = n
		}
	}
	return out
}

// Location detects the first "in <words>" phrase, then "near <words>".
// A match on the earlier preposition ends the search even when the captured
// phrase is too short (≤ 2 chars after trimming) to be used.
func Location(text string) map[string]any {
	out := map[string]any{}
	for _, re := range []*regexp.Regexp{locationInRe, locationNearRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if loc := strings.TrimSpace(m[1]); len(loc) > 2 {
				out["location"] = loc
			}
			break
		}
	}
	return out
}

// ContactInfo detects an email address and a North-American phone number,
// at most one of each.
func ContactInfo(text string) map[string]any {
	out := map[string]any{}
	if m := emailRe.FindString(text); m != "" {
		out["email"] = m
	}
	if m := phoneRe.FindString(text); m != "" {
		out["phone"] = m
	}
	return out
}

// Budget accepts a currency token as a budget only when the utterance also
// contains "budget" or "afford"; unrelated numbers are ignored.
func Budget(text string) map[string]any {
	out := map[string]any{}
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "budget") && !strings.Contains(lower, "afford") {
		return out
	}
	if m := currencyRe.FindStringSubmatch(text); m != nil && m[1] != "" {
		if n, ok := parsePrice(m[1]); ok {
			out["budget"] = n
		}
	}
	return out
}

// PreferredDay detects a weekday name, scanning weekdays in Monday→Sunday
// list order so the earliest day of the week wins over text order.
func PreferredDay(text string) map[string]any {
	out := map[string]any{}
	lower := strings.ToLower(text)
	for _, day := range weekdays {
		if strings.Contains(lower, day) {
			out["preferred_day"] = day
			break
		}
	}
	return out
}

// SearchCriteria combines the property-search extractors into one criteria
// map: price bounds, bedrooms, location.
func SearchCriteria(text string) map[string]any {
	criteria := PriceRange(text)
	for k, v := range BedroomCount(text) {
		criteria[k] = v
	}
	for k, v := range Location(text) {
		criteria[k] = v
	}
	return criteria
}

// QualificationInfo combines the lead-qualification extractors: budget plus
// contact fields.
func QualificationInfo(text string) map[string]any {
	info := Budget(text)
	for k, v := range ContactInfo(text) {
		info[k] = v
	}
	return info
}
