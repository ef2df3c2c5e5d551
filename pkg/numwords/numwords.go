// Package numwords turns spoken number phrases into integers.
//
// The grammar is deliberately small: digit tokens and cardinal words below
// one hundred, combined with the "thousand" and "million" multipliers.
// "hundred" is not a multiplier; "two hundred" parses as 2.
package numwords

import (
	"math"
	"strconv"
	"strings"
)

var units = map[string]int64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tens = map[string]int64{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var multipliers = map[string]int64{
	"thousand": 1_000,
	"million":  1_000_000,
}

// Parse converts a sequence of lowercase words into an integer.
//
// A number token overwrites the pending value, a multiplier folds the pending
// value into the total, "and" is skipped and every other word is ignored.
// Parse never fails; input without number tokens yields 0, and so does a
// phrase whose value does not fit in an int64.
func Parse(words []string) int64 {
	n, _ := parse(words)
	return n
}

// ParseTranscript splits a raw transcript into words and parses it. The
// boolean reports whether any number token was present, which separates a
// spoken zero from input that contained no number at all. It is false when
// the value overflows.
func ParseTranscript(text string) (int64, bool) {
	return parse(Words(text))
}

// Words lowercases text, splits it on whitespace and hyphens and strips the
// thousands separators and periods that transcribers insert.
func Words(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-'
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.NewReplacer(",", "", ".", "").Replace(f)
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

func parse(words []string) (int64, bool) {
	var (
		total, current int64
		found          bool
		afterTens      bool
	)

	for _, raw := range words {
		word := strings.NewReplacer(",", "", ".", "").Replace(strings.ToLower(raw))

		if isDigits(word) {
			v, err := strconv.ParseInt(word, 10, 64)
			if err != nil {
				// overflow
				afterTens = false
				continue
			}
			current = v
			found = true
			afterTens = false
			continue
		}

		if v, ok := units[word]; ok {
			// "twenty five" is one spoken number.
			if afterTens && v > 0 && v < 10 {
				current += v
			} else {
				current = v
			}
			found = true
			afterTens = false
			continue
		}

		if v, ok := tens[word]; ok {
			current = v
			found = true
			afterTens = true
			continue
		}

		afterTens = false

		if word == "and" {
			continue
		}

		if m, ok := multipliers[word]; ok {
			if current > math.MaxInt64/m || total > math.MaxInt64-current*m {
				return 0, false
			}
			total += current * m
			current = 0
		}
	}

	if total > math.MaxInt64-current {
		return 0, false
	}
	return total + current, found
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
