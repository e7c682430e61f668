package purity

import (
	"sort"
	"unicode"
)

// Family is a coarse writing-system bucket used for composition scoring
type Family string

// Families the validator distinguishes. Anything else letters-wise lands in Other
const (
	FamilyArabic   Family = "arabic"
	FamilyLatin    Family = "latin"
	FamilyCyrillic Family = "cyrillic"
	FamilyGreek    Family = "greek"
	FamilyHebrew   Family = "hebrew"
	FamilyHan      Family = "han"
	FamilyOther    Family = "other"
)

// familyOf buckets a letter rune; callers must pre-filter with unicode.IsLetter
func familyOf(r rune) Family {
	switch {
	case unicode.In(r, unicode.Arabic):
		return FamilyArabic
	case unicode.In(r, unicode.Cyrillic):
		return FamilyCyrillic
	case unicode.In(r, unicode.Greek):
		return FamilyGreek
	case unicode.In(r, unicode.Hebrew):
		return FamilyHebrew
	case unicode.In(r, unicode.Han), unicode.In(r, unicode.Hiragana), unicode.In(r, unicode.Katakana):
		return FamilyHan
	case unicode.In(r, unicode.Latin):
		return FamilyLatin
	default:
		return FamilyOther
	}
}

// FamilyForLang maps a BCP-47-ish lang code onto the script family its text is written in
func FamilyForLang(lang string) Family {
	switch lang {
	case "ar", "fa", "ur":
		return FamilyArabic
	default:
		return FamilyLatin
	}
}

// countFamilies tallies letters per family; digits, punctuation and
// whitespace never enter the denominator
func countFamilies(s string) (counts map[Family]int, letters int) {
	counts = make(map[Family]int, 4)
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		counts[familyOf(r)]++
	}
	return counts, letters
}

// Runs returns the contiguous runs of letters from family f in s,
// longest first. Feedback signature extraction mines these for
// contamination patterns
func Runs(s string, f Family) []string {
	var out []string
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) && familyOf(r) == f {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// LongestRun returns the byte length of the longest contiguous run of
// letters from family f in s. Used by feedback signature extraction and
// tests asserting "no Latin substring longer than N letters"
func LongestRun(s string, f Family) int {
	best, cur := 0, 0
	for _, r := range s {
		if unicode.IsLetter(r) && familyOf(r) == f {
			cur++
			if cur > best {
				best = cur
			}
			continue
		}
		cur = 0
	}
	return best
}
