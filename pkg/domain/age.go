package domain

import "time"

// AgeAt returns whole calendar years elapsed between birthDate and asOf:
// simple year subtraction, decremented by one when asOf's month/day falls
// before the birthday within asOf's year. Both inputs are explicit so callers
// inject "now" (see requestcontext.Now) and results stay deterministic.
//
// Derived value: never stored, recomputed on every read.
func AgeAt(birthDate, asOf time.Time) int {
	age := asOf.Year() - birthDate.Year()
	if asOf.Month() < birthDate.Month() ||
		(asOf.Month() == birthDate.Month() && asOf.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// MaxAgeYears bounds birth-date plausibility: a birth date implying an age
// above this is rejected at validation time.
const MaxAgeYears = 150

// PlausibleBirthDate reports whether birthDate is non-future and implies an
// age of at most MaxAgeYears as of asOf.
func PlausibleBirthDate(birthDate, asOf time.Time) bool {
	if birthDate.After(asOf) {
		return false
	}
	return AgeAt(birthDate, asOf) <= MaxAgeYears
}
