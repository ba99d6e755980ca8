// Package identity derives patient and staff identity fields from a
// 13-digit national identity number and account metadata.
//
// The first six digits of the national ID encode the holder's birth date as
// YYMMDD. The two-digit year is resolved with a fixed century pivot: values
// up to 25 map to 2000-2025, everything else to 1900-1999. This pivot is kept
// for compatibility with existing login IDs; it mis-dates anyone born before
// 1900 or after 2025.
package identity

import (
	"errors"
	"fmt"
	"time"
)

const (
	// NationalIDLength is the required length of a national identity number.
	NationalIDLength = 13

	// centuryPivot: two-digit birth years at or below this value resolve to
	// the 2000s, everything above to the 1900s.
	centuryPivot = 25
)

var (
	ErrInvalidNationalID = errors.New("national identity number must be exactly 13 digits")
	ErrEmptyUsername     = errors.New("username is required")
)

// ValidateNationalID checks that id is exactly 13 numeric characters.
func ValidateNationalID(id string) error {
	if len(id) != NationalIDLength {
		return ErrInvalidNationalID
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return ErrInvalidNationalID
		}
	}
	return nil
}

// DateOfBirth parses the first six digits of the national ID as YYMMDD and
// resolves the century with the fixed pivot.
func DateOfBirth(nationalID string) (time.Time, error) {
	if err := ValidateNationalID(nationalID); err != nil {
		return time.Time{}, err
	}

	yy := digits2(nationalID[0:2])
	mm := digits2(nationalID[2:4])
	dd := digits2(nationalID[4:6])

	year := 1900 + yy
	if yy <= centuryPivot {
		year = 2000 + yy
	}

	dob := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components, so 990230 would silently
	// become March 2nd. Reject anything that did not round-trip.
	if dob.Year() != year || int(dob.Month()) != mm || dob.Day() != dd {
		return time.Time{}, ErrInvalidNationalID
	}

	return dob, nil
}

// Sex derives the holder's sex from digit 7 of the national ID:
// values above 4 are male, the rest female.
func Sex(nationalID string) (string, error) {
	if err := ValidateNationalID(nationalID); err != nil {
		return "", err
	}
	if nationalID[6]-'0' > 4 {
		return "M", nil
	}
	return "F", nil
}

// LoginID builds a patient login identifier: "P" + two-digit account creation
// year + the seven ID characters that follow the birth-date prefix.
func LoginID(nationalID string, createdAt time.Time) (string, error) {
	if err := ValidateNationalID(nationalID); err != nil {
		return "", err
	}
	return fmt.Sprintf("P%s%s", createdAt.Format("06"), nationalID[6:13]), nil
}

// EmployeeID builds a staff identifier from a role prefix and username,
// e.g. "D" + username for doctors.
func EmployeeID(prefix, username string) (string, error) {
	if username == "" {
		return "", ErrEmptyUsername
	}
	return prefix + username, nil
}

func digits2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}
