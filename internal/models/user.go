package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// User represents a registered user account.
type User struct {
	// ID is the username. It is unique and immutable.
	ID string

	// DisplayName is the user's full name as entered at signup.
	DisplayName string

	// Email is the user's email address (unique, stored lower-cased).
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// Location is the normalized "City, ST" string used to match local events.
	Location string

	// Age in years. Zero when not provided.
	Age int

	// Gender is a single upper-case letter, or empty.
	Gender string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}

// NewUser creates a user with a creation timestamp of now.
func NewUser(username, displayName, email, passwordHash string) *User {
	return &User{
		ID:           username,
		DisplayName:  displayName,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// NormalizeLocation formats a city and state as "City, ST".
// The city is title-cased and the state upper-cased and clipped to two letters.
// Returns an empty string if either part is missing.
func NormalizeLocation(city, state string) string {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	if city == "" || state == "" {
		return ""
	}

	state = strings.ToUpper(state)
	if len(state) > 2 {
		state = state[:2]
	}

	return cases.Title(language.English).String(city) + ", " + state
}

// NormalizeGender keeps the first letter of the given gender, upper-cased.
func NormalizeGender(gender string) string {
	gender = strings.TrimSpace(gender)
	if gender == "" {
		return ""
	}
	return strings.ToUpper(gender[:1])
}
