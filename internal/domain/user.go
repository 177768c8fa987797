package domain

import "fmt"

// ErrInvalidUserID is returned when a user id is zero or negative.
var ErrInvalidUserID = fmt.Errorf("%w: user ID must be positive", ErrValidation)

// User is the external identity a dictionary belongs to. Users are created
// on first interaction and are never deleted by this core; removal cascades
// from the upstream identity store.
type User struct {
	ID        int64  `json:"user_id"`
	FirstName string `json:"first_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Validate checks the user identity.
func (u *User) Validate() error {
	if u.ID <= 0 {
		return ErrInvalidUserID
	}
	return nil
}

// Settings holds per-user display flags.
type Settings struct {
	UserID int64 `json:"user_id"`
	// ShowForms controls whether full grammatical forms (plural, gender
	// variants, conjugation tables) are included when a word is rendered.
	ShowForms bool `json:"show_forms"`
}

// TenseSetting is a per-(user, tense) visibility toggle. A tense with no
// stored row is treated as active.
type TenseSetting struct {
	UserID int64 `json:"user_id"`
	Tense  Tense `json:"tense"`
	Active bool  `json:"active"`
}
