package domain

import "time"

// Gender is the demographic attribute used for opposite-gender candidate
// filtering in this domain.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// Opposite returns the gender candidates are filtered to.
func (g Gender) Opposite() Gender {
	if g == GenderFemale {
		return GenderMale
	}
	return GenderFemale
}

// Valid reports whether g is one of the two supported values.
func (g Gender) Valid() bool {
	return g == GenderFemale || g == GenderMale
}

// Age bounds enforced at registration and applied as clamps on the
// candidate age window.
const (
	MinAge = 18
	MaxAge = 35
)

// User aggregates the canonical user node data. Demographic fields are
// immutable after registration except through explicit profile updates;
// deactivation flips IsActive rather than removing the node.
type User struct {
	ID         string
	Name       string
	Email      string
	Age        int
	Gender     Gender
	University string
	Career     string
	Semester   string
	Instagram  string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
