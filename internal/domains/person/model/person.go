package model

import "strings"

// Person is the canonical registry entity.
// The id is generated once by the instance that creates the record and never changes.
type Person struct {
	// Identity - UUID v4 in canonical string form
	ID string `json:"id" db:"id"`

	// Human-facing handle, unique across both instances (enforced by the database)
	Nickname string `json:"nickname" db:"nickname"`

	Name      string `json:"name" db:"name"`
	BirthDate string `json:"birthDate" db:"birth_date"` // YYYY-MM-DD

	// Optional ordered tags. nil means absent and is kept distinct from an empty list.
	Stack []string `json:"stack" db:"stack"`
}

// Clone returns a copy that shares no memory with p.
func (p Person) Clone() Person {
	if p.Stack != nil {
		stack := make([]string, len(p.Stack))
		copy(stack, p.Stack)
		p.Stack = stack
	}
	return p
}

// SearchText returns the lowercase search blob of p.
func (p Person) SearchText() string {
	return SearchBlob(p.Nickname, p.Name, p.Stack)
}

// SearchBlob joins nickname, name and stack tags with single spaces and lower-cases the result.
func SearchBlob(nickname, name string, stack []string) string {
	parts := make([]string, 0, len(stack)+2)
	parts = append(parts, nickname, name)
	parts = append(parts, stack...)
	return strings.ToLower(strings.Join(parts, " "))
}
