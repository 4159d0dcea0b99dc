package model

// CreatePersonRequest - POST /people
type CreatePersonRequest struct {
	Nickname  string   `json:"nickname"`
	Name      string   `json:"name"`
	BirthDate string   `json:"birthDate"`
	Stack     []string `json:"stack"`
}

// ValidatedFields is what a successful validation hands to the create path.
type ValidatedFields struct {
	Stack  []string // never nil
	Search string   // lowercase search blob
}

// ToEntity converts the request to a Person with the given id.
// The stack is copied so the entity does not alias the request body.
func (r CreatePersonRequest) ToEntity(id string) Person {
	return Person{
		ID:        id,
		Nickname:  r.Nickname,
		Name:      r.Name,
		BirthDate: r.BirthDate,
		Stack:     r.Stack,
	}.Clone()
}
