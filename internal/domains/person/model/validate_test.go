package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() CreatePersonRequest {
	return CreatePersonRequest{
		Nickname:  "zeca",
		Name:      "Jose",
		BirthDate: "1990-05-10",
		Stack:     []string{"C#", "Go"},
	}
}

func TestValidBirthDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2000-02-29", true},
		{"1900-02-29", false},
		{"2024-04-31", false},
		{"2024-04-30", true},
		{"2024-01-31", true},
		{"2024-13-01", false},
		{"2024-00-10", false},
		{"2024-01-00", false},
		{"0000-01-01", false},
		{"0001-01-01", true},
		{"1990-5-10", false},
		{"90-05-10", false},
		{"1990/05/10", false},
		{"1990-05-10T00:00:00Z", false},
		{" 1990-05-10", false},
		{"-990-05-10", false},
		{"abcd-ef-gh", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidBirthDate(tt.date))
		})
	}
}

func TestValidBirthDate_EmptyIsNotADate(t *testing.T) {
	assert.False(t, ValidBirthDate(""))

	req := validRequest()
	req.BirthDate = ""
	_, err := Validate(req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidate_FieldLengths(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreatePersonRequest)
		wantErr bool
	}{
		{"valid", func(r *CreatePersonRequest) {}, false},
		{"nickname 32 chars", func(r *CreatePersonRequest) { r.Nickname = strings.Repeat("a", 32) }, false},
		{"nickname 33 chars", func(r *CreatePersonRequest) { r.Nickname = strings.Repeat("a", 33) }, true},
		{"nickname empty", func(r *CreatePersonRequest) { r.Nickname = "" }, true},
		{"nickname 32 multibyte chars", func(r *CreatePersonRequest) { r.Nickname = strings.Repeat("ç", 32) }, false},
		{"name 100 chars", func(r *CreatePersonRequest) { r.Name = strings.Repeat("n", 100) }, false},
		{"name 101 chars", func(r *CreatePersonRequest) { r.Name = strings.Repeat("n", 101) }, true},
		{"name empty", func(r *CreatePersonRequest) { r.Name = "" }, true},
		{"tag 32 chars", func(r *CreatePersonRequest) { r.Stack = []string{strings.Repeat("t", 32)} }, false},
		{"tag 33 chars", func(r *CreatePersonRequest) { r.Stack = []string{"Go", strings.Repeat("t", 33)} }, true},
		{"tag empty", func(r *CreatePersonRequest) { r.Stack = []string{"Go", ""} }, true},
		{"stack absent", func(r *CreatePersonRequest) { r.Stack = nil }, false},
		{"stack empty", func(r *CreatePersonRequest) { r.Stack = []string{} }, false},
		{"birth date missing", func(r *CreatePersonRequest) { r.BirthDate = "" }, true},
		{"birth date invalid", func(r *CreatePersonRequest) { r.BirthDate = "2023-02-29" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := Validate(req)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidate_ReportsFields(t *testing.T) {
	req := validRequest()
	req.Nickname = ""
	req.BirthDate = "2024-13-01"

	_, err := Validate(req)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "nickname")
	assert.Contains(t, verr.Fields, "birthDate")
	assert.NotContains(t, verr.Fields, "name")
}

func TestValidate_NormalizesStackAndBuildsSearchBlob(t *testing.T) {
	fields, err := Validate(validRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"C#", "Go"}, fields.Stack)
	assert.Equal(t, "zeca jose c# go", fields.Search)

	req := validRequest()
	req.Stack = nil
	fields, err = Validate(req)
	require.NoError(t, err)
	assert.NotNil(t, fields.Stack)
	assert.Empty(t, fields.Stack)
	assert.Equal(t, "zeca jose", fields.Search)
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, 422, ToHTTPStatus(&ValidationError{}))
	assert.Equal(t, 422, ToHTTPStatus(ErrConflict))
	assert.Equal(t, 404, ToHTTPStatus(ErrNotFound))
	assert.Equal(t, 500, ToHTTPStatus(ErrResourceExhausted))
	assert.Equal(t, 500, ToHTTPStatus(errors.New("boom")))
	assert.Equal(t, "RESOURCE_EXHAUSTED", ToErrorCode(ErrResourceExhausted))
}

func TestPerson_CloneDoesNotAlias(t *testing.T) {
	p := Person{ID: "1", Nickname: "n", Name: "N", BirthDate: "2000-01-01", Stack: []string{"Go"}}
	c := p.Clone()
	c.Stack[0] = "Rust"
	assert.Equal(t, "Go", p.Stack[0])

	var absent Person
	assert.Nil(t, absent.Clone().Stack)
}
