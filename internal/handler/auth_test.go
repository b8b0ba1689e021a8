package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignup() signupReq {
	return signupReq{
		FirstName: "Marie",
		LastName:  "Curie",
		Email:     "marie@example.com",
		Username:  "marie_c",
		Password:  "longenough",
		Birthday:  "1990-04-12",
	}
}

func TestValidateSignupAccepts(t *testing.T) {
	req := validSignup()
	birthday, msg := validateSignup(&req)
	require.Empty(t, msg)
	require.NotNil(t, birthday)
	assert.Equal(t, 1990, birthday.Year())
}

func TestValidateSignupNormalizes(t *testing.T) {
	req := validSignup()
	req.Email = "  Marie@Example.COM "
	req.FirstName = " Marie "
	_, msg := validateSignup(&req)
	require.Empty(t, msg)
	assert.Equal(t, "marie@example.com", req.Email)
	assert.Equal(t, "Marie", req.FirstName)
}

func TestValidateSignupRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*signupReq)
	}{
		{"short first name", func(r *signupReq) { r.FirstName = "M" }},
		{"short last name", func(r *signupReq) { r.LastName = "C" }},
		{"email without at", func(r *signupReq) { r.Email = "marie.example.com" }},
		{"email without dot", func(r *signupReq) { r.Email = "marie@example" }},
		{"short username", func(r *signupReq) { r.Username = "ab" }},
		{"username with spaces", func(r *signupReq) { r.Username = "marie c" }},
		{"short password", func(r *signupReq) { r.Password = "1234567" }},
		{"malformed birthday", func(r *signupReq) { r.Birthday = "12/04/1990" }},
		{"too young", func(r *signupReq) {
			r.Birthday = time.Now().AddDate(-10, 0, 0).Format("2006-01-02")
		}},
		{"too old", func(r *signupReq) { r.Birthday = "1890-01-01" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSignup()
			tc.mutate(&req)
			_, msg := validateSignup(&req)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestValidateSignupBirthdayOptional(t *testing.T) {
	req := validSignup()
	req.Birthday = ""
	birthday, msg := validateSignup(&req)
	assert.Empty(t, msg)
	assert.Nil(t, birthday)
}
