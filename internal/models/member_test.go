package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMemberRequest(t *testing.T) {
	tests := []struct {
		name    string
		request MemberRequest
		wantErr bool
	}{
		{"valid", MemberRequest{Cedula: "1712345678", FirstName: "Rosa", LastName: "Paredes"}, false},
		{"valid with contact", MemberRequest{Cedula: "1712345678", FirstName: "Rosa", LastName: "Paredes", Phone: "0991234567", Email: "rosa@example.com"}, false},
		{"cedula too short", MemberRequest{Cedula: "171234567", FirstName: "Rosa", LastName: "Paredes"}, true},
		{"cedula too long", MemberRequest{Cedula: "17123456789", FirstName: "Rosa", LastName: "Paredes"}, true},
		{"cedula with letters", MemberRequest{Cedula: "17123A5678", FirstName: "Rosa", LastName: "Paredes"}, true},
		{"missing first name", MemberRequest{Cedula: "1712345678", LastName: "Paredes"}, true},
		{"missing last name", MemberRequest{Cedula: "1712345678", FirstName: "Rosa"}, true},
		{"whitespace-only name", MemberRequest{Cedula: "1712345678", FirstName: "   ", LastName: "Paredes"}, true},
		{"invalid email", MemberRequest{Cedula: "1712345678", FirstName: "Rosa", LastName: "Paredes", Email: "not-an-email"}, true},
		{"cedula with surrounding spaces", MemberRequest{Cedula: " 1712345678 ", FirstName: "Rosa", LastName: "Paredes"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.ValidateMemberRequest()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMemberRequestToMember(t *testing.T) {
	request := MemberRequest{
		Cedula:    "1712345678",
		FirstName: "Rosa",
		LastName:  "Paredes",
		Email:     "rosa@example.com",
	}

	member := request.ToMember()
	assert.Equal(t, "1712345678", member.Cedula)
	assert.Equal(t, "Rosa", member.FirstName)
	assert.True(t, member.IsActive, "new members start active")
	assert.False(t, member.JoinDate.IsZero())
}
