package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile_KeepsRoleSpecificFields(t *testing.T) {
	data := []byte(`{"id":7,"email":"d@x.io","firstName":"Greg","lastName":"House","role":"DOCTOR","specialization":"Diagnostics"}`)

	u, err := ParseProfile(data)
	require.NoError(t, err)

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, RoleDoctor, u.Role)
	assert.Equal(t, "Greg House", u.FullName())
	assert.JSONEq(t, `"Diagnostics"`, string(u.Extra["specialization"]))

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(out))
}

func TestParseProfile_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed", data: `{"role":`},
		{name: "unknown role", data: `{"id":1,"role":"NURSE"}`},
		{name: "missing role", data: `{"id":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseProfile([]byte(tt.data))
			assert.Nil(t, u)
			assert.Error(t, err)
		})
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleDoctor.Valid())
	assert.True(t, RolePatient.Valid())
	assert.False(t, Role("").Valid())
}
