package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"username", "username"},
		{"userName", "user_name"},
		{"UserRole", "user_role"},
		{"createdAtUtc", "created_at_utc"},
		{"UserID", "user_id"},
		{"HTTPCode", "httpcode"},
		{"already_snake", "already_snake"},
		{"A", "a"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Snake(tt.input))
		})
	}
}

func TestCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_name", "userName"},
		{"created_at_utc", "createdAtUtc"},
		{"username", "username"},
		{"id", "id"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Camel(tt.input))
		})
	}
}

func TestSnakeCamelRoundTrip(t *testing.T) {
	for _, s := range []string{"userName", "email", "createdAt", "orderLineTotal", "id"} {
		assert.Equal(t, s, Camel(Snake(s)), s)
	}
}

func TestPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_info", "UserInfo"},
		{"userName", "UserName"},
		{"id", "ID"},
		{"user_id", "UserID"},
		{"http_code", "HTTPCode"},
		{"full-admin", "FullAdmin"},
		{"email", "Email"},
		{"a", "A"},
		{"api_url", "APIURL"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, pascal(tt.input))
		})
	}
}

func TestUncapitalize(t *testing.T) {
	assert.Equal(t, "userService", uncapitalize("UserService"))
	assert.Equal(t, "id", uncapitalize("ID"))
	assert.Equal(t, "httpClient", uncapitalize("HTTPClient"))
	assert.Equal(t, "user", uncapitalize("user"))
	assert.Equal(t, "", uncapitalize(""))
}

func TestReceiver(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"User", "u"},
		{"UserQuery", "uq"},
		{"[]User", "u"},
		{"[1]User", "u"},
		{"*User", "u"},
		{"HTTPClient", "hc"},
		{"A", "a"},
		{"GoOrder", "g"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, receiver(tt.input))
		})
	}
}

func TestIsSeparator(t *testing.T) {
	assert.True(t, isSeparator('_'))
	assert.True(t, isSeparator('-'))
	assert.True(t, isSeparator(' '))
	assert.False(t, isSeparator('a'))
	assert.False(t, isSeparator('1'))
}
