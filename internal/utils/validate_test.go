package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	valid := []string{
		"a@x.com",
		"first.last@example.org",
		"user-name@sub.domain.io",
		"u1@mail.co",
	}
	for _, addr := range valid {
		assert.True(t, ValidEmail(addr), "expected %q to be accepted", addr)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@x.com",
		"a@",
		"a@x",
		"a b@x.com",
		"a@x.toolong",
	}
	for _, addr := range invalid {
		assert.False(t, ValidEmail(addr), "expected %q to be rejected", addr)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
	assert.Equal(t, "a@x.com", NormalizeEmail("a@x.com"))
}
