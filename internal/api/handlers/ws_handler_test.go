package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://empresa.example.com/", " https://app.example.com"})

	cases := map[string]bool{
		"":                            true,
		"https://empresa.example.com": true,
		"https://app.example.com/":    true,
		"https://evil.example.com":    false,
	}
	for origin, want := range cases {
		r := httptest.NewRequest("GET", "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		assert.Equal(t, want, check(r), origin)
	}

	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Origin", "https://anything.example.com")
	assert.True(t, originChecker(nil)(r))
}
