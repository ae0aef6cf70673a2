package handlers

import "testing"

func TestNormalizeReturnTo(t *testing.T) {
	cases := map[string]string{
		"":                       "",
		"/users?page=2":          "/users?page=2",
		"/deposits?order_id=DP1": "/deposits?order_id=DP1",
		"//evil.example":         "",
		"/\\evil.example":        "",
		"https://evil.example":   "",
		"/redirect?u=http://x":   "",
		"users":                  "",
		"/login":                 "",
		"/login?return_to=/x":    "",
	}
	for in, want := range cases {
		if got := normalizeReturnTo(in); got != want {
			t.Errorf("normalizeReturnTo(%q) = %q, want %q", in, got, want)
		}
	}
}
