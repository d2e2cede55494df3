package faq

import "testing"

func TestCanonicalQuestion(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"How do I log in?", "how do i log in"},
		{"  HOW DO I LOG IN  ", "how do i log in"},
		{"how   do\ti log-in", "how do i log in"},
		{"What's the WiFi password?!", "what s the wifi password"},
		{"???", ""},
		{"", ""},
		{"Room 101", "room 101"},
	}

	for _, tc := range cases {
		if got := canonicalQuestion(tc.in); got != tc.want {
			t.Errorf("canonicalQuestion(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
