package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	rules := map[string]validator.Func{
		"hasupper":   HasUpper,
		"haslower":   HasLower,
		"hasdigit":   HasDigit,
		"hasspecial": HasSpecial,
		"nospaces":   NoWhiteSpaces,
		"nodupes":    NoDupes,
		"iso8601":    IsIso8601,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			t.Fatalf("registering %s: %v", tag, err)
		}
	}
	return v
}

func TestPasswordRules(t *testing.T) {
	v := newValidator(t)

	cases := []struct {
		tag   string
		value string
		ok    bool
	}{
		{"hasupper", "Password", true},
		{"hasupper", "password", false},
		{"haslower", "Password", true},
		{"haslower", "PASSWORD", false},
		{"hasdigit", "passw0rd", true},
		{"hasdigit", "password", false},
		{"hasspecial", "pass!word", true},
		{"hasspecial", "pass$word", true},
		{"hasspecial", "password", false},
		{"nospaces", "password", true},
		{"nospaces", "pass word", false},
		{"nospaces", "pass\tword", false},
	}
	for _, tc := range cases {
		err := v.Var(tc.value, tc.tag)
		if got := err == nil; got != tc.ok {
			t.Errorf("%s(%q): ok = %v, want %v", tc.tag, tc.value, got, tc.ok)
		}
	}
}

func TestNoDupes(t *testing.T) {
	v := newValidator(t)

	if err := v.Var([]string{"a", "b", "c"}, "nodupes"); err != nil {
		t.Errorf("distinct slice rejected: %v", err)
	}
	if err := v.Var([]string{"a", "b", "a"}, "nodupes"); err == nil {
		t.Error("duplicate slice accepted")
	}
	if err := v.Var([]string{}, "nodupes"); err != nil {
		t.Errorf("empty slice rejected: %v", err)
	}
}

func TestIsIso8601(t *testing.T) {
	v := newValidator(t)

	if err := v.Var("2026-08-29T19:00:00Z", "iso8601"); err != nil {
		t.Errorf("valid timestamp rejected: %v", err)
	}
	if err := v.Var("29/08/2026 19:00", "iso8601"); err == nil {
		t.Error("garbage timestamp accepted")
	}

	good := []string{"2026-08-29T19:00:00Z", "2026-08-30T19:00:00+02:00"}
	if err := v.Var(good, "iso8601"); err != nil {
		t.Errorf("valid slice rejected: %v", err)
	}
	bad := []string{"2026-08-29T19:00:00Z", "not-a-date"}
	if err := v.Var(bad, "iso8601"); err == nil {
		t.Error("slice with a bad element accepted")
	}
}
