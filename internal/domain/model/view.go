package model

import "fmt"

// View selects which dashboard a reviewpanel process serves.
type View string

const (
	ViewUser  View = "user"
	ViewAdmin View = "admin"
)

// ParseView converts a configuration string into a View.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewUser, ViewAdmin:
		return View(s), nil
	default:
		return "", fmt.Errorf("unknown view %q: expected %q or %q", s, ViewUser, ViewAdmin)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so View can be parsed
// directly from environment variables.
func (v *View) UnmarshalText(text []byte) error {
	parsed, err := ParseView(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
