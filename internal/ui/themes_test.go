package ui

import "testing"

func TestInitStyles(t *testing.T) {
	defer SetStyles(ColorStyles)

	t.Run("noColor flag selects plain styles", func(t *testing.T) {
		InitStyles(true)
		if got, want := Current().Success.Render("ok"), PlainStyles.Success.Render("ok"); got != want {
			t.Errorf("expected plain styles when noColor is true, got %q", got)
		}
	})

	t.Run("NO_COLOR env selects plain styles", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitStyles(false)
		if got, want := Current().Error.Render("x"), PlainStyles.Error.Render("x"); got != want {
			t.Errorf("expected plain styles when NO_COLOR is set, got %q", got)
		}
	})
}
