package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestDefaultThemeActiveInputHighlightsBorder(t *testing.T) {
	th := DefaultTheme()
	if th.InputActive.GetBorderTopForeground() == th.Input.GetBorderTopForeground() {
		t.Fatalf("expected active input to use a different border color")
	}
	if th.Avatar.GetBackground() != th.Accent {
		t.Fatalf("expected avatar background to use accent")
	}
	if th.Input.GetBorderStyle() != lipgloss.RoundedBorder() {
		t.Fatalf("expected rounded input border")
	}
}

func TestPlainThemeHasNoColors(t *testing.T) {
	th := Plain()
	if _, ok := th.Name.GetForeground().(lipgloss.NoColor); !ok {
		t.Fatalf("expected plain name style without color")
	}
	if got := th.Avatar.Render("JD"); got != "JD" {
		t.Fatalf("plain avatar should render text as is, got %q", got)
	}
}
