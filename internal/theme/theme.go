package theme

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Frame       lipgloss.Style
	Title       lipgloss.Style
	Input       lipgloss.Style
	InputActive lipgloss.Style
	Prompt      lipgloss.Style
	Placeholder lipgloss.Style
	Avatar      lipgloss.Style
	Name        lipgloss.Style
	Email       lipgloss.Style
	MissingMail lipgloss.Style
	Selected    lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Notice      lipgloss.Style
	Spinner     lipgloss.Style
	Help        lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	TableBorder lipgloss.Color
	Accent      lipgloss.Color
}

func DefaultTheme() Theme {
	accent := lipgloss.Color("#7D56F4")
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("#dcd7ff"))
	input := base.
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#403B59")).
		Padding(0, 1)

	return Theme{
		Frame:       lipgloss.NewStyle().Padding(1, 2),
		Title:       lipgloss.NewStyle().Foreground(accent).Bold(true),
		Input:       input,
		InputActive: input.BorderForeground(lipgloss.Color("#A78BFA")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8B39")).Bold(true),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#5E5A72")),
		Avatar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FDFBFF")).
			Background(accent).
			Bold(true).
			Padding(0, 1),
		Name:        lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E1FF")).Bold(true),
		Email:       lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")),
		MissingMail: lipgloss.NewStyle().Foreground(lipgloss.Color("#5E5A72")).Italic(true),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FBC859")).Bold(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")),
		Notice:      lipgloss.NewStyle().Foreground(lipgloss.Color("#E0DEF4")).Background(lipgloss.Color("#433C59")).Padding(0, 1),
		Spinner:     lipgloss.NewStyle().Foreground(accent),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("#867CC1")),
		TableHeader: lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1),
		TableCell:   lipgloss.NewStyle().Foreground(lipgloss.Color("#dcd7ff")).Padding(0, 1),
		TableBorder: lipgloss.Color("#403B59"),
		Accent:      accent,
	}
}

// Plain drops all colors; used when output is not a terminal.
func Plain() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Frame:       plain,
		Title:       plain,
		Input:       plain,
		InputActive: plain,
		Prompt:      plain,
		Placeholder: plain,
		Avatar:      plain,
		Name:        plain,
		Email:       plain,
		MissingMail: plain,
		Selected:    plain,
		Status:      plain,
		Error:       plain,
		Success:     plain,
		Notice:      plain,
		Spinner:     plain,
		Help:        plain,
		TableHeader: plain.Padding(0, 1),
		TableCell:   plain.Padding(0, 1),
	}
}
