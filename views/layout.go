package views

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

// Layout is the container variant wrapped around page content.
type Layout int

const (
	// LayoutBare renders children with minimal wrapping and a fixed color scheme.
	LayoutBare Layout = iota
	// LayoutDecorated adds navigation, footer and the instrumentation widgets.
	LayoutDecorated
)

func (l Layout) String() string {
	switch l {
	case LayoutDecorated:
		return "decorated"
	default:
		return "bare"
	}
}

// SelectLayout picks the container for a request path. Only the home page
// and the blog index get the decorated shell.
func SelectLayout(path string) Layout {
	switch path {
	case "/", "/blog":
		return LayoutDecorated
	default:
		return LayoutBare
	}
}

var navItems = []struct {
	Path  string
	Label string
}{
	{"/", "home"},
	{"/blog", "blog"},
	{"/monacopilot", "monacopilot"},
}

// Theme values accepted by the decorated layout.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

func themeOrDefault(theme string) string {
	if theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// nextTheme labels the toggle with the scheme it switches to.
func nextTheme(theme string) string {
	if themeOrDefault(theme) == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
