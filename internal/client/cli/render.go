package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/viewstate"
	"github.com/dustin/go-humanize"
)

// baseWidth is the card width at font scale 1.
const baseWidth = 72

var accentColors = map[string]lipgloss.Color{
	models.AccentBlue:   lipgloss.Color("#3B82F6"),
	models.AccentGreen:  lipgloss.Color("#22C55E"),
	models.AccentPurple: lipgloss.Color("#A855F7"),
	models.AccentOrange: lipgloss.Color("#F97316"),
}

// styles is the palette derived from the user's preferences. A terminal
// cannot scale its font, so the font scale narrows or widens the wrap
// width instead.
type styles struct {
	title  lipgloss.Style
	text   lipgloss.Style
	author lipgloss.Style
	index  lipgloss.Style
	liked  lipgloss.Style
	muted  lipgloss.Style
	errMsg lipgloss.Style
	okMsg  lipgloss.Style
	card   lipgloss.Style
}

// textColor follows the terminal background for the system theme.
func textColor(theme string) lipgloss.TerminalColor {
	switch theme {
	case models.ThemeDark:
		return lipgloss.Color("#E5E7EB")
	case models.ThemeLight:
		return lipgloss.Color("#1F2937")
	default:
		return lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}
	}
}

func newStyles(p models.Preferences) styles {
	accent, ok := accentColors[p.AccentColor]
	if !ok {
		accent = accentColors[models.AccentBlue]
	}
	scale := p.FontScale
	if scale <= 0 {
		scale = 1
	}
	width := int(float64(baseWidth) / scale)
	fg := textColor(p.Theme)

	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		text:   lipgloss.NewStyle().Foreground(fg).Width(width - 6),
		author: lipgloss.NewStyle().Italic(true).Faint(true),
		index:  lipgloss.NewStyle().Foreground(accent).Width(4).Align(lipgloss.Right),
		liked:  lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		muted:  lipgloss.NewStyle().Faint(true),
		errMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		okMsg:  lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			Width(width),
	}
}

// heart marks a liked quote.
func heart(st styles, liked bool) string {
	if liked {
		return st.liked.Render("♥")
	}
	return st.muted.Render("♡")
}

// renderEntry prints one numbered quote with the author on its own line.
func renderEntry(st styles, n int, mark, text, author string) string {
	if mark == "" {
		mark = " "
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		st.index.Render(fmt.Sprintf("%d.", n)), " ", mark, " ",
		st.text.Render("“"+text+"”"),
	)
	by := lipgloss.NewStyle().PaddingLeft(7).Render(st.author.Render("- " + author))
	return row + "\n" + by
}

// renderQuotes lists the browse results. Numbers are what like and save
// take as arguments.
func renderQuotes(st styles, s viewstate.DiscoveryState) string {
	var b strings.Builder
	header := s.Category
	if strings.TrimSpace(s.Search) != "" {
		header += fmt.Sprintf(" / %q", strings.TrimSpace(s.Search))
	}
	b.WriteString(st.title.Render(fmt.Sprintf("%s (%d)", header, len(s.Quotes))))
	b.WriteString("\n")
	if s.Err != nil {
		b.WriteString(st.errMsg.Render("Could not load quotes: " + s.Err.Error()))
		b.WriteString("\n")
	}
	if len(s.Quotes) == 0 {
		b.WriteString(st.muted.Render("No quotes found."))
		return b.String()
	}
	for i, q := range s.Quotes {
		b.WriteString(renderEntry(st, i+1, heart(st, q.IsLiked), q.Text, q.Author))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderQuoteCard boxes a single quote, as printed by random.
func renderQuoteCard(st styles, q models.Quote) string {
	body := st.text.Render("“"+q.Text+"”") + "\n" + st.author.Render("- "+q.Author)
	if q.Category != "" {
		body += "\n" + st.muted.Render(q.Category)
	}
	return st.card.Render(body)
}

// renderFavorites lists the local favorites, newest first.
func renderFavorites(st styles, s viewstate.FavoritesState) string {
	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("Favorites (%d)", len(s.Favorites))))
	b.WriteString("\n")
	if s.Err != nil {
		b.WriteString(st.errMsg.Render("Sync failed: " + s.Err.Error()))
		b.WriteString("\n")
	}
	if len(s.Favorites) == 0 {
		b.WriteString(st.muted.Render("No favorites yet. Like a quote with 'like <n>'."))
		return b.String()
	}
	for i, f := range s.Favorites {
		b.WriteString(renderEntry(st, i+1, heart(st, true), f.Text, f.Author))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderCollections lists collections with their age.
func renderCollections(st styles, s viewstate.CollectionsState) string {
	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("Collections (%d)", len(s.Collections))))
	b.WriteString("\n")
	if s.Err != nil {
		b.WriteString(st.errMsg.Render("Could not load collections: " + s.Err.Error()))
		b.WriteString("\n")
	}
	if len(s.Collections) == 0 {
		b.WriteString(st.muted.Render("No collections. Create one with 'newcol <name>'."))
		return b.String()
	}
	for i, c := range s.Collections {
		line := st.index.Render(fmt.Sprintf("%d.", i+1)) + " " + c.Name
		if !c.CreatedAt.IsZero() {
			line += " " + st.muted.Render("created "+humanize.Time(c.CreatedAt))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderItems lists the quotes kept in one collection.
func renderItems(st styles, name string, items []models.CollectionItem) string {
	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("%s (%d)", name, len(items))))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(st.muted.Render("This collection is empty."))
		return b.String()
	}
	for i, it := range items {
		b.WriteString(renderEntry(st, i+1, "", it.Text, it.Author))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderProfile shows the account card and the outcome of the last action.
func renderProfile(st styles, s viewstate.ProfileState) string {
	if s.User == nil {
		return st.card.Render(st.muted.Render("Not signed in. Use 'login' or 'signup'."))
	}
	name := s.User.FullName
	if name == "" {
		name = st.muted.Render("(no name)")
	}
	lines := []string{
		st.title.Render(name),
		s.User.Email,
		fmt.Sprintf("Saved quotes: %d", s.SavedQuotes),
		fmt.Sprintf("Collections:  %d", s.Collections),
	}
	if s.User.AvatarURL != "" {
		lines = append(lines, st.muted.Render("Avatar: "+s.User.AvatarURL))
	}
	switch s.Status {
	case viewstate.ProfileSuccess:
		lines = append(lines, st.okMsg.Render(s.Message))
	case viewstate.ProfileError:
		lines = append(lines, st.errMsg.Render(s.Message))
	}
	return st.card.Render(strings.Join(lines, "\n"))
}

// renderPrefs shows the local preferences.
func renderPrefs(st styles, p models.Preferences) string {
	notify := "off"
	if p.NotificationsEnabled {
		notify = "daily at " + formatTime(p.NotificationHour, p.NotificationMinute)
	}
	lines := []string{
		st.title.Render("Preferences"),
		"theme:  " + p.Theme,
		"accent: " + p.AccentColor,
		fmt.Sprintf("font:   %.2f", p.FontScale),
		"notify: " + notify,
	}
	return st.card.Render(strings.Join(lines, "\n"))
}
