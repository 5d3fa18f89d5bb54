package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/artbook/internal/client/artists"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func (a *App) renderPosts() {
	pg := a.posts.Pagination()
	list := a.posts.Posts()
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No posts.")
	}
	for _, p := range list {
		date, _ := pg.Locale.FormatDate(p.Date)
		fmt.Fprintf(a.out, "#%d %s %s\n", p.ID, titleStyle.Render(p.Title), dimStyle.Render(date))
		if p.Excerpt != "" {
			fmt.Fprintln(a.out, "   "+p.Excerpt)
		}
	}
	fmt.Fprintln(a.out, dimStyle.Render(fmt.Sprintf("page %d/%d, %d posts, %d per page, %s",
		pg.Page, pg.TotalPages, pg.Total, pg.PerPage, pg.Locale)))
}

func (a *App) renderArtists(list []artists.Artist) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No artists.")
		return
	}

	pos := make(map[int]int)
	for i, ar := range a.artists.Artists() {
		pos[ar.ID] = i
	}
	for _, ar := range list {
		i := pos[ar.ID]
		heart := "♡"
		if a.artists.IsLiked(i) {
			heart = "♥"
		}
		fmt.Fprintf(a.out, "%2d. %s %s %s\n", i+1, heart, titleStyle.Render(ar.Name),
			dimStyle.Render(fmt.Sprintf("(%s, productivity %s)", ar.Country, ar.Productivity)))
	}
}
