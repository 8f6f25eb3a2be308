// internal/app/features/home/view.go
package home

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

// AllCategories is the news filter value that shows every item.
const AllCategories = "All"

const (
	displayDate    = "Jan 02, 2006"
	excerptRunes   = 150
	defaultRating  = 5
	anonymousName  = "Anonymous"
	defaultRoleTag = "Valued Client"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
}

// formatDate renders s as "Jan 02, 2006", or "" when it is not a date
// the backend is known to send.
func formatDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayDate)
		}
	}
	return ""
}

// newsCategories returns "All" followed by each distinct category in
// the order it first appears.
func newsCategories(items []models.NewsItem) []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, it := range items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		out = append(out, it.Category)
	}
	return out
}

func filterNews(items []models.NewsItem, category string) []models.NewsItem {
	if category == "" || category == AllCategories {
		return items
	}
	var out []models.NewsItem
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

type testimonialCard struct {
	Name    string
	Role    string
	Initial string
	Image   string
	Date    string
	Message string
	Stars   []bool
}

func testimonialCards(in []models.Testimonial) []testimonialCard {
	out := make([]testimonialCard, 0, len(in))
	for _, t := range in {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			name = anonymousName
		}
		role := t.Role
		if role == "" {
			role = defaultRoleTag
		}
		rating := t.Rating
		if rating <= 0 || rating > 5 {
			rating = defaultRating
		}
		stars := make([]bool, 5)
		for i := range stars {
			stars[i] = i < rating
		}
		initial, _ := utf8.DecodeRuneInString(name)
		out = append(out, testimonialCard{
			Name:    name,
			Role:    role,
			Initial: strings.ToUpper(string(initial)),
			Image:   t.Image,
			Date:    formatDate(t.Date),
			Message: truncate(t.Message, excerptRunes),
			Stars:   stars,
		})
	}
	return out
}

type newsCard struct {
	ID       int64
	Title    string
	Excerpt  string
	Category string
	Image    string
	Date     string
}

func newsCards(in []models.NewsItem) []newsCard {
	out := make([]newsCard, 0, len(in))
	for _, n := range in {
		excerpt := n.Excerpt
		if excerpt == "" {
			excerpt = truncate(n.Description, excerptRunes)
		}
		cat := n.Category
		if cat == "" {
			cat = "News"
		}
		out = append(out, newsCard{
			ID:       n.ID,
			Title:    n.Title,
			Excerpt:  excerpt,
			Category: cat,
			Image:    n.Image,
			Date:     formatDate(n.Date),
		})
	}
	return out
}

// featured keeps the featured properties, or all of them when none is
// flagged. An empty result falls back to the built-in showcase.
func featured(in []models.Property) []models.Property {
	var out []models.Property
	for _, p := range in {
		if p.Featured {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = in
	}
	if len(out) == 0 {
		return fallbackProperties
	}
	for i := range out {
		if out[i].Title == "" {
			out[i].Title = out[i].Name
		}
		if out[i].Address == "" {
			out[i].Address = out[i].Location
		}
		if out[i].Image == "" {
			out[i].Image = out[i].ImagePath
		}
	}
	return out
}
