// internal/app/features/home/handler.go
package home

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/couponcal"
	"github.com/dalemusser/aftershift/internal/app/system/htmlsanitize"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handler serves the public marketing site.
type Handler struct {
	API *apiclient.Client
	Log *zap.Logger
	Now func() time.Time
}

func NewHandler(api *apiclient.Client, logger *zap.Logger) *Handler {
	return &Handler{
		API: api,
		Log: logger,
		Now: time.Now,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type homeData struct {
	viewdata.BaseVM
	HeroCards    []models.HeroCard
	Stats        []models.SiteStat
	Testimonials []testimonialCard
	Properties   []models.Property
	News         []newsCard
	Lead         *newsCard
	Categories   []string
	Category     string
	Today        string

	SubscribeEmail string
	Subscribe      subscribeResult

	TestimonialError   string
	TestimonialSuccess string
	TestimonialName    string
	TestimonialMessage string
}

type articleData struct {
	viewdata.BaseVM
	Item     models.NewsItem
	Date     string
	Category string
	Body     template.HTML
}

type subscribeResult struct {
	Error   string
	Success string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := h.load(r, query.Get(r, "category"))
	if query.Get(r, "shared") == "1" {
		data.TestimonialSuccess = "Thank you for sharing your experience!"
	}
	templates.Render(w, r, "home", data)
}

// load fetches the three backend lists in parallel. Any one of them
// failing leaves that section empty (or, for properties, on the
// built-in showcase).
func (h *Handler) load(r *http.Request, category string) homeData {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		testimonials []models.Testimonial
		properties   []models.Property
		news         []models.NewsItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if testimonials, err = h.API.Testimonials(gctx); err != nil {
			h.Log.Warn("home: testimonials unavailable", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if properties, err = h.API.Properties(gctx); err != nil {
			h.Log.Warn("home: properties unavailable, using showcase", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if news, err = h.API.News(gctx); err != nil {
			h.Log.Warn("home: news unavailable", zap.Error(err))
		}
		return nil
	})
	_ = g.Wait()

	if category == "" {
		category = AllCategories
	}
	cards := newsCards(filterNews(news, category))

	data := homeData{
		BaseVM:       viewdata.NewBaseVM(r, "Home", "/"),
		HeroCards:    heroCards,
		Stats:        siteStats,
		Testimonials: testimonialCards(testimonials),
		Properties:   featured(properties),
		Categories:   newsCategories(news),
		Category:     category,
		Today:        couponcal.Today(h.Now(), nil),
	}
	if len(cards) > 0 {
		data.Lead = &cards[0]
		data.News = cards[1:]
	}
	return data
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /subscribe                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))

	res := h.subscribe(r, email)

	if r.Header.Get("HX-Request") != "" {
		templates.RenderSnippet(w, "home_subscribe_result", res)
		return
	}

	data := h.load(r, "")
	data.Subscribe = res
	if res.Error != "" {
		data.SubscribeEmail = email
	}
	templates.Render(w, r, "home", data)
}

func (h *Handler) subscribe(r *http.Request, email string) subscribeResult {
	if email == "" || !strings.Contains(email, "@") {
		return subscribeResult{Error: "Please enter a valid email address"}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.API.Subscribe(ctx, email); err != nil {
		if !apiclient.IsConflict(err) {
			h.Log.Warn("subscribe failed", zap.Error(err))
		}
		return subscribeResult{Error: SubscribeError(err)}
	}
	return subscribeResult{Success: "Subscribed successfully!"}
}

// SubscribeError turns a failed subscribe call into the message shown
// under the newsletter form.
func SubscribeError(err error) string {
	if apiclient.IsConflict(err) {
		return "This email is already subscribed."
	}
	var apiErr *apiclient.Error
	if apiclient.IsValidation(err) && errors.As(err, &apiErr) {
		if msg := apiErr.FieldError("email"); msg != "" {
			return msg
		}
	}
	return apiclient.Message(err, "Failed to subscribe. Please try again.")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /testimonials                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleTestimonial(w http.ResponseWriter, r *http.Request) {
	in := models.TestimonialInput{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Date:    strings.TrimSpace(r.FormValue("date")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	if _, err := time.Parse(couponcal.DateLayout, in.Date); err != nil {
		in.Date = couponcal.Today(h.Now(), nil)
	}

	var errMsg string
	if in.Name == "" || in.Message == "" {
		errMsg = "Please enter your name and your message."
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		err := h.API.CreateTestimonial(ctx, in)
		cancel()
		if err != nil {
			h.Log.Warn("testimonial submit failed", zap.Error(err))
			errMsg = "Failed to submit. Please try again."
		}
	}

	if errMsg == "" && r.Header.Get("HX-Request") == "" {
		http.Redirect(w, r, "/?shared=1#testimonials", http.StatusSeeOther)
		return
	}

	data := h.load(r, "")
	if errMsg != "" {
		data.TestimonialError = errMsg
		data.TestimonialName = in.Name
		data.TestimonialMessage = in.Message
	} else {
		data.TestimonialSuccess = "Thank you for sharing your experience!"
	}
	templates.Render(w, r, "home", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /news/{id}                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	items, err := h.API.News(ctx)
	if err != nil {
		h.Log.Warn("news unavailable", zap.Error(err))
		http.Error(w, "News is unavailable right now.", http.StatusBadGateway)
		return
	}

	item, ok := findNews(items, id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	body := item.Content
	if body == "" {
		body = item.Description
	}
	if body == "" {
		body = item.Excerpt
	}

	cat := item.Category
	if cat == "" {
		cat = "News"
	}
	templates.Render(w, r, "news_article", articleData{
		BaseVM:   viewdata.NewBaseVM(r, item.Title, "/#news"),
		Item:     item,
		Date:     formatDate(item.Date),
		Category: cat,
		Body:     htmlsanitize.PrepareForDisplay(body),
	})
}

func findNews(items []models.NewsItem, id int64) (models.NewsItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.NewsItem{}, false
}
