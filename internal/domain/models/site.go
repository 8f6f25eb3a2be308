// internal/domain/models/site.go
package models

// DefaultSiteName is used when no site name is configured.
const DefaultSiteName = "RLC Residences"

// Testimonial is a visitor's shared experience.
type Testimonial struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name"`
	Date    string `json:"date"`
	Message string `json:"message"`
	Role    string `json:"role,omitempty"`
	Rating  int    `json:"rating,omitempty"`
	Image   string `json:"image,omitempty"`
}

// TestimonialInput is posted to /api/testimonials.
type TestimonialInput struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// NewsAuthor is the byline of a news item.
type NewsAuthor struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// NewsItem is one news article. Content is HTML authored in the
// backend's rich text editor and must be sanitized before display.
type NewsItem struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Excerpt     string      `json:"excerpt,omitempty"`
	Description string      `json:"description,omitempty"`
	Content     string      `json:"content,omitempty"`
	Category    string      `json:"category,omitempty"`
	Image       string      `json:"image,omitempty"`
	Date        string      `json:"date,omitempty"`
	Author      *NewsAuthor `json:"author,omitempty"`
}

// Property is a listing shown on the marketing site.
type Property struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Name      string `json:"name,omitempty"`
	Price     string `json:"price"`
	Address   string `json:"address,omitempty"`
	Location  string `json:"location,omitempty"`
	Amenities string `json:"amenities,omitempty"`
	UnitType  string `json:"unit_type,omitempty"`
	Bedrooms  int    `json:"bedrooms"`
	Bathrooms int    `json:"bathrooms"`
	Area      string `json:"area"`
	Status    string `json:"status,omitempty"`
	Image     string `json:"image"`
	ImagePath string `json:"image_path,omitempty"`
	Featured  bool   `json:"featured"`
}

// ContactMessage is posted to /api/contact-us.
type ContactMessage struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	MobileNumber    string `json:"mobileNumber"`
	Country         string `json:"country"`
	Property        string `json:"property"`
	InquiryType     string `json:"inquiryType"`
	AwarenessSource string `json:"awarenessSource"`
	Message         string `json:"message"`
}

type ConversionRates struct {
	InquiryToAppointment float64 `json:"inquiryToAppointment"`
	Inquiries            int     `json:"inquiries"`
	Appointments         int     `json:"appointments"`
}

// GalleryCount is the number of published galleries.
type GalleryCount struct {
	Total int `json:"total"`
}

// HeroCard is a call-to-action card in the landing hero.
type HeroCard struct {
	Title       string
	Description string
	Icon        string
	CTA         string
}

// SiteStat is a headline number on the landing page.
type SiteStat struct {
	Number string
	Label  string
}
