// internal/app/system/apiclient/site.go
package apiclient

import (
	"context"
	"net/http"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

// Testimonials returns published testimonials.
func (c *Client) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	var out []models.Testimonial
	if err := c.get(ctx, "site.testimonials", "/api/testimonials", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTestimonial submits a visitor testimonial.
func (c *Client) CreateTestimonial(ctx context.Context, in models.TestimonialInput) error {
	return c.send(ctx, "site.testimonials_create", http.MethodPost, "/api/testimonials", in, nil)
}

// News returns news items, newest first as ordered by the backend.
func (c *Client) News(ctx context.Context) ([]models.NewsItem, error) {
	var out []models.NewsItem
	if err := c.get(ctx, "site.news", "/api/news", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Properties returns all property listings.
func (c *Client) Properties(ctx context.Context) ([]models.Property, error) {
	var out []models.Property
	if err := c.get(ctx, "site.properties", "/api/properties", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Subscribe adds an email to the newsletter. A 409 means already subscribed.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.send(ctx, "site.subscribe", http.MethodPost, "/api/subscribe", body, nil)
}

// ContactUs forwards a contact form submission.
func (c *Client) ContactUs(ctx context.Context, msg models.ContactMessage) error {
	return c.send(ctx, "site.contact", http.MethodPost, "/api/contact-us", msg, nil)
}

// ConversionRates returns the inquiry funnel summary.
func (c *Client) ConversionRates(ctx context.Context) (models.ConversionRates, error) {
	var out models.ConversionRates
	err := c.get(ctx, "site.conversion_rates", "/api/conversion-rates", nil, &out)
	return out, err
}

// GalleriesCount returns the number of published galleries.
func (c *Client) GalleriesCount(ctx context.Context) (models.GalleryCount, error) {
	var out models.GalleryCount
	err := c.get(ctx, "site.galleries_count", "/api/galleriescount", nil, &out)
	return out, err
}
