// internal/app/features/home/content.go
package home

import "github.com/dalemusser/aftershift/internal/domain/models"

// heroCards are the audience cards at the top of the landing page.
var heroCards = []models.HeroCard{
	{
		Title:       "I'm a Future Homeowner",
		Description: "Experience the elegance of modern living spaces designed for comfort and style.",
		Icon:        "🏠",
		CTA:         "Find Your Home",
	},
	{
		Title:       "I'm a Home Investor",
		Description: "Discover lucrative investment opportunities in prime locations with high ROI potential.",
		Icon:        "💼",
		CTA:         "Explore Investments",
	},
	{
		Title:       "I'm a Renter",
		Description: "Find your perfect rental home with flexible terms and premium amenities.",
		Icon:        "🔑",
		CTA:         "Start Your Search",
	},
}

var siteStats = []models.SiteStat{
	{Number: "500+", Label: "Properties Sold"},
	{Number: "98%", Label: "Client Satisfaction"},
	{Number: "15+", Label: "Years Experience"},
	{Number: "24/7", Label: "Customer Support"},
}

// fallbackProperties are shown when the backend has no featured
// properties or cannot be reached.
var fallbackProperties = []models.Property{
	{
		ID: 1, Title: "Luxury Villa", Price: "$1,250,000",
		Address:  "123 Luxury Lane, Premium Heights",
		Bedrooms: 4, Bathrooms: 3, Area: "2,500 sq ft",
		Image: "/static/img/residences.jpg", Featured: true,
	},
	{
		ID: 2, Title: "Modern Apartment", Price: "$850,000",
		Address:  "456 Urban Street, Downtown",
		Bedrooms: 3, Bathrooms: 2, Area: "1,800 sq ft",
		Image: "/static/img/residences.jpg", Featured: true,
	},
	{
		ID: 3, Title: "Seaside Condo", Price: "$975,000",
		Address:  "789 Ocean View, Beachfront",
		Bedrooms: 2, Bathrooms: 2, Area: "1,500 sq ft",
		Image: "/static/img/residences.jpg", Featured: true,
	},
}
