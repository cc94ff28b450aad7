package generator

import "strings"

// Site describes the published site. Every absolute URL the generator emits
// is built from BaseURL.
type Site struct {
	BaseURL      string
	Name         string
	Title        string
	Description  string
	DefaultImage string
	Language     string
}

// DefaultSite returns the production site metadata.
func DefaultSite() Site {
	return Site{
		BaseURL:      "https://www.bujatime.com",
		Name:         "부자타임",
		Title:        "BujaTime - Daily Insights for Financial Freedom",
		Description:  "AI, finance, side hustle, and business insights from BujaTime.",
		DefaultImage: "https://www.bujatime.com/og-image.png",
		Language:     "ko",
	}
}

// normalized fills empty fields from DefaultSite and strips the trailing
// slash from BaseURL.
func (s Site) normalized() Site {
	defaults := DefaultSite()
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if s.BaseURL == "" {
		s.BaseURL = defaults.BaseURL
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = defaults.Name
	}
	if strings.TrimSpace(s.Title) == "" {
		s.Title = defaults.Title
	}
	if strings.TrimSpace(s.Description) == "" {
		s.Description = defaults.Description
	}
	if strings.TrimSpace(s.DefaultImage) == "" {
		s.DefaultImage = s.BaseURL + "/og-image.png"
	}
	if strings.TrimSpace(s.Language) == "" {
		s.Language = defaults.Language
	}
	return s
}

// URL joins route onto the base URL.
func (s Site) URL(route string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if route == "" {
		return base
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}
