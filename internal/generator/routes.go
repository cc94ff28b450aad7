package generator

import (
	"strings"

	"github.com/bujatime/bujatime/internal/content"
)

// SEO is the head metadata of one prerendered route. URL is the site path;
// Type is "website" unless the route is a post.
type SEO struct {
	Title       string
	Description string
	URL         string
	Image       string
	Type        string
	PublishedAt string
}

const (
	seoTypeWebsite = "website"
	seoTypeArticle = "article"
)

// Routes lists every prerendered route: static pages, visible categories,
// tools, then visible posts.
func Routes(catalog *content.Catalog, tools []Tool) []string {
	routes := make([]string, 0, len(staticPages)+len(tools))
	for _, page := range staticPages {
		routes = append(routes, page.Path)
	}
	if catalog != nil {
		for _, category := range catalog.VisibleCategories() {
			routes = append(routes, categoryRoutePrefix+category.Slug)
		}
	}
	for _, tool := range tools {
		routes = append(routes, tool.Route())
	}
	if catalog != nil {
		for _, post := range catalog.VisiblePosts() {
			routes = append(routes, postRoutePrefix+post.Slug)
		}
	}
	return routes
}

// SEOFor resolves the head metadata of route. Unknown routes get the site
// name and an empty description.
func SEOFor(site Site, catalog *content.Catalog, tools []Tool, route string) SEO {
	site = site.normalized()

	if page, ok := findStaticPage(route); ok {
		title := page.Title
		if title == "" {
			title = site.Name
		}
		return SEO{Title: title, Description: page.Description, URL: route, Type: seoTypeWebsite}
	}

	if catalog != nil {
		if slug, ok := strings.CutPrefix(route, categoryRoutePrefix); ok {
			if category, found := categoryBySlug(catalog, slug); found {
				description := category.Description
				if description == "" {
					description = category.Title + " 카테고리의 최신 글을 확인하세요."
				}
				return SEO{
					Title:       category.Title + " - 블로그",
					Description: description,
					URL:         route,
					Type:        seoTypeWebsite,
				}
			}
		}

		if slug, ok := strings.CutPrefix(route, postRoutePrefix); ok {
			if post, found := catalog.PostBySlug(slug); found {
				return SEO{
					Title:       post.Title,
					Description: post.Excerpt,
					URL:         route,
					Image:       post.CoverImage,
					Type:        seoTypeArticle,
					PublishedAt: post.PublishedAt,
				}
			}
		}
	}

	if tool, ok := findTool(tools, route); ok {
		return SEO{Title: tool.Title, Description: tool.Description, URL: route, Type: seoTypeWebsite}
	}

	return SEO{Title: site.Name, URL: route, Type: seoTypeWebsite}
}

func categoryBySlug(catalog *content.Catalog, slug string) (content.Category, bool) {
	for _, category := range catalog.Categories {
		if category.Slug == slug {
			return category, true
		}
	}
	return content.Category{}, false
}
