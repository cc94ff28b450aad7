package generator

import (
	"fmt"
	"strings"

	"github.com/bujatime/bujatime/internal/content"
)

type sitemapEntry struct {
	Location   string
	LastMod    string
	ChangeFreq string
	Priority   string
}

// BuildSitemap renders sitemap.xml: static pages, visible category pages,
// tool pages, then visible posts in catalog order. today (YYYY-MM-DD) is the
// lastmod of every page that is not a post.
func BuildSitemap(site Site, catalog *content.Catalog, tools []Tool, today string) string {
	site = site.normalized()
	entries := make([]sitemapEntry, 0, len(staticPages)+len(tools))

	for _, page := range staticPages {
		entries = append(entries, sitemapEntry{
			Location:   site.URL(page.Path),
			LastMod:    today,
			ChangeFreq: page.ChangeFreq,
			Priority:   page.Priority,
		})
	}

	if catalog != nil {
		for _, category := range catalog.VisibleCategories() {
			entries = append(entries, sitemapEntry{
				Location:   content.CategoryURL(site.BaseURL, category.Slug),
				LastMod:    today,
				ChangeFreq: categoryChangeFreq,
				Priority:   categoryPriority,
			})
		}
	}

	for _, tool := range tools {
		entries = append(entries, sitemapEntry{
			Location:   site.URL(tool.Route()),
			LastMod:    today,
			ChangeFreq: toolChangeFreq,
			Priority:   tool.Priority,
		})
	}

	if catalog != nil {
		for _, post := range catalog.VisiblePosts() {
			entries = append(entries, sitemapEntry{
				Location:   content.PostURL(site.BaseURL, post.Slug),
				LastMod:    post.PublishedAt,
				ChangeFreq: postChangeFreq,
				Priority:   postPriority,
			})
		}
	}

	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		var builder strings.Builder
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", escapeXML(entry.Location)))
		builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", escapeXML(entry.LastMod)))
		builder.WriteString(fmt.Sprintf("    <changefreq>%s</changefreq>\n", entry.ChangeFreq))
		builder.WriteString(fmt.Sprintf("    <priority>%s</priority>\n", entry.Priority))
		builder.WriteString("  </url>")
		urls = append(urls, builder.String())
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	builder.WriteString(strings.Join(urls, "\n"))
	builder.WriteString("\n</urlset>\n")
	return builder.String()
}

// BuildRobots allows every crawler and points at the sitemap.
func BuildRobots(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultSite().BaseURL
	}
	var builder strings.Builder
	builder.WriteString("User-agent: *\n")
	builder.WriteString("Allow: /\n")
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Sitemap: %s/sitemap.xml\n", base))
	return builder.String()
}
