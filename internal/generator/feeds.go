package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/bujatime/bujatime/internal/content"
)

// rfc1123GMT matches the pubDate form feed readers expect.
const rfc1123GMT = "Mon, 02 Jan 2006 15:04:05 GMT"

// publishZone is the site's publishing timezone; a post dated 2024-01-15
// went live at midnight KST.
var publishZone = time.FixedZone("KST", 9*60*60)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// BuildRSS renders the RSS 2.0 feed for posts. Callers pass the visible
// posts; items are ordered newest first. lastBuildDate is the newest post's
// pubDate, or generatedAt when there are no posts.
func BuildRSS(site Site, posts []content.PostMeta, generatedAt time.Time) string {
	site = site.normalized()
	sorted := content.SortedByDate(posts)

	lastBuild := formatRFC1123(generatedAt)
	if len(sorted) > 0 {
		lastBuild = pubDate(sorted[0], generatedAt)
	}

	items := make([]string, 0, len(sorted))
	for _, post := range sorted {
		link := content.PostURL(site.BaseURL, post.Slug)
		description := post.Excerpt
		if strings.TrimSpace(description) == "" {
			description = post.Title
		}

		var item strings.Builder
		item.WriteString("    <item>\n")
		item.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(post.Title)))
		item.WriteString(fmt.Sprintf("      <link>%s</link>\n", link))
		item.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(description)))
		item.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pubDate(post, generatedAt)))
		item.WriteString(fmt.Sprintf("      <guid>%s</guid>\n", link))
		item.WriteString("    </item>")
		items = append(items, item.String())
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(site.Title)))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", site.BaseURL))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(site.Description)))
	builder.WriteString(fmt.Sprintf("    <language>%s</language>\n", escapeXML(site.Language)))
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", lastBuild))
	builder.WriteString(fmt.Sprintf(`    <atom:link href="%s" rel="self" type="application/rss+xml"/>`+"\n", site.URL("/rss.xml")))
	builder.WriteString("\n")
	builder.WriteString(strings.Join(items, "\n\n"))
	builder.WriteString("\n  </channel>\n")
	builder.WriteString("</rss>\n")
	return builder.String()
}

// pubDate formats the post date at midnight in the publishing zone. An
// unparsable date falls back to fallback.
func pubDate(post content.PostMeta, fallback time.Time) string {
	t, err := time.ParseInLocation(content.PublishedLayout, post.PublishedAt, publishZone)
	if err != nil {
		return formatRFC1123(fallback)
	}
	return formatRFC1123(t)
}

func formatRFC1123(t time.Time) string {
	return t.UTC().Format(rfc1123GMT)
}

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}
