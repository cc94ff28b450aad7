package generator

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxDescriptionRunes = 160
	cutDescriptionRunes = 157
	schemaContext       = "https://schema.org"
)

type organizationLD struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type articleLD struct {
	Context       string         `json:"@context"`
	Type          string         `json:"@type"`
	Headline      string         `json:"headline"`
	Description   string         `json:"description"`
	Image         string         `json:"image"`
	URL           string         `json:"url"`
	DatePublished string         `json:"datePublished,omitempty"`
	Publisher     organizationLD `json:"publisher"`
}

type websiteLD struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// InjectSEO rewrites the head of the SPA shell for one route: title,
// description, Open Graph and Twitter tags, canonical link, and a JSON-LD
// block. Tags missing from the shell are appended to the head and earlier
// JSON-LD blocks are replaced, so injecting twice yields the same head. The
// body is left untouched.
func InjectSEO(shell string, site Site, seo SEO) (string, error) {
	site = site.normalized()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(shell))
	if err != nil {
		return "", fmt.Errorf("generator: parse shell: %w", err)
	}
	head := doc.Find("head").First()
	if head.Length() == 0 {
		return "", fmt.Errorf("generator: shell has no <head>")
	}

	fullTitle := seo.Title
	if fullTitle != site.Name {
		fullTitle = seo.Title + " | " + site.Name
	}
	fullURL := site.URL(seo.URL)
	image := seo.Image
	if image == "" {
		image = site.DefaultImage
	}
	description := TruncateDescription(seo.Description)
	ogType := seo.Type
	if ogType == "" {
		ogType = seoTypeWebsite
	}

	head.Find(`script[type="application/ld+json"], meta[property="article:published_time"]`).Remove()

	title := head.Find("title").First()
	if title.Length() == 0 {
		head.AppendHtml("<title></title>")
		title = head.Find("title").First()
	}
	title.SetText(fullTitle)

	upsertMeta(head, "name", "description", description)
	upsertMeta(head, "property", "og:type", ogType)
	upsertMeta(head, "property", "og:title", fullTitle)
	upsertMeta(head, "property", "og:description", description)
	upsertMeta(head, "property", "og:url", fullURL)
	upsertMeta(head, "property", "og:image", image)
	upsertMeta(head, "name", "twitter:title", fullTitle)
	upsertMeta(head, "name", "twitter:description", description)

	canonical := head.Find(`link[rel="canonical"]`).First()
	if canonical.Length() == 0 {
		head.AppendHtml(fmt.Sprintf(`<link rel="canonical" href="%s"/>`, html.EscapeString(fullURL)))
	} else {
		canonical.SetAttr("href", fullURL)
	}

	if ogType == seoTypeArticle && seo.PublishedAt != "" {
		head.AppendHtml(fmt.Sprintf(`<meta property="article:published_time" content="%s"/>`, html.EscapeString(seo.PublishedAt)))
	}

	var ld any = websiteLD{
		Context:     schemaContext,
		Type:        "WebSite",
		Name:        site.Name,
		URL:         fullURL,
		Description: description,
	}
	if ogType == seoTypeArticle {
		ld = articleLD{
			Context:       schemaContext,
			Type:          "Article",
			Headline:      seo.Title,
			Description:   description,
			Image:         image,
			URL:           fullURL,
			DatePublished: seo.PublishedAt,
			Publisher:     organizationLD{Type: "Organization", Name: site.Name, URL: site.BaseURL},
		}
	}
	payload, err := json.Marshal(ld)
	if err != nil {
		return "", fmt.Errorf("generator: encode json-ld: %w", err)
	}
	head.AppendHtml(`<script type="application/ld+json">` + string(payload) + `</script>`)

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("generator: render shell: %w", err)
	}
	return out, nil
}

// TruncateDescription cuts descriptions longer than 160 characters to the
// first 157 followed by "...".
func TruncateDescription(description string) string {
	if utf8.RuneCountInString(description) <= maxDescriptionRunes {
		return description
	}
	return string([]rune(description)[:cutDescriptionRunes]) + "..."
}

func upsertMeta(head *goquery.Selection, attr, key, value string) {
	meta := head.Find(fmt.Sprintf(`meta[%s="%s"]`, attr, key)).First()
	if meta.Length() == 0 {
		head.AppendHtml(fmt.Sprintf(`<meta %s="%s" content="%s"/>`, attr, key, html.EscapeString(value)))
		return
	}
	meta.SetAttr("content", value)
}
