package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bujatime/bujatime/internal/content"
)

const testShell = `<!doctype html>
<html lang="ko">
  <head>
    <meta charset="UTF-8" />
    <title>부자타임</title>
    <meta name="description" content="default description" />
    <meta property="og:type" content="website" />
    <meta property="og:title" content="부자타임" />
    <meta property="og:description" content="default description" />
    <meta property="og:url" content="https://www.bujatime.com" />
    <meta property="og:image" content="https://www.bujatime.com/og-image.png" />
    <meta name="twitter:title" content="부자타임" />
    <meta name="twitter:description" content="default description" />
    <link rel="canonical" href="https://www.bujatime.com" />
  </head>
  <body>
    <div id="root"></div>
    <script type="module" src="/assets/index.js"></script>
  </body>
</html>
`

// newTestCatalog holds two visible posts, one hidden briefing, and a later
// duplicate of a visible slug.
func newTestCatalog() *content.Catalog {
	categories := []content.Category{
		{ID: "ai", Title: "AI", Slug: "ai", Description: "AI 도구와 활용법", Color: "blue"},
		{ID: "finance", Title: "재테크", Slug: "finance", Color: "green"},
		{ID: "briefing", Title: "브리핑", Slug: "briefing", Color: "orange"},
	}
	posts := []content.PostMeta{
		{
			ID: "1", Slug: "ai-tools", Title: "AI & Tools", Excerpt: "Best <AI> tools",
			CoverImage: "/images/ai.png", CategoryID: "ai", AuthorID: "ceo", PublishedAt: "2024-01-15",
		},
		{
			ID: "2", Slug: "morning-briefing", Title: "Morning briefing", Excerpt: "today",
			CategoryID: "briefing", AuthorID: "ceo", PublishedAt: "2024-01-20",
		},
		{
			ID: "3", Slug: "compound-basics", Title: "복리의 기초", Excerpt: "  ",
			CategoryID: "finance", AuthorID: "ceo", PublishedAt: "2024-01-10",
		},
		{
			ID: "4", Slug: "ai-tools", Title: "Duplicate", Excerpt: "later copy",
			CategoryID: "ai", AuthorID: "ceo", PublishedAt: "2024-02-01",
		},
	}
	authors := []content.Author{{ID: "ceo", Name: "부자타임 CEO"}}
	return content.NewCatalog(posts, categories, authors)
}

func writeShell(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(testShell), 0o644); err != nil {
		t.Fatalf("write shell: %v", err)
	}
}

func readOutput(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}
