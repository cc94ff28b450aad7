package content

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/bujatime/bujatime/internal/validation"
)

const (
	testPostsJSON = `[
  {"id": "3", "slug": "ai-tools", "title": "AI 도구 정리", "excerpt": "", "coverImage": "/img/ai.jpg", "categoryId": "ai", "tags": ["ai"], "authorId": "ceo", "publishedAt": "2024-06-01", "featured": true},
  {"id": "2", "slug": "morning-briefing", "title": "오늘의 브리핑", "excerpt": "요약", "coverImage": "", "categoryId": "briefing", "tags": [], "authorId": "ceo", "publishedAt": "2024-06-02", "featured": false},
  {"id": "1", "slug": "compound-basics", "title": "복리 & 적금 <기초>", "excerpt": "이자에 이자가 붙는 원리", "coverImage": "", "categoryId": "finance", "tags": ["saving"], "authorId": "ceo", "publishedAt": "2024-05-01", "featured": false}
]`
	testCategoriesJSON = `[
  {"id": "ai", "title": "AI", "slug": "ai", "color": "blue"},
  {"id": "finance", "title": "재테크", "slug": "finance", "description": "돈 공부", "color": "green"},
  {"id": "briefing", "title": "브리핑", "slug": "briefing", "color": "teal"}
]`
	testAuthorsJSON = `[
  {"id": "ceo", "name": "부자타임", "image": "/img/ceo.png", "role": "대표", "social": {"email": "hello@bujatime.com"}}
]`
)

func testCatalogFS() fstest.MapFS {
	return fstest.MapFS{
		"data/posts.json":      {Data: []byte(testPostsJSON)},
		"data/categories.json": {Data: []byte(testCategoriesJSON)},
		"data/authors.json":    {Data: []byte(testAuthorsJSON)},
	}
}

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := LoadCatalog(testCatalogFS(), "data")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	return catalog
}

func TestLoadCatalog(t *testing.T) {
	catalog := loadTestCatalog(t)

	if len(catalog.Posts) != 3 || len(catalog.Categories) != 3 || len(catalog.Authors) != 1 {
		t.Fatalf("unexpected catalog sizes: %d posts, %d categories, %d authors",
			len(catalog.Posts), len(catalog.Categories), len(catalog.Authors))
	}
	if catalog.Posts[0].CategoryID != "ai" || !catalog.Posts[0].Featured {
		t.Fatalf("unexpected first post %#v", catalog.Posts[0])
	}
	if catalog.Authors[0].Social == nil || catalog.Authors[0].Social.Email != "hello@bujatime.com" {
		t.Fatalf("expected social profile to decode, got %#v", catalog.Authors[0])
	}
	if !catalog.IsHidden("briefing") || !catalog.IsHidden("draft") || catalog.IsHidden("ai") {
		t.Fatalf("unexpected default hidden categories %v", catalog.HiddenCategories())
	}
}

func TestLoadCatalogSchemaFailure(t *testing.T) {
	fsys := testCatalogFS()
	fsys["data/categories.json"] = &fstest.MapFile{Data: []byte(`[{"id": "ai", "title": "AI", "slug": "ai", "color": "pink"}]`)}

	_, err := LoadCatalog(fsys, "data")
	if !errors.Is(err, ErrCatalogSchema) {
		t.Fatalf("expected ErrCatalogSchema, got %v", err)
	}
	issues := validation.Issues(err)
	if len(issues) != 1 || issues[0].Location != "/0/color" {
		t.Fatalf("expected one color issue, got %#v", issues)
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	fsys := testCatalogFS()
	delete(fsys, "data/authors.json")

	if _, err := LoadCatalog(fsys, "data"); err == nil {
		t.Fatal("expected error for missing authors.json")
	}
}

func TestWithHiddenCategories(t *testing.T) {
	catalog, err := LoadCatalog(testCatalogFS(), "data", WithHiddenCategories([]string{"ai"}))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if !catalog.IsHidden("ai") || catalog.IsHidden("briefing") {
		t.Fatalf("expected override, got %v", catalog.HiddenCategories())
	}
}
