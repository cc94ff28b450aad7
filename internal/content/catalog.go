package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/bujatime/bujatime/internal/validation"
)

// Catalog file names inside the data directory.
const (
	PostsFile      = "posts.json"
	CategoriesFile = "categories.json"
	AuthorsFile    = "authors.json"
)

// DefaultHiddenCategories are never published in feeds, sitemaps, or
// prerendered pages.
var DefaultHiddenCategories = []string{"briefing", "draft"}

// CategoryColors lists the accepted category badge colours.
var CategoryColors = []string{"blue", "green", "purple", "orange", "red", "teal"}

//go:embed schemas/*.json
var schemaFiles embed.FS

var (
	postsSchema      = mustSchema("posts.schema.json")
	categoriesSchema = mustSchema("categories.schema.json")
	authorsSchema    = mustSchema("authors.schema.json")
)

func mustSchema(name string) *validation.Schema {
	source, err := schemaFiles.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}
	return validation.MustCompile(name, source)
}

// Category groups posts.
type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

// Social holds an author's public profiles.
type Social struct {
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Author is a post writer.
type Author struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Image  string  `json:"image,omitempty"`
	Role   string  `json:"role,omitempty"`
	Bio    string  `json:"bio,omitempty"`
	Social *Social `json:"social,omitempty"`
}

// PostMeta is one entry of posts.json. The body lives in
// posts/<categoryId>/<slug>.md.
type PostMeta struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	CoverImage  string   `json:"coverImage"`
	CategoryID  string   `json:"categoryId"`
	Tags        []string `json:"tags"`
	AuthorID    string   `json:"authorId"`
	PublishedAt string   `json:"publishedAt"`
	Featured    bool     `json:"featured"`
}

// Catalog is the loaded content data set.
type Catalog struct {
	Posts      []PostMeta
	Categories []Category
	Authors    []Author

	hidden []string
}

// CatalogOption customises a Catalog.
type CatalogOption func(*Catalog)

// WithHiddenCategories replaces the default hidden category IDs.
func WithHiddenCategories(ids []string) CatalogOption {
	return func(c *Catalog) {
		if ids != nil {
			c.hidden = slices.Clone(ids)
		}
	}
}

// NewCatalog assembles a catalog from already decoded data.
func NewCatalog(posts []PostMeta, categories []Category, authors []Author, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		Posts:      posts,
		Categories: categories,
		Authors:    authors,
		hidden:     slices.Clone(DefaultHiddenCategories),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// LoadCatalog reads posts.json, categories.json, and authors.json from
// dataDir. Each file is checked against its schema before decoding.
func LoadCatalog(fsys fs.FS, dataDir string, opts ...CatalogOption) (*Catalog, error) {
	var (
		posts      []PostMeta
		categories []Category
		authors    []Author
	)
	if err := loadJSON(fsys, path.Join(dataDir, PostsFile), postsSchema, &posts); err != nil {
		return nil, err
	}
	if err := loadJSON(fsys, path.Join(dataDir, CategoriesFile), categoriesSchema, &categories); err != nil {
		return nil, err
	}
	if err := loadJSON(fsys, path.Join(dataDir, AuthorsFile), authorsSchema, &authors); err != nil {
		return nil, err
	}
	return NewCatalog(posts, categories, authors, opts...), nil
}

func loadJSON(fsys fs.FS, name string, schema *validation.Schema, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("content: read %s: %w", name, err)
	}
	if err := schema.ValidateJSON(data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCatalogSchema, name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("content: decode %s: %w", name, err)
	}
	return nil
}
