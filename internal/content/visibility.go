package content

import (
	"slices"
	"time"
)

// PublishedLayout is the layout of PostMeta.PublishedAt.
const PublishedLayout = "2006-01-02"

// HiddenCategories returns the category IDs excluded from public output.
func (c *Catalog) HiddenCategories() []string {
	return slices.Clone(c.hidden)
}

// IsHidden reports whether posts of categoryID stay out of public output.
func (c *Catalog) IsHidden(categoryID string) bool {
	return slices.Contains(c.hidden, categoryID)
}

// VisiblePosts returns posts outside hidden categories in catalog order. A
// slug seen earlier in the catalog wins over later duplicates.
func (c *Catalog) VisiblePosts() []PostMeta {
	seen := make(map[string]bool, len(c.Posts))
	visible := make([]PostMeta, 0, len(c.Posts))
	for _, post := range c.Posts {
		if c.IsHidden(post.CategoryID) || seen[post.Slug] {
			continue
		}
		seen[post.Slug] = true
		visible = append(visible, post)
	}
	return visible
}

// VisibleCategories returns categories that are not hidden.
func (c *Catalog) VisibleCategories() []Category {
	visible := make([]Category, 0, len(c.Categories))
	for _, category := range c.Categories {
		if c.IsHidden(category.ID) {
			continue
		}
		visible = append(visible, category)
	}
	return visible
}

// Category looks up a category by ID.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, category := range c.Categories {
		if category.ID == id {
			return category, true
		}
	}
	return Category{}, false
}

// Author looks up an author by ID.
func (c *Catalog) Author(id string) (Author, bool) {
	for _, author := range c.Authors {
		if author.ID == id {
			return author, true
		}
	}
	return Author{}, false
}

// PostBySlug returns the first post with slug.
func (c *Catalog) PostBySlug(slug string) (PostMeta, bool) {
	for _, post := range c.Posts {
		if post.Slug == slug {
			return post, true
		}
	}
	return PostMeta{}, false
}

// SortedByDate returns a copy of posts ordered newest first. Posts with the
// same date keep their relative order; unparsable dates sort last.
func SortedByDate(posts []PostMeta) []PostMeta {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b PostMeta) int {
		ta, okA := PublishedTime(a)
		tb, okB := PublishedTime(b)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		return tb.Compare(ta)
	})
	return sorted
}

// PublishedTime parses PublishedAt as a calendar date in UTC.
func PublishedTime(post PostMeta) (time.Time, bool) {
	t, err := time.Parse(PublishedLayout, post.PublishedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
