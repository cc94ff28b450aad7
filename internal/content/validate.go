package content

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// SlugPattern matches lowercase hyphenated slugs.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IssueCode classifies a validation issue.
type IssueCode string

const (
	IssueInvalidPost           IssueCode = "invalid_post"
	IssueInvalidCategory       IssueCode = "invalid_category"
	IssueInvalidAuthor         IssueCode = "invalid_author"
	IssueUnknownCategory       IssueCode = "unknown_category"
	IssueUnknownAuthor         IssueCode = "unknown_author"
	IssueDuplicateSlug         IssueCode = "duplicate_slug"
	IssueHiddenPostExposed     IssueCode = "hidden_post_exposed"
	IssueVisiblePostMissing    IssueCode = "visible_post_missing"
	IssueHiddenCategoryExposed IssueCode = "hidden_category_exposed"
)

// Issue is one failed integrity check.
type Issue struct {
	Code    IssueCode `json:"code"`
	Subject string    `json:"subject,omitempty"`
	Message string    `json:"message"`
}

// ValidationReport collects the issues found by a check run.
type ValidationReport struct {
	Issues []Issue `json:"issues"`
}

// OK reports whether no issue was found.
func (r ValidationReport) OK() bool {
	return len(r.Issues) == 0
}

// Err returns nil when the report is clean and an error wrapping
// ErrValidationFailed otherwise.
func (r ValidationReport) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %d issue(s)", ErrValidationFailed, len(r.Issues))
}

// Merge appends the issues of other.
func (r ValidationReport) Merge(other ValidationReport) ValidationReport {
	return ValidationReport{Issues: append(slices.Clip(r.Issues), other.Issues...)}
}

func (r *ValidationReport) add(code IssueCode, subject, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Code: code, Subject: subject, Message: fmt.Sprintf(format, args...)})
}

// Validate checks field rules of a post entry.
func (p PostMeta) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Slug, validation.Required, validation.Match(SlugPattern).Error("must be lowercase letters, digits, and single hyphens")),
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.CategoryID, validation.Required),
		validation.Field(&p.AuthorID, validation.Required),
		validation.Field(&p.PublishedAt, validation.Required, validation.Date(PublishedLayout)),
		validation.Field(&p.Tags, validation.Each(validation.Required)),
	)
}

// Validate checks field rules of a category entry.
func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Slug, validation.Required, validation.Match(SlugPattern)),
		validation.Field(&c.Color, validation.Required, validation.In(stringsToAny(CategoryColors)...)),
	)
}

// Validate checks field rules of an author entry.
func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Social),
	)
}

// Validate checks the social profile links.
func (s Social) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.LinkedIn, is.URL),
		validation.Field(&s.Twitter, is.URL),
		validation.Field(&s.Email, is.EmailFormat),
	)
}

// Validate runs the catalog integrity checks: field rules on every entry,
// posts pointing at unknown categories or authors, and duplicate slugs.
func (c *Catalog) Validate() ValidationReport {
	var report ValidationReport

	for _, category := range c.Categories {
		if err := category.Validate(); err != nil {
			report.add(IssueInvalidCategory, category.ID, "Invalid category %q: %s", category.ID, describeErrors(err))
		}
	}
	for _, author := range c.Authors {
		if err := author.Validate(); err != nil {
			report.add(IssueInvalidAuthor, author.ID, "Invalid author %q: %s", author.ID, describeErrors(err))
		}
	}

	categoryIDs := make(map[string]bool, len(c.Categories))
	for _, category := range c.Categories {
		categoryIDs[category.ID] = true
	}
	authorIDs := make(map[string]bool, len(c.Authors))
	for _, author := range c.Authors {
		authorIDs[author.ID] = true
	}

	var slugOrder []string
	slugCount := map[string]int{}
	for _, post := range c.Posts {
		if slugCount[post.Slug] == 0 {
			slugOrder = append(slugOrder, post.Slug)
		}
		slugCount[post.Slug]++

		if err := post.Validate(); err != nil {
			report.add(IssueInvalidPost, post.Slug, "Invalid post %q: %s", post.Slug, describeErrors(err))
		}
		if !categoryIDs[post.CategoryID] {
			report.add(IssueUnknownCategory, post.Slug, "Unknown categoryId %q in post %q", post.CategoryID, post.Slug)
		}
		if !authorIDs[post.AuthorID] {
			report.add(IssueUnknownAuthor, post.Slug, "Unknown authorId %q in post %q", post.AuthorID, post.Slug)
		}
	}

	for _, slug := range slugOrder {
		if count := slugCount[slug]; count > 1 {
			report.add(IssueDuplicateSlug, slug, "Duplicate slug %q (%d items)", slug, count)
		}
	}
	return report
}

// VerifyArtifacts checks generated sitemap and RSS documents against the
// catalog: hidden posts must be absent from both, visible posts present in
// both, and hidden category pages absent from the sitemap.
func (c *Catalog) VerifyArtifacts(sitemapXML, rssXML, baseURL string) ValidationReport {
	var report ValidationReport
	baseURL = strings.TrimRight(baseURL, "/")

	for _, post := range c.Posts {
		url := PostURL(baseURL, post.Slug)
		inSitemap := strings.Contains(sitemapXML, "<loc>"+url+"</loc>")
		inRSS := strings.Contains(rssXML, "<link>"+url+"</link>")
		hidden := c.IsHidden(post.CategoryID)

		if hidden && (inSitemap || inRSS) {
			report.add(IssueHiddenPostExposed, post.Slug, "Hidden post exposed in feed/sitemap: %s", post.Slug)
		}
		if !hidden && (!inSitemap || !inRSS) {
			report.add(IssueVisiblePostMissing, post.Slug, "Visible post missing in feed/sitemap: %s", post.Slug)
		}
	}

	for _, id := range c.hidden {
		paths := []string{"/blog/category/" + id}
		if category, ok := c.Category(id); ok && category.Slug != id {
			paths = append(paths, "/blog/category/"+category.Slug)
		}
		for _, p := range paths {
			if strings.Contains(sitemapXML, p) {
				report.add(IssueHiddenCategoryExposed, id, "Hidden category exposed in sitemap.xml: %s", id)
				break
			}
		}
	}
	return report
}

// PostURL is the public URL of a post.
func PostURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/blog/" + slug
}

// CategoryURL is the public URL of a category listing.
func CategoryURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/blog/category/" + slug
}

// describeErrors flattens ozzo field errors into "field: message" pairs
// sorted by field name.
func describeErrors(err error) string {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	keys := slices.Sorted(maps.Keys(fieldErrs))
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+fieldErrs[key].Error())
	}
	return strings.Join(parts, "; ")
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
