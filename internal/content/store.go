package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"

	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/internal/markdown"
	"github.com/bujatime/bujatime/pkg/interfaces"
)

const (
	postsDirName      = "posts"
	defaultAuthorID   = "ceo"
	defaultCoverImage = "https://images.unsplash.com/photo-1499750310107-5fef28a66643?w=1200&h=630&fit=crop"
)

// PostInput describes a new post.
type PostInput struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt,omitempty"`
	CoverImage string   `json:"coverImage,omitempty"`
	CategoryID string   `json:"categoryId"`
	Tags       []string `json:"tags,omitempty"`
	AuthorID   string   `json:"authorId,omitempty"`
	Featured   bool     `json:"featured,omitempty"`
	Content    string   `json:"content"`
}

// Validate checks the required fields of a new post.
func (in PostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Slug, validation.Required),
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.CategoryID, validation.Required),
		validation.Field(&in.Content, validation.Required),
	)
}

// PostUpdate changes selected fields of an existing post. Nil fields are
// left as they are.
type PostUpdate struct {
	Title      *string
	Excerpt    *string
	CoverImage *string
	Tags       []string
	Featured   *bool
	Content    *string
}

// SaveResult reports a stored post and the markdown repairs applied to it.
type SaveResult struct {
	Post    PostMeta
	Path    string
	Changes []string
}

// StoredPost is a post read back from disk.
type StoredPost struct {
	Meta    *PostMeta
	Content string
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger for store writes.
func WithStoreLogger(logger interfaces.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logging.Ensure(logger)
	}
}

// WithStoreClock overrides the clock used for publication dates.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store edits posts.json and the markdown files under posts/. Writes are
// serialised within one Store.
type Store struct {
	dataDir string
	logger  interfaces.Logger
	now     func() time.Time
	mu      sync.Mutex
}

// NewStore returns a store over the data directory on disk.
func NewStore(dataDir string, opts ...StoreOption) *Store {
	s := &Store{
		dataDir: dataDir,
		logger:  logging.NoOp(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns every post in posts.json order.
func (s *Store) List(ctx context.Context) ([]PostMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readPosts()
}

// ReadPost returns the markdown body of a post and its metadata when
// posts.json has an entry for the slug.
func (s *Store) ReadPost(ctx context.Context, categoryID, slugValue string) (*StoredPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.markdownPath(categoryID, slugValue))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrPostNotFound, categoryID, slugValue)
		}
		return nil, fmt.Errorf("content: read post: %w", err)
	}
	posts, err := s.readPosts()
	if err != nil {
		return nil, err
	}

	stored := &StoredPost{Content: string(data)}
	if i := indexBySlug(posts, slugValue); i >= 0 {
		meta := posts[i]
		stored.Meta = &meta
	}
	return stored, nil
}

// CreatePost normalises the slug, repairs the markdown body, writes the
// body file, and prepends the post to posts.json.
func (s *Store) CreatePost(ctx context.Context, in PostInput) (*SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPost, err)
	}
	normalized, err := NormalizeSlug(in.Slug)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	categoryDir := filepath.Join(s.dataDir, postsDirName, in.CategoryID)
	if info, err := os.Stat(categoryDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, in.CategoryID)
	}

	posts, err := s.readPosts()
	if err != nil {
		return nil, err
	}
	if indexBySlug(posts, normalized) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrSlugExists, normalized)
	}

	post := PostMeta{
		ID:          nextID(posts),
		Slug:        normalized,
		Title:       in.Title,
		Excerpt:     firstNonEmpty(in.Excerpt, in.Title),
		CoverImage:  firstNonEmpty(in.CoverImage, defaultCoverImage),
		CategoryID:  in.CategoryID,
		Tags:        nonNilTags(in.Tags),
		AuthorID:    firstNonEmpty(in.AuthorID, defaultAuthorID),
		PublishedAt: s.now().UTC().Format(PublishedLayout),
		Featured:    in.Featured,
	}

	repaired := markdown.RepairDocument([]byte(in.Content))
	mdPath := s.markdownPath(post.CategoryID, post.Slug)
	if err := os.WriteFile(mdPath, repaired.Fixed, 0o644); err != nil {
		return nil, fmt.Errorf("content: write post body: %w", err)
	}
	if err := s.writePosts(append([]PostMeta{post}, posts...)); err != nil {
		return nil, err
	}

	logging.WithDocumentContext(s.logger, mdPath, "create").Info("content.post.created",
		"id", post.ID,
		"slug", post.Slug,
		"repairs", len(repaired.Changes),
	)
	return &SaveResult{Post: post, Path: mdPath, Changes: repaired.Changes}, nil
}

// UpdatePost rewrites the body (after repair) and the provided metadata of
// an existing post.
func (s *Store) UpdatePost(ctx context.Context, categoryID, slugValue string, upd PostUpdate) (*SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	mdPath := s.markdownPath(categoryID, slugValue)
	if _, err := os.Stat(mdPath); err != nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrPostNotFound, categoryID, slugValue)
	}

	result := &SaveResult{Path: mdPath, Changes: []string{}}
	if upd.Content != nil {
		repaired := markdown.RepairDocument([]byte(*upd.Content))
		if err := os.WriteFile(mdPath, repaired.Fixed, 0o644); err != nil {
			return nil, fmt.Errorf("content: write post body: %w", err)
		}
		result.Changes = repaired.Changes
	}

	posts, err := s.readPosts()
	if err != nil {
		return nil, err
	}
	if i := indexBySlug(posts, slugValue); i >= 0 {
		applyUpdate(&posts[i], upd)
		if err := s.writePosts(posts); err != nil {
			return nil, err
		}
		result.Post = posts[i]
	}

	logging.WithDocumentContext(s.logger, mdPath, "update").Info("content.post.updated",
		"slug", slugValue,
		"repairs", len(result.Changes),
	)
	return result, nil
}

// DeletePost removes the body file, if any, and every posts.json entry with
// the slug.
func (s *Store) DeletePost(ctx context.Context, categoryID, slugValue string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	mdPath := s.markdownPath(categoryID, slugValue)
	if err := os.Remove(mdPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("content: remove post body: %w", err)
	}

	posts, err := s.readPosts()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(posts, func(p PostMeta) bool { return p.Slug == slugValue })
	if err := s.writePosts(kept); err != nil {
		return err
	}

	logging.WithDocumentContext(s.logger, mdPath, "delete").Info("content.post.deleted", "slug", slugValue)
	return nil
}

// NormalizeSlug runs the slug through the shared normaliser and checks the
// result against SlugPattern.
func NormalizeSlug(value string) (string, error) {
	normalized, err := slug.Normalize(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidSlug, value, err)
	}
	if !SlugPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, value)
	}
	return normalized, nil
}

func (s *Store) markdownPath(categoryID, slugValue string) string {
	return filepath.Join(s.dataDir, postsDirName, categoryID, slugValue+".md")
}

func (s *Store) postsPath() string {
	return filepath.Join(s.dataDir, PostsFile)
}

func (s *Store) readPosts() ([]PostMeta, error) {
	data, err := os.ReadFile(s.postsPath())
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", PostsFile, err)
	}
	if err := postsSchema.ValidateJSON(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogSchema, PostsFile, err)
	}
	var posts []PostMeta
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("content: decode %s: %w", PostsFile, err)
	}
	return posts, nil
}

// writePosts stores posts as two-space indented JSON without HTML escaping.
func (s *Store) writePosts(posts []PostMeta) error {
	if posts == nil {
		posts = []PostMeta{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return fmt.Errorf("content: encode %s: %w", PostsFile, err)
	}
	if err := os.WriteFile(s.postsPath(), bytes.TrimSuffix(buf.Bytes(), []byte("\n")), 0o644); err != nil {
		return fmt.Errorf("content: write %s: %w", PostsFile, err)
	}
	return nil
}

func applyUpdate(post *PostMeta, upd PostUpdate) {
	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Excerpt != nil {
		post.Excerpt = *upd.Excerpt
	}
	if upd.CoverImage != nil {
		post.CoverImage = *upd.CoverImage
	}
	if upd.Tags != nil {
		post.Tags = slices.Clone(upd.Tags)
	}
	if upd.Featured != nil {
		post.Featured = *upd.Featured
	}
}

// nextID is one more than the largest numeric ID; non-numeric IDs count as 0.
func nextID(posts []PostMeta) string {
	maxID := 0
	for _, post := range posts {
		if n, err := strconv.Atoi(leadingDigits(post.ID)); err == nil && n > maxID {
			maxID = n
		}
	}
	return strconv.Itoa(maxID + 1)
}

// leadingDigits returns the digit prefix of s, so "12a" counts as 12.
func leadingDigits(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func indexBySlug(posts []PostMeta, slugValue string) int {
	return slices.IndexFunc(posts, func(p PostMeta) bool { return p.Slug == slugValue })
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return slices.Clone(tags)
}
