package content

import "errors"

var (
	ErrSlugExists       = errors.New("content: slug already exists")
	ErrInvalidSlug      = errors.New("content: slug must be lowercase letters, digits, and single hyphens")
	ErrInvalidPost      = errors.New("content: invalid post")
	ErrPostNotFound     = errors.New("content: post not found")
	ErrCategoryNotFound = errors.New("content: category directory not found")
	ErrCatalogSchema    = errors.New("content: catalog file does not match schema")
	ErrValidationFailed = errors.New("content: integrity checks failed")
)
