// Package content models the blog catalog (posts, categories, authors), checks
// its integrity, decides what is publicly visible, and edits posts on disk.
package content
