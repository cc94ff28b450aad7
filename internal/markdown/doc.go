// Package markdown holds the markdown tooling used by the content pipeline:
// the formatting repair engine for machine-written posts, frontmatter
// handling, document discovery and scanning, goldmark rendering for
// previews, and the watch loop that repairs files as they are saved.
package markdown
