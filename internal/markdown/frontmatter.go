package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"
)

const postDateLayout = "2006-01-02"

// FrontMatter is the metadata block at the top of a post document.
type FrontMatter struct {
	Title    string         `json:"title,omitempty"`
	Slug     string         `json:"slug,omitempty"`
	Excerpt  string         `json:"excerpt,omitempty"`
	Category string         `json:"category,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Author   string         `json:"author,omitempty"`
	Date     string         `json:"date,omitempty"`
	Draft    bool           `json:"draft,omitempty"`
	Custom   map[string]any `json:"custom,omitempty"`
}

// ParseFrontMatter extracts metadata and the markdown body from source. A
// document without a frontmatter block yields empty metadata and the full
// source as body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta.toFrontMatter(), body, nil
}

// SplitFrontMatter separates a leading "---" (YAML) or "+++" (TOML) block
// from the body. The prefix keeps its delimiters and trailing newline so
// prefix+body always reproduces source. An unterminated block is treated as
// body.
func SplitFrontMatter(source []byte) (prefix, body []byte) {
	for _, delim := range [][]byte{[]byte("---"), []byte("+++")} {
		first, rest, ok := cutLine(source)
		if !ok || !bytes.Equal(bytes.TrimRight(first, " \t\r"), delim) {
			continue
		}
		for len(rest) > 0 {
			line, next, _ := cutLine(rest)
			if bytes.Equal(bytes.TrimRight(line, " \t\r"), delim) {
				end := len(source) - len(next)
				return source[:end:end], source[end:]
			}
			rest = next
		}
	}
	return nil, source
}

// cutLine returns the first line of b without its newline and the remainder.
// ok is false when b contains no newline.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

type frontMatterEnvelope struct {
	Title    string         `yaml:"title" toml:"title"`
	Slug     string         `yaml:"slug" toml:"slug"`
	Excerpt  string         `yaml:"excerpt" toml:"excerpt"`
	Category string         `yaml:"category" toml:"category"`
	Tags     []string       `yaml:"tags" toml:"tags"`
	Author   string         `yaml:"author" toml:"author"`
	Date     any            `yaml:"date" toml:"date"`
	Draft    bool           `yaml:"draft" toml:"draft"`
	Custom   map[string]any `yaml:",inline" toml:"-"`
}

func (env frontMatterEnvelope) toFrontMatter() FrontMatter {
	custom := map[string]any{}
	if env.Custom != nil {
		custom = maps.Clone(env.Custom)
	}

	return FrontMatter{
		Title:    env.Title,
		Slug:     env.Slug,
		Excerpt:  env.Excerpt,
		Category: env.Category,
		Tags:     append([]string(nil), env.Tags...),
		Author:   env.Author,
		Date:     formatDate(env.Date),
		Draft:    env.Draft,
		Custom:   custom,
	}
}

func formatDate(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(postDateLayout)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
