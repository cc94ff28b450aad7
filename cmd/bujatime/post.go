package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bujatime/bujatime/cmd/bujatime/internal/bootstrap"
	"github.com/bujatime/bujatime/internal/content"
	"github.com/bujatime/bujatime/internal/logging"
)

func newPostCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create, edit, and remove blog posts",
		Long: "Edits posts.json and the markdown bodies under posts/<category>/ in the content data directory. " +
			"Bodies are repaired before they are written.",
	}
	cmd.AddCommand(
		newPostListCommand(a),
		newPostShowCommand(a),
		newPostNewCommand(a),
		newPostEditCommand(a),
		newPostRemoveCommand(a),
	)
	return cmd
}

func (a *app) store() (*content.Store, error) {
	rt, err := a.runtime()
	if err != nil {
		return nil, err
	}
	return postStore(rt), nil
}

func postStore(rt *bootstrap.Runtime) *content.Store {
	return content.NewStore(rt.Config.Content.DataDir, content.WithStoreLogger(logging.ContentLogger(rt.Provider)))
}

// readBody reads a post body from path, or from stdin when path is "-".
func (a *app) readBody(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(a.in)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func newPostListCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every post in posts.json order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			posts, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.out, posts)
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tSLUG\tTITLE")
			for _, post := range posts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", post.ID, post.PublishedAt, post.CategoryID, post.Slug, post.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print posts as JSON")
	return cmd
}

func newPostShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <category> <slug>",
		Short: "Print the markdown body of a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			post, err := store.ReadPost(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if post.Meta != nil {
				fmt.Fprintf(a.errOut, "%s (%s, %s)\n", post.Meta.Title, post.Meta.ID, post.Meta.PublishedAt)
			}
			_, err = io.WriteString(a.out, post.Content)
			return err
		},
	}
}

func newPostNewCommand(a *app) *cobra.Command {
	var (
		in   content.PostInput
		body string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a post from a markdown file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.readBody(body)
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			in.Content = text

			store, err := a.store()
			if err != nil {
				return err
			}
			saved, err := store.CreatePost(cmd.Context(), in)
			if err != nil {
				return err
			}
			printSaved(a, "created", saved)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&in.Slug, "slug", "", "URL slug (normalised to lowercase-hyphenated)")
	flags.StringVar(&in.Title, "title", "", "Post title")
	flags.StringVar(&in.CategoryID, "category", "", "Category ID")
	flags.StringVar(&in.Excerpt, "excerpt", "", "Summary shown in lists (defaults to the title)")
	flags.StringVar(&in.CoverImage, "cover", "", "Cover image URL")
	flags.StringSliceVar(&in.Tags, "tags", nil, "Comma separated tags")
	flags.StringVar(&in.AuthorID, "author", "", "Author ID (defaults to ceo)")
	flags.BoolVar(&in.Featured, "featured", false, "Feature the post on the home page")
	flags.StringVarP(&body, "file", "f", "-", "Markdown body file, or - for stdin")
	return cmd
}

func newPostEditCommand(a *app) *cobra.Command {
	var (
		title    string
		excerpt  string
		cover    string
		tags     []string
		featured bool
		body     string
	)

	cmd := &cobra.Command{
		Use:   "edit <category> <slug>",
		Short: "Update the metadata or body of a post",
		Long:  "Only the flags that are set are applied. The body is replaced when --file is given.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			upd := content.PostUpdate{}
			if flags.Changed("title") {
				upd.Title = &title
			}
			if flags.Changed("excerpt") {
				upd.Excerpt = &excerpt
			}
			if flags.Changed("cover") {
				upd.CoverImage = &cover
			}
			if flags.Changed("tags") {
				upd.Tags = tags
			}
			if flags.Changed("featured") {
				upd.Featured = &featured
			}
			if flags.Changed("file") {
				text, err := a.readBody(body)
				if err != nil {
					return fmt.Errorf("read body: %w", err)
				}
				upd.Content = &text
			}

			store, err := a.store()
			if err != nil {
				return err
			}
			saved, err := store.UpdatePost(cmd.Context(), args[0], args[1], upd)
			if err != nil {
				return err
			}
			printSaved(a, "updated", saved)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "New title")
	flags.StringVar(&excerpt, "excerpt", "", "New excerpt")
	flags.StringVar(&cover, "cover", "", "New cover image URL")
	flags.StringSliceVar(&tags, "tags", nil, "Replacement tags")
	flags.BoolVar(&featured, "featured", false, "Feature the post")
	flags.StringVarP(&body, "file", "f", "", "Replacement markdown body file, or - for stdin")
	return cmd
}

func newPostRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <category> <slug>",
		Aliases: []string{"delete"},
		Short:   "Delete a post and its markdown body",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			if err := store.DeletePost(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted %s/%s\n", args[0], args[1])
			return nil
		},
	}
}

func printSaved(a *app, verb string, saved *content.SaveResult) {
	if saved.Post.ID == "" {
		fmt.Fprintf(a.out, "%s %s\n", verb, saved.Path)
	} else {
		fmt.Fprintf(a.out, "%s %s (id %s) at %s\n", verb, saved.Post.Slug, saved.Post.ID, saved.Path)
	}
	if len(saved.Changes) > 0 {
		fmt.Fprintf(a.errOut, "repaired body (%s):\n", plural(len(saved.Changes), "fix", "fixes"))
		printChanges(a.errOut, saved.Changes)
	}
}
