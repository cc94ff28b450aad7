package sitecmd

import (
	"strings"

	"github.com/bujatime/bujatime/internal/content"
	"github.com/bujatime/bujatime/internal/generator"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	validateContentMessageType = "bujatime.site.validate_content"
	buildSiteMessageType       = "bujatime.site.build"
)

// ValidateContentCommand runs the catalog integrity checks over the JSON files
// in DataDir. With CheckArtifacts the generated sitemap.xml and rss.xml under
// OutputDir are verified against the catalog as well.
type ValidateContentCommand struct {
	DataDir        string `json:"data_dir"`
	CheckArtifacts bool   `json:"check_artifacts,omitempty"`
	OutputDir      string `json:"output_dir,omitempty"`
	// Report receives every issue found when non-nil.
	Report *content.ValidationReport `json:"-"`
}

// Type implements command.Message.
func (ValidateContentCommand) Type() string { return validateContentMessageType }

// Validate requires a data directory, and an output directory when artifacts are checked.
func (cmd ValidateContentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DataDir, validation.By(requireText(
			"bujatime.site.validate_content.data_dir_required", "data directory is required",
		))),
		validation.Field(&cmd.OutputDir, validation.When(cmd.CheckArtifacts, validation.By(requireText(
			"bujatime.site.validate_content.output_dir_required", "output directory is required to check artifacts",
		)))),
	)
}

// BuildSiteCommand writes the static artifacts. OutputDir overrides the
// configured directory for this run.
type BuildSiteCommand struct {
	OutputDir string `json:"output_dir,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
	// Result receives the build summary when non-nil.
	Result *generator.BuildResult `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate accepts every build request; all fields are optional.
func (cmd BuildSiteCommand) Validate() error {
	return nil
}

func requireText(code, message string) func(any) error {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
