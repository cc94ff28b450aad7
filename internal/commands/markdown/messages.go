package markdowncmd

import (
	"path"
	"strings"

	"github.com/bujatime/bujatime/pkg/interfaces"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	repairTextMessageType    = "bujatime.markdown.repair_text"
	scanDirectoryMessageType = "bujatime.markdown.scan_directory"
)

// RepairTextCommand runs the repair pipeline over Text. The handler stores
// the outcome in Result, which callers must allocate.
type RepairTextCommand struct {
	Text   string                   `json:"text"`
	Result *interfaces.RepairResult `json:"-"`
}

// Type implements command.Message.
func (RepairTextCommand) Type() string { return repairTextMessageType }

// Validate requires a destination for the result. Empty text is allowed.
func (cmd RepairTextCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Result, validation.NotNil.Error("result destination is required")),
	)
}

// ScanDirectoryCommand repairs every markdown file under Directory. With Fix
// the repaired files are written back. Report receives the scan summary when
// non-nil.
type ScanDirectoryCommand struct {
	// Directory is the root to walk, or a single file.
	Directory string `json:"directory"`
	// Pattern overrides the scanner glob, for example "*.mdx".
	Pattern string `json:"pattern,omitempty"`
	// Fix writes repaired documents back to disk.
	Fix    bool                   `json:"fix,omitempty"`
	Report *interfaces.ScanReport `json:"-"`
}

// Type implements command.Message.
func (ScanDirectoryCommand) Type() string { return scanDirectoryMessageType }

// Validate ensures directory input is present and the pattern is a valid glob.
func (cmd ScanDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("bujatime.markdown.scan_directory.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.Pattern, validation.By(func(value any) error {
			pattern := strings.TrimSpace(value.(string))
			if pattern == "" {
				return nil
			}
			if _, err := path.Match(pattern, ""); err != nil {
				return validation.NewError("bujatime.markdown.scan_directory.pattern_invalid", "pattern is not a valid glob")
			}
			return nil
		})),
	)
}
