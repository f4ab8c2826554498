package config

import (
	"fmt"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidModes      = []string{ModeLocal, ModeGlobal}
	ValidForgeTypes = []string{"github", "gitlab"}
)

// Bounds enforced by Validate.
const (
	MaxPrefixLength      = 50
	MaxAgeThresholdHours = 24 * 365
	MaxFilesShownLimit   = 100
	MaxCommitsShownLimit = 50
)

// Validate checks every field the engine consumes.
func (c *Config) Validate() error {
	if err := validateEnum(c.Mode, "mode", ValidModes); err != nil {
		return err
	}
	if err := ValidatePrefix(c.Prefix); err != nil {
		return err
	}
	if strings.TrimSpace(c.BaseDir) == "" {
		return fmt.Errorf("base_dir cannot be empty")
	}
	if c.Remote == "" {
		return fmt.Errorf("remote cannot be empty")
	}
	if h := c.Cleanup.AgeThresholdHours; h < 1 || h > MaxAgeThresholdHours {
		return fmt.Errorf("cleanup.age_threshold_hours must be between 1 and %d, got %d", MaxAgeThresholdHours, h)
	}
	if len(c.Merge.Methods) == 0 {
		return fmt.Errorf("merge_detection.methods cannot be empty")
	}
	if len(c.Merge.MainBranches) == 0 {
		return fmt.Errorf("merge_detection.main_branches cannot be empty")
	}
	if n := c.Status.MaxFilesShown; n < 1 || n > MaxFilesShownLimit {
		return fmt.Errorf("status.max_files_shown must be between 1 and %d, got %d", MaxFilesShownLimit, n)
	}
	if n := c.Status.MaxCommitsShown; n < 1 || n > MaxCommitsShownLimit {
		return fmt.Errorf("status.max_commits_shown must be between 1 and %d, got %d", MaxCommitsShownLimit, n)
	}
	for host, forgeType := range c.Hosts {
		if err := validateEnum(forgeType, "forge type for host "+host, ValidForgeTypes); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePrefix checks a managed-branch prefix.
func ValidatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("prefix cannot be empty")
	case len(prefix) > MaxPrefixLength:
		return fmt.Errorf("prefix is too long (max %d characters)", MaxPrefixLength)
	case strings.Contains(prefix, ".."):
		return fmt.Errorf("prefix cannot contain '..'")
	case strings.ContainsRune(prefix, 0):
		return fmt.Errorf("prefix cannot contain null bytes")
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
