package cli

import (
	"errors"
	"fmt"

	"github.com/agentx-labs/skillkit/internal/manifest"
	"github.com/agentx-labs/skillkit/internal/standard"
	"github.com/spf13/cobra"
)

var validateStandard string

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Check a skill package against a standard",
	Long: `Run the install-time checks on a package directory without installing it:
the manifest must parse, the name must satisfy the standard and match the
directory name, and the description must be within limits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := pickStandard(validateStandard)
		if err != nil {
			return err
		}
		rules, err := standard.RulesFor(id)
		if err != nil {
			return err
		}

		rec, err := manifest.ValidatePackage(args[0], rules)
		if err != nil {
			if hint := nameHint(err, rec); hint != "" {
				return fmt.Errorf("%w\n%s", err, hint)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "[ OK ] %s is a valid %s package\n", rec.Name, rules.DisplayName)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateStandard, "standard", "s", "", "Standard: "+standardHelp()+" (default from config)")
	rootCmd.AddCommand(validateCmd)
}

// nameHint suggests a repaired name when err is a naming failure.
func nameHint(err error, rec *manifest.Record) string {
	if rec == nil {
		return ""
	}
	var tooLong *manifest.NameTooLongError
	switch {
	case errors.As(err, &tooLong),
		errors.Is(err, manifest.ErrInvalidNameCharacters),
		errors.Is(err, manifest.ErrLeadingHyphen),
		errors.Is(err, manifest.ErrTrailingHyphen),
		errors.Is(err, manifest.ErrDoubleHyphen):
		if s := manifest.SuggestName(rec.Name); s != "" && s != rec.Name {
			return fmt.Sprintf("Suggested name: %s", s)
		}
	}
	return ""
}
