package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/agentx-labs/skillkit/internal/manifest"
	"github.com/agentx-labs/skillkit/internal/scaffold"
	"github.com/agentx-labs/skillkit/internal/standard"
	"github.com/spf13/cobra"
)

var (
	createStandard      string
	createScope         string
	createOutputDir     string
	createDescription   string
	createLicense       string
	createCompatibility string
	createTools         string
	createVersion       string
	createAuthor        string
	createScripts       bool
	createReferences    bool
	createAssets        bool
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Scaffold a new skill package",
	Long: `Create a new skill package directory with a SKILL.md and optional
scripts/, references/ and assets/ folders.

By default the package is created in the root of --scope (for example
~/.agent-skills for the user scope). Use --output-dir to create it elsewhere.

Examples:
  skillkit create pdf-tools -d "Work with PDF files" --scripts
  skillkit create notes -d "Keep notes" --standard claude --output-dir .`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	f := createCmd.Flags()
	f.StringVarP(&createStandard, "standard", "s", "", "Standard: "+standardHelp()+" (default from config)")
	f.StringVarP(&createScope, "scope", "l", "", "Create in this scope's root (default from config)")
	f.StringVarP(&createOutputDir, "output-dir", "o", "", "Parent directory of the new package")
	f.StringVarP(&createDescription, "description", "d", "", "What the skill does (required)")
	f.StringVar(&createLicense, "license", "", "License identifier")
	f.StringVar(&createCompatibility, "compatibility", "", "Compatibility note")
	f.StringVar(&createTools, "allowed-tools", "", "Space or comma separated list of allowed tools")
	f.StringVar(&createVersion, "version", "", "metadata.version")
	f.StringVar(&createAuthor, "author", "", "metadata.author")
	f.BoolVar(&createScripts, "scripts", false, "Create a scripts/ folder")
	f.BoolVar(&createReferences, "references", false, "Create a references/ folder")
	f.BoolVar(&createAssets, "assets", false, "Create an assets/ folder")
	_ = createCmd.MarkFlagRequired("description")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	id, err := pickStandard(createStandard)
	if err != nil {
		return err
	}
	rules, err := standard.RulesFor(id)
	if err != nil {
		return err
	}

	if err := manifest.ValidateName(name, rules); err != nil {
		if s := manifest.SuggestName(name); s != "" && manifest.ValidateName(s, rules) == nil {
			return fmt.Errorf("invalid name %q: %w (try %q)", name, err, s)
		}
		return fmt.Errorf("invalid name %q: %w", name, err)
	}

	base := createOutputDir
	if base == "" {
		scope, err := pickScope(createScope)
		if err != nil {
			return err
		}
		if base, err = resolver.Root(scope, id); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", base, err)
	}

	var meta manifest.Metadata
	if createVersion != "" {
		meta = append(meta, manifest.MetadataEntry{Key: "version", Value: createVersion})
	}
	if createAuthor != "" {
		meta = append(meta, manifest.MetadataEntry{Key: "author", Value: createAuthor})
	}

	result, err := scaffold.Create(base, scaffold.Options{
		Name:          name,
		Description:   createDescription,
		License:       createLicense,
		Compatibility: createCompatibility,
		Metadata:      meta,
		AllowedTools:  splitTools(createTools),
		Scripts:       createScripts,
		References:    createReferences,
		Assets:        createAssets,
		Rules:         rules,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", result.Dir)
	for _, f := range result.Files {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f)
	}
	return nil
}

func splitTools(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
}
