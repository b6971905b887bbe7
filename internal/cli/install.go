package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/skillkit/internal/conflict"
	"github.com/agentx-labs/skillkit/internal/installer"
	"github.com/agentx-labs/skillkit/internal/standard"
	"github.com/spf13/cobra"
)

var (
	installStandard string
	installScope    string
	installPolicy   string
	installName     string
)

var installCmd = &cobra.Command{
	Use:   "install <source>",
	Short: "Install a skill package from a directory or git URL",
	Long: `Install a skill package into the root of a standard and scope.

The source is a local package directory or a git repository URL. The package
is validated before anything is written. An existing install is handled by
--policy: overwrite, skip, or backup (keep one <name>.backup copy).

--name only applies to git sources, whose repository name may differ from
the package name.

Examples:
  skillkit install ./pdf-tools
  skillkit install ./pdf-tools --standard claude --scope project
  skillkit install https://github.com/acme/pdf-tools.git --policy skip`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVarP(&installStandard, "standard", "s", "", "Standard: "+standardHelp()+" (default from config)")
	installCmd.Flags().StringVarP(&installScope, "scope", "l", "", "Scope: user, project, workspace, system (default from config)")
	installCmd.Flags().StringVar(&installPolicy, "policy", "", "Existing install: overwrite, skip, backup (default from config)")
	installCmd.Flags().StringVar(&installName, "name", "", "Install a git source under this name (must match its manifest name)")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	source := args[0]

	id, err := pickStandard(installStandard)
	if err != nil {
		return err
	}
	rules, err := standard.RulesFor(id)
	if err != nil {
		return err
	}
	scope, err := pickScope(installScope)
	if err != nil {
		return err
	}
	policy := cfg.Policy()
	if installPolicy != "" {
		if policy, err = conflict.ParsePolicy(installPolicy); err != nil {
			return err
		}
	}

	remote := isRemote(source)
	name := sourceName(source, remote)
	if installName != "" {
		// A local package directory must already carry its manifest name.
		if !remote && installName != name {
			return fmt.Errorf("--name %q cannot rename local package %q; rename the directory to match its manifest name instead", installName, name)
		}
		name = installName
	}

	target, err := resolver.Resolve(scope, id, name)
	if err != nil {
		return err
	}

	engine := installer.New(cmd.OutOrStdout())
	engine.SetScriptPermissions = cfg.Options.SetScriptPermissions

	if err := engine.CheckPermissions(target, scope); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installing %s (%s, %s scope) -> %s\n", name, rules.DisplayName, scope, target)

	var outcome *installer.Outcome
	if remote {
		outcome, err = engine.InstallFromRemote(cmd.Context(), source, target, rules, policy)
	} else {
		outcome, err = engine.InstallFromLocal(source, target, rules, policy)
	}
	if err != nil {
		return err
	}

	if outcome.Status == installer.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing installed; use --policy overwrite or backup to replace %s\n", outcome.Path)
	}
	return nil
}

// isRemote treats anything that is not an existing path and looks like a
// repository address as a git source.
func isRemote(source string) bool {
	if _, err := os.Stat(source); err == nil {
		return false
	}
	return strings.Contains(source, "://") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasSuffix(source, ".git")
}

func sourceName(source string, remote bool) string {
	if remote {
		return installer.NameFromURL(source)
	}
	if abs, err := filepath.Abs(source); err == nil {
		return filepath.Base(abs)
	}
	return filepath.Base(source)
}
