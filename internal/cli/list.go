package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/agentx-labs/skillkit/internal/discovery"
	"github.com/agentx-labs/skillkit/internal/paths"
	"github.com/spf13/cobra"
)

var (
	listStandard string
	listScope    string
	listSearch   string
	listPath     string
	listFormat   string
	listDetail   string
	listCheck    bool
	listNoGroup  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed skill packages",
	Long: `List the skill packages found in every existing root of the selected
standards. Packages that fail to parse are listed with their errors.

Examples:
  skillkit list
  skillkit list --standard claude --scope project
  skillkit list --search pdf --format table
  skillkit list --detail pdf-tools
  skillkit list --check`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listStandard, "standard", "S", "all", "Standard: all, "+standardHelp())
	listCmd.Flags().StringVarP(&listScope, "scope", "l", "", "Only show skills of this scope (user, project, system, custom)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only show skills whose name, description or author contains this text")
	listCmd.Flags().StringVarP(&listPath, "path", "p", "", "Scan this directory instead of the standard roots")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "list", "Output format: list, table, json")
	listCmd.Flags().StringVarP(&listDetail, "detail", "d", "", "Show details of one skill")
	listCmd.Flags().BoolVarP(&listCheck, "check", "c", false, "Report format problems")
	listCmd.Flags().BoolVar(&listNoGroup, "no-group", false, "Do not group by scope")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ids, err := pickStandards(listStandard)
	if err != nil {
		return err
	}

	var roots []discovery.Root
	if listPath != "" {
		if _, err := os.Stat(listPath); err != nil {
			return fmt.Errorf("path %s: %w", listPath, err)
		}
		root, err := discovery.CustomRoot(listPath, ids[0])
		if err != nil {
			return err
		}
		roots = append(roots, root)
	} else {
		roots, err = discovery.EnumerateRoots(resolver, ids, paths.Scopes())
		if err != nil {
			return err
		}
	}

	res := discovery.Scan(roots)
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}

	q := discovery.Query{Search: listSearch}
	if listScope != "" {
		q.Scope = paths.Scope(listScope)
		if q.Scope != discovery.Custom {
			if q.Scope, err = paths.ParseScope(listScope); err != nil {
				return err
			}
		}
	}
	skills := discovery.Filter(res.Skills, q)

	out := cmd.OutOrStdout()
	switch {
	case listDetail != "":
		s, ok := discovery.Find(skills, listDetail)
		if !ok {
			return fmt.Errorf("skill %q not found", listDetail)
		}
		return printDetail(out, s)
	case listCheck:
		return printCheck(out, skills)
	}

	switch listFormat {
	case "list":
		return printList(out, skills, !listNoGroup)
	case "table":
		return printTable(out, skills)
	case "json":
		return printJSON(out, skills, time.Now())
	default:
		return fmt.Errorf("unknown format %q (want list, table or json)", listFormat)
	}
}
