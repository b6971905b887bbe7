package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/agentx-labs/skillkit/internal/paths"
	"github.com/agentx-labs/skillkit/internal/standard"
	"github.com/spf13/cobra"
)

var (
	whereStandard string
	whereScope    string
)

var whereCmd = &cobra.Command{
	Use:   "where [name]",
	Short: "Show where skills are installed",
	Long: `Without arguments, print the root directory of every standard and scope
and whether it exists. With a package name, print the directory that
"skillkit install" would use for it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			id, err := pickStandard(whereStandard)
			if err != nil {
				return err
			}
			scope, err := pickScope(whereScope)
			if err != nil {
				return err
			}
			target, err := resolver.Resolve(scope, id, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		}

		ids, err := pickStandards(whereStandard)
		if err != nil {
			return err
		}
		return printRoots(cmd, ids)
	},
}

func init() {
	whereCmd.Flags().StringVarP(&whereStandard, "standard", "s", "", "Standard: "+standardHelp())
	whereCmd.Flags().StringVarP(&whereScope, "scope", "l", "", "Scope used with a package name (default from config)")
	rootCmd.AddCommand(whereCmd)
}

func printRoots(cmd *cobra.Command, ids []standard.ID) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "STANDARD\tSCOPE\tPATH\tEXISTS")
	for _, id := range ids {
		for _, scope := range paths.Scopes() {
			dir, err := resolver.Root(scope, id)
			if err != nil {
				fmt.Fprintf(w, "%s\t%s\t(%v)\t-\n", id, scope, err)
				continue
			}
			exists := "no"
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				exists = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, scope, dir, exists)
		}
	}
	return w.Flush()
}
