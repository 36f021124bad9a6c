package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leads-cli/internal/rules"
)

var rulesValidate bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the property-type rule set",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("rules"); err != nil {
			return err
		}

		rs, err := rules.Load(cfg.Rules.Path, rules.DefaultSheetName)
		if err != nil {
			if rulesValidate {
				return eris.Wrap(err, "rules validate")
			}
			return err
		}

		if rulesValidate {
			if rs.Len() == 0 {
				return eris.Errorf("rule set at %s is empty", cfg.Rules.Path)
			}
			fmt.Printf("OK: %d categories, %d included\n", rs.Len(), len(rs.Included()))
			return nil
		}

		included := rs.Included()
		sort.Strings(included)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tINCLUDED")
		for _, c := range included {
			fmt.Fprintf(w, "%s\tY\n", c)
		}
		excluded := rs.Len() - len(included)
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d categories (%d included, %d excluded)\n", rs.Len(), len(included), excluded)
		return nil
	},
}

func init() {
	rulesCmd.Flags().BoolVar(&rulesValidate, "validate", false, "exit non-zero when the rule set is empty or unreadable")
	rootCmd.AddCommand(rulesCmd)
}
