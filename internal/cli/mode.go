package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/retainhq/retain/internal/mode"
)

var modeCmd = &cobra.Command{
	Use:   "mode [message]",
	Short: "Show the current mode, or classify a message and switch",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		var m mode.Mode
		if len(args) == 1 {
			m = mode.Classify(args[0])
			if err := db.SetMode(string(m)); err != nil {
				return err
			}
		} else {
			current, err := db.Mode()
			if err != nil {
				return err
			}
			m = mode.Parse(current)
		}

		fmt.Printf("mode: %s\n", m)

		budget := mode.Budget(m)
		categories := make([]string, 0, len(budget))
		for c := range budget {
			categories = append(categories, string(c))
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Printf("  %-10s %.2f\n", c, budget[mode.Category(c)])
		}
		return nil
	},
}
