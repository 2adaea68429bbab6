package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rememberTags       []string
	rememberImportance string
	recallLimit        int
)

var rememberCmd = &cobra.Command{
	Use:   "remember <content>",
	Short: "Store a memory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.Remember(args[0], rememberTags, rememberImportance)
		if err != nil {
			return err
		}
		fmt.Printf("remembered %s\n", id)
		return nil
	},
}

var recallCmd = &cobra.Command{
	Use:   "recall <query>",
	Short: "Search memories, newest-relevant first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		memories, err := db.Recall(args[0], recallLimit)
		if err != nil {
			return err
		}
		if len(memories) == 0 {
			fmt.Printf("no memories found for %q\n", args[0])
			return nil
		}

		for _, m := range memories {
			age := "today"
			if days := int(m.AgeDays); days > 0 {
				age = fmt.Sprintf("%dd ago", days)
			}
			line := fmt.Sprintf("- %s (%s)", m.Content, age)
			if len(m.Tags) > 0 {
				line += fmt.Sprintf(" %v", m.Tags)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <query>",
	Short: "Delete memories containing the query text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		count, err := db.Forget(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("forgot %d memories matching %q\n", count, args[0])
		return nil
	},
}

func init() {
	rememberCmd.Flags().StringSliceVarP(&rememberTags, "tag", "t", nil, "tags for the memory (repeatable)")
	rememberCmd.Flags().StringVarP(&rememberImportance, "importance", "i", "medium", "importance: low, medium, or high")
	recallCmd.Flags().IntVarP(&recallLimit, "limit", "n", 5, "maximum results")
}
