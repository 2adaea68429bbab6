package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store counts and the current mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		s, err := db.Status()
		if err != nil {
			return err
		}

		fmt.Printf("memories:          %d\n", s.Memories)
		fmt.Printf("artifacts:         %d\n", s.Artifacts)
		fmt.Printf("unresolved errors: %d\n", s.UnresolvedErrors)
		fmt.Printf("mode:              %s\n", s.Mode)
		fmt.Printf("database:          %s\n", s.DBPath)
		return nil
	},
}
