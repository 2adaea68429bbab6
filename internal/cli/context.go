package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retainhq/retain/internal/server"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the compiled context for the current mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		srv := server.New(db, nil, VersionString())
		ctx, err := srv.BuildContext()
		if err != nil {
			return err
		}
		fmt.Println(ctx)
		return nil
	},
}
