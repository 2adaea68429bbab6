package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	errLogContext string
	errListLimit  int
	errListAll    bool
	errResolution string
)

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Log, resolve, and list error records",
}

var errorsLogCmd = &cobra.Command{
	Use:   "log <action> <error>",
	Short: "Append an error record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.LogError(args[0], args[1], errLogContext)
		if err != nil {
			return err
		}
		fmt.Printf("logged error %d\n", id)
		return nil
	},
}

var errorsResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Mark an error resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid error id %q", args[0])
		}

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		resolved, err := db.ResolveError(id, errResolution)
		if err != nil {
			return err
		}
		if !resolved {
			fmt.Printf("error %d not found\n", id)
			return nil
		}
		fmt.Printf("error %d resolved\n", id)
		return nil
	},
}

var errorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent errors, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.RecentErrors(errListLimit, !errListAll)
		if err != nil {
			return err
		}
		for _, r := range records {
			state := "open"
			if r.Resolved {
				state = "resolved"
			}
			ts := time.Unix(int64(r.CreatedAt), 0).Format("2006-01-02 15:04")
			fmt.Printf("#%d [%s] %s: %s (%s)\n", r.ID, state, r.Action, r.Error, ts)
		}
		return nil
	},
}

func init() {
	errorsLogCmd.Flags().StringVarP(&errLogContext, "context", "c", "", "additional context")
	errorsResolveCmd.Flags().StringVarP(&errResolution, "resolution", "r", "", "how the error was fixed")
	errorsListCmd.Flags().IntVarP(&errListLimit, "limit", "n", 5, "maximum results")
	errorsListCmd.Flags().BoolVarP(&errListAll, "all", "a", false, "include resolved errors")

	errorsCmd.AddCommand(errorsLogCmd)
	errorsCmd.AddCommand(errorsResolveCmd)
	errorsCmd.AddCommand(errorsListCmd)
}
