package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Store and retrieve named artifacts",
}

var artifactPutCmd = &cobra.Command{
	Use:   "put <name> [content]",
	Short: "Store an artifact (reads stdin when content is omitted)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		var content string
		if len(args) == 2 {
			content = args[1]
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			content = string(data)
		}

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.PutArtifact(name, content)
		if err != nil {
			return err
		}
		fmt.Printf("stored %s (%d bytes, id %s)\n", name, len(content), id)
		return nil
	},
}

var artifactGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print an artifact's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		artifact, err := db.GetArtifact(args[0])
		if err != nil {
			return err
		}
		if artifact == nil {
			fmt.Fprintf(os.Stderr, "artifact not found: %s\n", args[0])
			os.Exit(1)
		}
		fmt.Print(artifact.Content)
		return nil
	},
}

var artifactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List artifact names",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		names, err := db.ListArtifactNames()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	artifactCmd.AddCommand(artifactPutCmd)
	artifactCmd.AddCommand(artifactGetCmd)
	artifactCmd.AddCommand(artifactListCmd)
}
