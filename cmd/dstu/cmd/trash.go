package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Inspect and manage soft-deleted resources",
}

var trashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List soft-deleted resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, err := resources.ListDeleted(context.Background())
		if err != nil {
			return err
		}
		for _, n := range nodes {
			fmt.Printf("%-8s %-30s %s\n", n.Type, n.ID, n.Name)
		}
		return nil
	},
}

var trashRestoreCmd = &cobra.Command{
	Use:   "restore <id>...",
	Short: "Restore soft-deleted resources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if len(args) == 1 {
			return resources.Restore(ctx, args[0])
		}
		return resources.RestoreMany(ctx, args)
	},
}

var trashPurgeCmd = &cobra.Command{
	Use:   "purge <id>",
	Short: "Permanently delete a soft-deleted resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resources.Purge(context.Background(), args[0])
	},
}

var trashEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Permanently delete everything in the trash",
	RunE: func(cmd *cobra.Command, args []string) error {
		return resources.PurgeAll(context.Background())
	},
}

func init() {
	trashCmd.AddCommand(trashListCmd)
	trashCmd.AddCommand(trashRestoreCmd)
	trashCmd.AddCommand(trashPurgeCmd)
	trashCmd.AddCommand(trashEmptyCmd)
	rootCmd.AddCommand(trashCmd)
}
