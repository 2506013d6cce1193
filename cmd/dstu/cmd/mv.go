package cmd

import (
	"context"
	"fmt"

	models "dstu/internal/domain/models/dstu"

	"github.com/spf13/cobra"
)

var mvCmd = &cobra.Command{
	Use:   "mv <id>... <target-folder-path>",
	Short: "Move one or more resources into a folder",
	Long: `Move resources by identifier into a target folder path ("/" for root).

A single identifier is moved atomically; multiple identifiers go through a
batch move where every item is attempted independently and per-item failures
are reported without aborting the rest.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ids, target := args[:len(args)-1], args[len(args)-1]
		folderID, err := resolveFolderID(ctx, target)
		if err != nil {
			return err
		}

		if len(ids) == 1 {
			loc, err := locations.MoveToFolder(ctx, ids[0], folderID)
			if err != nil {
				return err
			}
			fmt.Printf("moved %s -> %s\n", loc.ID, loc.FullPath)
			return nil
		}

		result, err := locations.BatchMove(ctx, &models.BatchMoveRequest{
			ItemIDs:        ids,
			TargetFolderID: folderID,
		})
		if err != nil {
			return err
		}

		for _, loc := range result.Successes {
			fmt.Printf("moved  %s -> %s\n", loc.ID, loc.FullPath)
		}
		for _, failed := range result.FailedItems {
			fmt.Printf("failed %s: %s\n", failed.ItemID, failed.Error)
		}
		if len(result.FailedItems) > 0 {
			return fmt.Errorf("%d of %d items failed", len(result.FailedItems), result.TotalCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mvCmd)
}
