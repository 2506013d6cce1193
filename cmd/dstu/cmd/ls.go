package cmd

import (
	"context"
	"fmt"
	"time"

	"dstu/internal/dstupath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a folder's children",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		path := dstupath.Root
		if len(args) == 1 {
			path = args[0]
		}

		folderID, err := resolveFolderID(ctx, path)
		if err != nil {
			return err
		}

		nodes, err := resources.ListChildren(ctx, folderID)
		if err != nil {
			return err
		}

		for _, n := range nodes {
			size := "-"
			if n.Size > 0 {
				size = humanize.Bytes(uint64(n.Size))
			}
			fmt.Printf("%-8s %-10s %-12s %s\n", n.Type, size, relativeTime(n.UpdatedAt), n.Name)
		}
		return nil
	},
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// resolveFolderID resolves a folder path to its backend identifier; the root
// resolves to nil.
func resolveFolderID(ctx context.Context, path string) (*string, error) {
	normalized := dstupath.Normalize(path)
	if normalized == dstupath.Root {
		return nil, nil
	}
	loc, err := locations.GetResourceByPath(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("resolve folder %q: %w", path, err)
	}
	return &loc.ID, nil
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
