package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"dstu/internal/dstupath"

	"github.com/spf13/cobra"
)

var resolveRemote bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <path-or-id>",
	Short: "Resolve a path or identifier to its current location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		arg := args[0]

		if strings.HasPrefix(arg, dstupath.Separator) {
			if resolveRemote {
				parsed, err := locations.ParsePath(ctx, arg)
				if err != nil {
					return err
				}
				return printJSON(parsed)
			}
			loc, err := locations.GetResourceByPath(ctx, arg)
			if err != nil {
				return err
			}
			return printJSON(loc)
		}

		loc, err := locations.GetResourceLocation(ctx, arg)
		if err != nil {
			return err
		}
		return printJSON(loc)
	},
}

var pathCmd = &cobra.Command{
	Use:   "path <id>",
	Short: "Look up a resource's full path (cache-first)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := locations.GetPathByID(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var refreshPathsCmd = &cobra.Command{
	Use:   "refresh-paths [id]",
	Short: "Recompute the backend's cached path strings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id *string
		if len(args) == 1 {
			id = &args[0]
		}
		count, err := locations.RefreshPathCache(context.Background(), id)
		if err != nil {
			return err
		}
		fmt.Printf("refreshed %d entries\n", count)
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveRemote, "parse", false, "return the backend's parsed form of the path instead of a location")
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(refreshPathsCmd)
}
