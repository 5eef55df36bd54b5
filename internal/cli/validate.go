package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCommand creates the validate command for structural checks.
func (c *CLI) validateCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "validate <comment-or-file>",
		Short: "Check a tree for structural problems",
		Long: `Decode the tree embedded in a fumen comment and run structural checks:
root resolution, parent/child consistency, duplicate IDs and page indices,
and cycle detection. Exits non-zero if any problem is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, err := readComment(args[0])
			if err != nil {
				return err
			}

			store := c.newCache(noCache)
			defer store.Close()

			tree, _, err := c.decodeTree(cmd.Context(), store, comment)
			if err != nil {
				return err
			}

			result := tree.Validate()
			if result.Valid {
				printSuccess("Tree is valid (%d pages)", tree.Len())
				return nil
			}

			for _, p := range result.Problems {
				printError("%s", p)
			}
			return fmt.Errorf("%d problem(s) found", len(result.Problems))
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the tree cache")
	return cmd
}
