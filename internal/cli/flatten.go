package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// flattenCommand creates the flatten command for linearizing a tree.
func (c *CLI) flattenCommand() *cobra.Command {
	var (
		noCache   bool
		separator string
	)

	cmd := &cobra.Command{
		Use:   "flatten <comment-or-file>",
		Short: "Print the depth-first page order of a tree",
		Long: `Decode the tree embedded in a fumen comment and print its page indices
in depth-first order, main route first. This is the order the pages would
play back in.`,
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

			indices := tree.Flatten()
			parts := make([]string, len(indices))
			for i, idx := range indices {
				parts[i] = fmt.Sprintf("%d", idx)
			}
			fmt.Println(strings.Join(parts, separator))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the tree cache")
	cmd.Flags().StringVarP(&separator, "separator", "s", " ", "separator between page indices")
	return cmd
}
