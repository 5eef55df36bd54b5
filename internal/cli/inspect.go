package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fumen-tools/fumetree/pkg/pagetree"
	"github.com/fumen-tools/fumetree/pkg/pagetree/layout"
)

// inspectCommand creates the inspect command for summarizing a tree.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "inspect <comment-or-file>",
		Short: "Decode a tree from a comment and print its structure",
		Long: `Decode the tree embedded in a fumen comment and print a structural
summary: page count, branch points, depth, and an indented outline of the
routes.

The argument is a comment string, a path to a file containing one, or "-"
to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, err := readComment(args[0])
			if err != nil {
				return err
			}

			store := c.newCache(noCache)
			defer store.Close()

			tree, cached, err := c.decodeTree(cmd.Context(), store, comment)
			if err != nil {
				return err
			}

			lay := layout.Calculate(tree)

			printKeyValue("pages", fmt.Sprintf("%d", tree.Len()))
			printKeyValue("branches", fmt.Sprintf("%d", countBranches(tree)))
			printKeyValue("depth", fmt.Sprintf("%d", lay.MaxDepth))
			printKeyValue("lanes", fmt.Sprintf("%d", lay.MaxLane+1))
			printStats(tree.Len(), countBranches(tree), cached)
			fmt.Println()
			printOutline(tree)

			if result := tree.Validate(); !result.Valid {
				fmt.Println()
				for _, p := range result.Problems {
					printWarning("%s", p)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the tree cache")
	return cmd
}

// printOutline prints an indented outline of the tree, main route first.
func printOutline(t pagetree.Tree) {
	root, ok := t.Find(t.RootID)
	if !ok {
		return
	}
	printOutlineNode(t, root, 0, map[string]bool{})
}

func printOutlineNode(t pagetree.Tree, n pagetree.Node, depth int, seen map[string]bool) {
	if seen[n.ID] {
		return
	}
	seen[n.ID] = true

	label := fmt.Sprintf("page %d", n.PageIndex)
	if n.IsVirtual() {
		label = "start"
	}
	indent := strings.Repeat("  ", depth)
	if depth == 0 {
		fmt.Println(indent + StyleHighlight.Render(label))
	} else {
		fmt.Println(indent + StyleValue.Render(label))
	}

	for _, id := range n.Children {
		child, ok := t.Find(id)
		if !ok {
			continue
		}
		printOutlineNode(t, child, depth+1, seen)
	}
}
