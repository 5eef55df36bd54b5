package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fumen-tools/fumetree/pkg/pagetree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the view command for interactive tree browsing.
func (c *CLI) viewCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "view <comment-or-file>",
		Short: "Browse a tree interactively",
		Long: `Decode the tree embedded in a fumen comment and browse it in an
interactive outline. Branches can be collapsed and expanded; the path from
the root to the selected page is shown at the bottom.`,
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
			if tree.Empty() {
				printInfo("Tree is empty")
				return nil
			}

			model := NewTreeViewModel(tree)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the tree cache")
	return cmd
}

// =============================================================================
// TreeViewModel - Interactive tree outline
// =============================================================================

// viewRow is one visible line of the outline.
type viewRow struct {
	node  pagetree.Node
	depth int
}

// TreeViewModel is the bubbletea model for browsing a tree.
type TreeViewModel struct {
	Tree      pagetree.Tree
	Cursor    int
	Height    int
	Offset    int
	collapsed map[string]bool
	rows      []viewRow
}

// NewTreeViewModel creates a new tree view model with all branches expanded.
func NewTreeViewModel(t pagetree.Tree) TreeViewModel {
	m := TreeViewModel{
		Tree:      t,
		Height:    15,
		collapsed: map[string]bool{},
	}
	m.rebuild()
	return m
}

// rebuild recomputes the visible rows from the tree and collapse state.
func (m *TreeViewModel) rebuild() {
	m.rows = m.rows[:0]
	root, ok := m.Tree.Find(m.Tree.RootID)
	if !ok {
		return
	}
	m.appendRows(root, 0, map[string]bool{})
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *TreeViewModel) appendRows(n pagetree.Node, depth int, seen map[string]bool) {
	if seen[n.ID] {
		return
	}
	seen[n.ID] = true

	m.rows = append(m.rows, viewRow{node: n, depth: depth})
	if m.collapsed[n.ID] {
		return
	}
	for _, id := range n.Children {
		child, ok := m.Tree.Find(id)
		if !ok {
			continue
		}
		m.appendRows(child, depth+1, seen)
	}
}

func (m TreeViewModel) Init() tea.Cmd {
	return nil
}

func (m TreeViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if m.Cursor < len(m.rows) {
				id := m.rows[m.Cursor].node.ID
				if len(m.rows[m.Cursor].node.Children) > 0 {
					m.collapsed[id] = !m.collapsed[id]
					m.rebuild()
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Page Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fold/unfold  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.Offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "  "
		if len(row.node.Children) > 0 {
			if m.collapsed[row.node.ID] {
				marker = "+ "
			} else {
				marker = "- "
			}
		}

		label := fmt.Sprintf("page %d", row.node.PageIndex)
		if row.node.IsVirtual() {
			label = "start"
		}
		if len(row.node.Children) > 1 {
			label += listDimStyle.Render(fmt.Sprintf("  (%d branches)", len(row.node.Children)))
		}

		line := cursor + strings.Repeat("  ", row.depth) + marker + label
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(m.pathLine()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// pathLine formats the root-to-cursor path as "0 → 3 → 5".
func (m TreeViewModel) pathLine() string {
	if m.Cursor >= len(m.rows) {
		return ""
	}
	path := m.Tree.Path(m.rows[m.Cursor].node.ID)
	parts := make([]string, 0, len(path))
	for _, n := range path {
		if n.IsVirtual() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d", n.PageIndex))
	}
	return "  route: " + strings.Join(parts, " "+iconArrow+" ")
}
