package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/render"
	"github.com/matzehuels/taxotree/pkg/render/collapsible"
)

// Tree styles
var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeBranchStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	treeLeafStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	markerCollapsed = "▸"
	markerExpanded  = "▾"
	markerLeaf      = "·"
)

type exploreKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Collapse  key.Binding
	Expand    key.Binding
	ExpandAll key.Binding
	Reset     key.Binding
	Quit      key.Binding
}

var exploreKeys = exploreKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("⏎", "toggle"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "collapse"),
	),
	Expand: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "expand"),
	),
	ExpandAll: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "expand all"),
	),
	Reset: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "reset"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k exploreKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Collapse, k.Expand, k.ExpandAll, k.Reset, k.Quit}
}

func (k exploreKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.Collapse, k.Expand},
		{k.ExpandAll, k.Reset, k.Quit},
	}
}

// exploreCommand creates the explore command, a terminal collapsible tree.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		collapse int
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "explore [rows-file]",
		Short: "Browse the taxonomy as a collapsible tree in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			rows, err := c.readRows(args[0], cfg)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				VizType:       render.TypeCollapsible,
				Chart:         cfg.CollapsibleConfig(),
				CollapseDepth: collapse,
				Strict:        strict,
				Logger:        c.Logger,
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			h, err := pipeline.Build(rows, opts)
			if err != nil {
				return handleEmpty(err)
			}
			chart, err := pipeline.NewChart(h.Tree, opts)
			if err != nil {
				return handleEmpty(err)
			}

			p := tea.NewProgram(newExploreModel(chart), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVar(&collapse, "collapse", pipeline.DefaultCollapseDepth, "collapse nodes at this depth and below")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when a label appears under more than one parent")

	return cmd
}

// =============================================================================
// exploreModel - Interactive collapsible tree
// =============================================================================

// exploreModel is the bubbletea model of the explorer. Rows are the visible
// chart nodes in depth-first order.
type exploreModel struct {
	chart  *collapsible.Chart
	nodes  []collapsible.LayoutNode
	cursor int
	offset int
	height int
	keys   exploreKeyMap
	help   help.Model
	err    error
}

func newExploreModel(chart *collapsible.Chart) exploreModel {
	m := exploreModel{chart: chart, height: 20, keys: exploreKeys, help: help.New()}
	m.refresh("")
	return m
}

// refresh re-lays out the chart and moves the cursor to nodeKey if it is
// visible.
func (m *exploreModel) refresh(nodeKey string) {
	m.nodes = m.chart.Layout().Nodes
	for i, n := range m.nodes {
		if n.Key == nodeKey {
			m.cursor = i
			break
		}
	}
	m.cursor = min(m.cursor, len(m.nodes)-1)
	m.scroll()
}

func (m *exploreModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m exploreModel) selected() collapsible.LayoutNode { return m.nodes[m.cursor] }

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				m.scroll()
			}
		case key.Matches(msg, m.keys.Toggle):
			n := m.selected()
			if n.HasChildren {
				m.err = m.chart.Toggle(n.Key)
				m.refresh(n.Key)
			}
		case key.Matches(msg, m.keys.Collapse):
			n := m.selected()
			if n.HasChildren && !n.Collapsed {
				m.err = m.chart.Collapse(n.Key)
				m.refresh(n.Key)
			} else if parent, ok := m.parentOf(n); ok {
				m.refresh(parent.Key)
			}
		case key.Matches(msg, m.keys.Expand):
			n := m.selected()
			if n.Collapsed {
				m.err = m.chart.Expand(n.Key)
				m.refresh(n.Key)
			}
		case key.Matches(msg, m.keys.ExpandAll):
			k := m.selected().Key
			m.chart.ExpandAll()
			m.refresh(k)
		case key.Matches(msg, m.keys.Reset):
			m.chart.CollapseBelow(pipeline.DefaultCollapseDepth)
			m.cursor = 0
			m.refresh("")
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
		m.help.Width = msg.Width
		m.scroll()
	}
	return m, nil
}

func (m exploreModel) parentOf(n collapsible.LayoutNode) (collapsible.LayoutNode, bool) {
	if n.ParentID == 0 {
		return collapsible.LayoutNode{}, false
	}
	for _, p := range m.nodes {
		if p.ID == n.ParentID {
			return p, true
		}
	}
	return collapsible.LayoutNode{}, false
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Taxonomy"))
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.nodes))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.line(i))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error())
		b.WriteString("\n")
	}
	if len(m.nodes) > m.height {
		b.WriteString(treeDimStyle.Render(fmt.Sprintf("\n%d-%d of %d", m.offset+1, end, len(m.nodes))))
	}
	return b.String()
}

func (m exploreModel) line(i int) string {
	n := m.nodes[i]

	cursor := "  "
	if i == m.cursor {
		cursor = "▸ "
	}

	marker, style := markerLeaf, treeLeafStyle
	switch {
	case n.Collapsed:
		marker, style = markerCollapsed, treeBranchStyle
	case n.HasChildren:
		marker = markerExpanded
	}
	if i == m.cursor {
		style = treeSelectedStyle
	}

	indent := strings.Repeat("  ", n.Depth)
	stats := treeDimStyle.Render(fmt.Sprintf("  %s · %d rows", n.Label, n.RowCount))
	return cursor + indent + marker + " " + style.Render(n.Name) + stats
}
