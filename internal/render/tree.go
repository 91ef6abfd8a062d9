// Package render draws the final task tree and run summaries for
// terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/frasnym/hackathon-universa-bali/internal/graph"
)

// TreeRenderer renders a task graph as an indented tree.
type TreeRenderer struct {
	headerStyle   lipgloss.Style
	solvedStyle   lipgloss.Style
	unsolvedStyle lipgloss.Style
	branchStyle   lipgloss.Style
	solutionStyle lipgloss.Style

	showSolutions bool
}

// NewTreeRenderer creates a renderer with default styles.
func NewTreeRenderer() *TreeRenderer {
	return &TreeRenderer{
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("7")),

		solvedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")), // Green

		unsolvedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")), // Orange

		branchStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		solutionStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
	}
}

// ShowSolutions makes Render include the solution text under each
// solved task.
func (r *TreeRenderer) ShowSolutions(show bool) {
	r.showSolutions = show
}

// Render draws the graph rooted at its first node. Untasked nodes are
// skipped.
func (r *TreeRenderer) Render(g *graph.Graph) string {
	root := g.Root()
	if root == nil {
		return r.branchStyle.Render("(empty graph)")
	}

	var b strings.Builder
	b.WriteString(r.headerStyle.Render(fmt.Sprintf("Task tree (%d nodes)", g.Len())))
	b.WriteString("\n")
	r.renderNode(&b, root, "", true, true)
	return b.String()
}

func (r *TreeRenderer) renderNode(b *strings.Builder, n *graph.Node, prefix string, isLast, isRoot bool) {
	if !n.Active() {
		return
	}

	connector := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	if isRoot {
		connector = ""
		childPrefix = ""
	}

	task := n.Task()
	marker := r.unsolvedStyle.Render("○")
	if task.Solved {
		marker = r.solvedStyle.Render("●")
	}

	b.WriteString(r.branchStyle.Render(prefix + connector))
	b.WriteString(marker)
	b.WriteString(" ")
	b.WriteString(task.Description)
	b.WriteString("\n")

	if r.showSolutions && task.Solved && task.Solution != "" {
		for _, line := range strings.Split(task.Solution, "\n") {
			b.WriteString(r.branchStyle.Render(childPrefix))
			b.WriteString(r.solutionStyle.Render("  " + line))
			b.WriteString("\n")
		}
	}

	children := n.Successors()
	for i, child := range children {
		r.renderNode(b, child, childPrefix, i == len(children)-1, false)
	}
}

// Summary returns a one-line count of solved versus total tasks.
func Summary(g *graph.Graph) string {
	total := 0
	solved := 0
	for _, n := range g.Nodes() {
		if !n.Active() {
			continue
		}
		total++
		if n.Solved() {
			solved++
		}
	}
	return fmt.Sprintf("%d/%d tasks solved", solved, total)
}
