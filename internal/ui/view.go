package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/lumipallolabs/peektree/internal/model"
	"github.com/lumipallolabs/peektree/internal/preview"
)

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "loading..."
	}
	tree := a.viewTree()
	prev := a.viewPreview()
	return lipgloss.JoinHorizontal(lipgloss.Top, tree, prev)
}

// viewTree renders the header, separator, visible rows and status bar of
// the left pane.
func (a App) viewTree() string {
	width := a.treeWidth()
	visible := a.tree.Flatten()

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(runewidth.Truncate(a.displayRoot(), width, "…")))
	b.WriteString("\n")
	b.WriteString(SeparatorStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	end := a.treePane.Top + a.treePane.Height
	if end > len(visible) {
		end = len(visible)
	}
	rows := 0
	for i := a.treePane.Top; i < end; i++ {
		b.WriteString(a.renderRow(visible[i], i == a.selected, width))
		b.WriteString("\n")
		rows++
	}
	for ; rows < a.treePane.Height; rows++ {
		b.WriteString("\n")
	}

	count := StatusStyle.Render(fmt.Sprintf(" %d items │ ", len(visible)))
	h := a.help
	h.Width = width - lipgloss.Width(count)
	b.WriteString(count)
	b.WriteString(h.View(a.keys))

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

// renderRow draws one tree row with indentation, a fold marker and kind
// styling.
func (a App) renderRow(id model.NodeID, selected bool, width int) string {
	n := a.tree.Node(id)

	indent := strings.Repeat("  ", n.Depth-1)

	var marker string
	switch {
	case n.Kind == model.KindError:
		marker = "✗ "
	case !n.Kind.IsDir():
		marker = "  "
	case n.Expanded && n.State == model.ChildrenLoading:
		marker = "⟳ "
	case n.Expanded:
		marker = "▼ "
	default:
		marker = "▶ "
	}

	name := n.Name
	if n.Kind.IsDir() {
		name += "/"
	}
	if n.Kind.IsSymlink() {
		name += " →"
	}

	line := runewidth.Truncate(indent+marker+name, width, "…")

	if selected {
		pad := width - runewidth.StringWidth(line)
		if pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return SelectedStyle.Render(line)
	}
	switch {
	case n.Kind == model.KindError:
		return ErrorStyle.Render(line)
	case n.Kind.IsSymlink():
		return SymlinkStyle.Render(line)
	case n.Kind.IsDir():
		return DirStyle.Render(line)
	default:
		return FileStyle.Render(line)
	}
}

// viewPreview renders the right pane: the displayed result's window, a
// loading placeholder while a build is in flight, or guidance when there
// is no selection yet.
func (a App) viewPreview() string {
	width := a.previewWidth()

	var b strings.Builder
	switch {
	case a.loadingPreview:
		b.WriteString(LoadingStyle.Render("loading preview..."))
		b.WriteString("\n")
	case a.selectedPath == "":
		b.WriteString(LoadingStyle.Render("select an entry"))
		b.WriteString("\n")
	default:
		lines := a.displayed.Lines
		end := a.previewPane.Top + a.previewPane.Height
		if end > len(lines) {
			end = len(lines)
		}
		style := lipgloss.NewStyle().MaxWidth(width)
		for i := a.previewPane.Top; i < end; i++ {
			line := lines[i]
			if a.displayed.Kind == preview.KindError {
				line = ErrorStyle.Render(line)
			}
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
	}

	return PreviewBorder.Height(a.previewPane.Height).Render(
		strings.TrimRight(b.String(), "\n"))
}
