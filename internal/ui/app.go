package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumipallolabs/peektree/internal/config"
	"github.com/lumipallolabs/peektree/internal/loader"
	"github.com/lumipallolabs/peektree/internal/logging"
	"github.com/lumipallolabs/peektree/internal/model"
	"github.com/lumipallolabs/peektree/internal/preview"
	"github.com/lumipallolabs/peektree/internal/watcher"
)

// dirLoadedMsg is sent when an asynchronous directory read finishes.
type dirLoadedMsg struct {
	id      model.NodeID
	entries []model.Entry
	err     error
}

// previewMsg is sent when a preview build finishes. The result carries
// the path it was requested for; stale results are cached but never
// displayed.
type previewMsg struct {
	result preview.Result
}

// watchMsg is sent when the filesystem watcher reports a changed path.
type watchMsg struct {
	path string
}

// App is the main application model. All state mutation happens inside
// Update, on bubbletea's single update goroutine; directory reads and
// preview builds run in commands and deliver results as messages.
type App struct {
	cfg   config.Config
	keys  KeyMap
	help  help.Model
	pool  *loader.Pool
	tree  *model.Tree
	cache *preview.Cache
	watch *watcher.Watcher

	selected     int    // index into the visible sequence
	selectedPath string // path of the selected node, "" when none

	treePane    Pane
	previewPane Pane

	displayed      preview.Result // what the preview pane shows
	loadingPreview bool

	width  int
	height int
}

// NewApp creates the application for the given root directory.
func NewApp(cfg config.Config, root string) (App, error) {
	tree, err := model.New(root)
	if err != nil {
		return App{}, err
	}

	w, err := watcher.New()
	if err != nil {
		logging.Debug.Printf("watcher unavailable: %v", err)
		w = nil
	}

	return App{
		cfg:      cfg,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		pool:     loader.NewPool(cfg.Workers),
		tree:     tree,
		cache:    preview.NewCache(),
		watch:    w,
		selected: 0,
	}, nil
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("PEEKTREE")}

	// The root's listing is the first asynchronous load.
	rootID := a.tree.Root()
	if a.tree.BeginExpand(rootID) {
		cmds = append(cmds, a.loadDir(rootID))
	}
	if cmd := a.listenWatch(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// loadDir reads one directory level in the background.
func (a App) loadDir(id model.NodeID) tea.Cmd {
	path := a.tree.Node(id).Path
	pool := a.pool
	return func() tea.Msg {
		entries, err := pool.ListDir(context.Background(), path)
		return dirLoadedMsg{id: id, entries: entries, err: err}
	}
}

// buildPreview renders path in the background.
func (a App) buildPreview(path string) tea.Cmd {
	pool, cfg, width := a.pool, a.cfg, a.previewWidth()
	return func() tea.Msg {
		return previewMsg{result: preview.Build(context.Background(), pool, cfg, path, width)}
	}
}

// listenWatch waits for the next watcher event.
func (a App) listenWatch() tea.Cmd {
	if a.watch == nil {
		return nil
	}
	events := a.watch.Events()
	return func() tea.Msg {
		path, ok := <-events
		if !ok {
			return nil
		}
		return watchMsg{path: path}
	}
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		// Rendered line wrap depends on pane width; drop stale renders
		// and rebuild the current selection.
		a.cache.Clear()
		if a.selectedPath != "" {
			a.loadingPreview = true
			return a, a.buildPreview(a.selectedPath)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case dirLoadedMsg:
		// Inserted children shift the sequence, so the selected row is
		// re-anchored by node identity, not by its old index.
		visible := a.tree.Flatten()
		sel := model.InvalidID
		if a.selected < len(visible) {
			sel = visible[a.selected]
		}

		a.tree.ApplyChildren(msg.id, msg.entries, msg.err)
		if msg.err != nil {
			logging.Debug.Printf("load %s: %v", a.tree.Node(msg.id).Path, msg.err)
		}

		if sel != model.InvalidID {
			if idx := a.indexOf(sel); idx >= 0 {
				return a, a.setSelection(idx)
			}
		}
		// Initial load, or the node left the sequence; clamp and fire a
		// preview for whatever lands under the selection.
		return a, a.setSelection(a.selected)

	case previewMsg:
		// Cache every completed render; display only if its path is
		// still the selected one (cancellation-by-supersession).
		a.cache.Put(msg.result)
		if msg.result.Path == a.selectedPath {
			a.displayed = msg.result
			a.loadingPreview = false
			a.previewPane.Clamp(len(msg.result.Lines))
		}
		return a, nil

	case watchMsg:
		a.cache.Invalidate(msg.path)
		cmds := []tea.Cmd{a.listenWatch()}
		if msg.path == a.selectedPath {
			a.loadingPreview = true
			cmds = append(cmds, a.buildPreview(msg.path))
		}
		return a, tea.Batch(cmds...)
	}

	return a, nil
}

// handleKey maps key presses to tree, pane and clipboard operations. It
// never calls the preview pipeline directly; requests flow from
// setSelection only.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		if a.watch != nil {
			_ = a.watch.Close()
		}
		return a, tea.Quit

	case key.Matches(msg, a.keys.Up):
		return a, a.setSelection(a.selected - 1)

	case key.Matches(msg, a.keys.Down):
		return a, a.setSelection(a.selected + 1)

	case key.Matches(msg, a.keys.Top):
		return a, a.setSelection(0)

	case key.Matches(msg, a.keys.Bottom):
		return a, a.setSelection(len(a.tree.Flatten()) - 1)

	case key.Matches(msg, a.keys.Expand):
		return a, a.toggleSelected()

	case key.Matches(msg, a.keys.Collapse):
		return a, a.collapseOrParent()

	case key.Matches(msg, a.keys.ToggleHidden):
		return a, a.toggleHidden()

	case key.Matches(msg, a.keys.PreviewUp):
		a.previewPane.Scroll(-1, len(a.displayed.Lines))
		return a, nil

	case key.Matches(msg, a.keys.PreviewDown):
		a.previewPane.Scroll(1, len(a.displayed.Lines))
		return a, nil

	case key.Matches(msg, a.keys.PreviewHalfUp):
		a.previewPane.Scroll(-a.previewPane.HalfPage(), len(a.displayed.Lines))
		return a, nil

	case key.Matches(msg, a.keys.PreviewHalfDown):
		a.previewPane.Scroll(a.previewPane.HalfPage(), len(a.displayed.Lines))
		return a, nil

	case key.Matches(msg, a.keys.Yank):
		if a.selectedPath != "" {
			if err := clipboard.WriteAll(a.selectedPath); err != nil {
				logging.Debug.Printf("yank: %v", err)
			}
		}
		return a, nil
	}

	return a, nil
}

// handleMouse maps clicks and wheel events to pane operations. Clicks in
// the tree pane select (and toggle directories); the wheel scrolls the
// preview when the pointer is over it.
func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress || msg.X >= a.treeWidth() {
			return a, nil
		}
		// Rows start below the header and separator.
		row := msg.Y - 2
		if row < 0 || row >= a.treePane.Height {
			return a, nil
		}
		idx := a.treePane.Top + row
		visible := a.tree.Flatten()
		if idx >= len(visible) {
			return a, nil
		}
		cmd := a.setSelection(idx)
		if a.tree.Node(visible[idx]).Kind.IsDir() {
			toggle := a.toggleSelected()
			return a, tea.Batch(cmd, toggle)
		}
		return a, cmd

	case tea.MouseButtonWheelUp:
		if msg.X >= a.treeWidth() {
			a.previewPane.Scroll(-3, len(a.displayed.Lines))
		}
		return a, nil

	case tea.MouseButtonWheelDown:
		if msg.X >= a.treeWidth() {
			a.previewPane.Scroll(3, len(a.displayed.Lines))
		}
		return a, nil
	}

	return a, nil
}

// setSelection clamps idx into the visible sequence and, when the
// selected path actually changes, resets the preview scroll and issues a
// preview request. This is the only place preview requests originate.
func (a *App) setSelection(idx int) tea.Cmd {
	visible := a.tree.Flatten()
	if len(visible) == 0 {
		a.selected = 0
		a.selectedPath = ""
		a.displayed = preview.Result{}
		a.loadingPreview = false
		return nil
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(visible) {
		idx = len(visible) - 1
	}
	a.selected = idx
	a.treePane.EnsureVisible(idx, len(visible))

	path := a.tree.Node(visible[idx]).Path
	if path == a.selectedPath {
		return nil
	}
	a.selectedPath = path
	a.previewPane.Reset()
	return a.requestPreview(path)
}

// requestPreview serves a fresh cache hit synchronously and otherwise
// schedules an asynchronous build. It also re-points the watcher at the
// selection's directory.
func (a *App) requestPreview(path string) tea.Cmd {
	if a.watch != nil {
		dir := filepath.Dir(path)
		if err := a.watch.Watch(dir); err != nil {
			logging.Debug.Printf("watch %s: %v", dir, err)
		}
	}

	if r, ok := a.cache.Fresh(path); ok {
		a.displayed = r
		a.loadingPreview = false
		a.previewPane.Clamp(len(r.Lines))
		return nil
	}
	a.loadingPreview = true
	return a.buildPreview(path)
}

// toggleSelected expands or collapses the selected directory. Files are
// ignored, keeping the invariant that only directories expand.
func (a *App) toggleSelected() tea.Cmd {
	visible := a.tree.Flatten()
	if a.selected >= len(visible) {
		return nil
	}
	id := visible[a.selected]
	n := a.tree.Node(id)
	if !n.Kind.IsDir() {
		return nil
	}
	if n.Expanded {
		return a.collapseNode(id)
	}
	needsLoad := a.tree.BeginExpand(id)
	cmd := a.setSelection(a.selected)
	if needsLoad {
		return tea.Batch(cmd, a.loadDir(id))
	}
	return cmd
}

// collapseOrParent collapses an expanded directory or, on anything else,
// jumps to the nearest ancestor row.
func (a *App) collapseOrParent() tea.Cmd {
	visible := a.tree.Flatten()
	if a.selected >= len(visible) {
		return nil
	}
	id := visible[a.selected]
	n := a.tree.Node(id)
	if n.Kind.IsDir() && n.Expanded {
		return a.collapseNode(id)
	}
	return a.setSelection(a.tree.ParentIndex(visible, a.selected))
}

// collapseNode collapses id. A selection inside the collapsed subtree
// relocates to the collapsed node itself.
func (a *App) collapseNode(id model.NodeID) tea.Cmd {
	visible := a.tree.Flatten()
	target := id
	if a.selected < len(visible) {
		sel := visible[a.selected]
		if sel != id && !a.tree.IsAncestor(id, sel) {
			target = sel
		}
	}
	a.tree.Collapse(id)
	return a.setSelection(a.indexOf(target))
}

// toggleHidden flips the dotfile filter and keeps the selection on the
// same node when it is still visible, else on its nearest visible
// ancestor.
func (a *App) toggleHidden() tea.Cmd {
	visible := a.tree.Flatten()
	var sel model.NodeID = model.InvalidID
	if a.selected < len(visible) {
		sel = visible[a.selected]
	}

	a.tree.SetShowHidden(!a.tree.ShowHidden())

	for sel != model.InvalidID {
		if idx := a.indexOf(sel); idx >= 0 {
			return a.setSelection(idx)
		}
		sel = a.tree.Node(sel).Parent
	}
	return a.setSelection(0)
}

// indexOf finds a node's position in the visible sequence, -1 if the
// node is not visible.
func (a *App) indexOf(id model.NodeID) int {
	for i, v := range a.tree.Flatten() {
		if v == id {
			return i
		}
	}
	return -1
}

func (a *App) updateLayout() {
	// Tree pane loses header, separator and status rows.
	a.treePane.Height = a.height - 3
	if a.treePane.Height < 1 {
		a.treePane.Height = 1
	}
	a.previewPane.Height = a.height
	if a.previewPane.Height < 1 {
		a.previewPane.Height = 1
	}
	a.treePane.Clamp(len(a.tree.Flatten()))
	a.previewPane.Clamp(len(a.displayed.Lines))
}

// treeWidth is the column where the preview pane begins.
func (a App) treeWidth() int {
	w := a.width * 35 / 100
	if w < 20 {
		w = 20
	}
	return w
}

func (a App) previewWidth() int {
	w := a.width - a.treeWidth() - 2
	if w < 10 {
		w = 10
	}
	return w
}

// displayRoot renders the root path with the home directory abbreviated.
func (a App) displayRoot() string {
	root := a.tree.Node(a.tree.Root()).Path
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return root
	}
	if root == home {
		return "~"
	}
	if rel, err := filepath.Rel(home, root); err == nil && !strings.HasPrefix(rel, "..") {
		return "~/" + rel
	}
	return root
}
