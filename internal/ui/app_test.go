package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumipallolabs/peektree/internal/config"
	"github.com/lumipallolabs/peektree/internal/model"
	"github.com/lumipallolabs/peektree/internal/preview"
)

// newTestApp builds an app over an empty temp root and sizes its panes.
// Tests feed it synthetic load and preview messages instead of running
// the commands Update returns.
func newTestApp(t *testing.T) (App, string) {
	t.Helper()
	root := t.TempDir()
	app, err := NewApp(config.Default(), root)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.watch != nil {
		w := app.watch
		t.Cleanup(func() { w.Close() })
	}
	m, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m.(App), root
}

// loadRoot installs the given entries as the root's children the same
// way a finished directory read would.
func loadRoot(t *testing.T, app App, entries []model.Entry) App {
	t.Helper()
	if !app.tree.BeginExpand(app.tree.Root()) {
		t.Fatal("root expand should request a load")
	}
	m, _ := app.Update(dirLoadedMsg{id: app.tree.Root(), entries: entries})
	return m.(App)
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInitialLoadSelectsFirstRow(t *testing.T) {
	app, root := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{
		{Name: "a.txt", Kind: model.KindFile},
		{Name: "b.txt", Kind: model.KindFile},
	})

	if app.selected != 0 {
		t.Errorf("expected selection 0, got %d", app.selected)
	}
	if want := filepath.Join(root, "a.txt"); app.selectedPath != want {
		t.Errorf("expected selected path %s, got %s", want, app.selectedPath)
	}
	if !app.loadingPreview {
		t.Error("selecting a new path should start a preview build")
	}
}

func TestPreviewSupersession(t *testing.T) {
	app, root := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{
		{Name: "a.txt", Kind: model.KindFile},
		{Name: "b.txt", Kind: model.KindFile},
	})
	pathA := filepath.Join(root, "a.txt")
	pathB := filepath.Join(root, "b.txt")

	// Selection moved on before a's preview arrived.
	m, _ := app.Update(keyPress('j'))
	app = m.(App)
	if app.selectedPath != pathB {
		t.Fatalf("expected selection on b, got %s", app.selectedPath)
	}

	stale := preview.Result{Path: pathA, Kind: preview.KindText, Lines: []string{"old"}}
	m, _ = app.Update(previewMsg{result: stale})
	app = m.(App)

	if app.displayed.Path == pathA {
		t.Error("stale preview must not be displayed")
	}
	if !app.loadingPreview {
		t.Error("stale preview must not clear the loading state")
	}
	// Stale results are still cached for a later revisit.
	if _, ok := app.cache.Get(pathA); !ok {
		t.Error("stale preview should be cached")
	}

	fresh := preview.Result{Path: pathB, Kind: preview.KindText, Lines: []string{"new"}}
	m, _ = app.Update(previewMsg{result: fresh})
	app = m.(App)

	if app.displayed.Path != pathB {
		t.Errorf("expected displayed path %s, got %s", pathB, app.displayed.Path)
	}
	if app.loadingPreview {
		t.Error("matching preview should clear the loading state")
	}
}

func TestExpandKey(t *testing.T) {
	app, _ := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{
		{Name: "sub", Kind: model.KindDir},
		{Name: "file.txt", Kind: model.KindFile},
	})

	m, cmd := app.Update(keyPress('l'))
	app = m.(App)
	if cmd == nil {
		t.Fatal("expanding an unloaded directory should issue a load command")
	}

	sub := app.tree.Flatten()[0]
	n := app.tree.Node(sub)
	if !n.Expanded || n.State != model.ChildrenLoading {
		t.Fatal("directory should be optimistically expanded and loading")
	}

	m, _ = app.Update(dirLoadedMsg{id: sub, entries: []model.Entry{
		{Name: "inner.txt", Kind: model.KindFile},
	}})
	app = m.(App)
	if got := len(app.tree.Flatten()); got != 3 {
		t.Errorf("expected 3 visible rows after load, got %d", got)
	}
}

func TestExpandKeyIgnoresFiles(t *testing.T) {
	app, _ := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{{Name: "file.txt", Kind: model.KindFile}})

	m, _ := app.Update(keyPress('l'))
	app = m.(App)
	if app.tree.Node(app.tree.Flatten()[0]).Expanded {
		t.Error("files must not expand")
	}
}

func TestCollapseRelocatesSelection(t *testing.T) {
	app, root := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{{Name: "sub", Kind: model.KindDir}})
	sub := app.tree.Flatten()[0]

	app.tree.BeginExpand(sub)
	m, _ := app.Update(dirLoadedMsg{id: sub, entries: []model.Entry{
		{Name: "inner.txt", Kind: model.KindFile},
	}})
	app = m.(App)

	// Move onto the child, then collapse its parent.
	m, _ = app.Update(keyPress('j'))
	app = m.(App)
	if want := filepath.Join(root, "sub", "inner.txt"); app.selectedPath != want {
		t.Fatalf("expected selection on inner.txt, got %s", app.selectedPath)
	}

	app.collapseNode(sub)
	if want := filepath.Join(root, "sub"); app.selectedPath != want {
		t.Errorf("selection should relocate to the collapsed directory, got %s", app.selectedPath)
	}
}

func TestCollapseKeyJumpsToParent(t *testing.T) {
	app, root := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{{Name: "sub", Kind: model.KindDir}})
	sub := app.tree.Flatten()[0]

	app.tree.BeginExpand(sub)
	m, _ := app.Update(dirLoadedMsg{id: sub, entries: []model.Entry{
		{Name: "inner.txt", Kind: model.KindFile},
	}})
	app = m.(App)
	m, _ = app.Update(keyPress('j'))
	app = m.(App)

	// A file row jumps to its parent instead of collapsing.
	m, _ = app.Update(keyPress('h'))
	app = m.(App)
	if want := filepath.Join(root, "sub"); app.selectedPath != want {
		t.Fatalf("expected selection on sub, got %s", app.selectedPath)
	}
	if !app.tree.Node(sub).Expanded {
		t.Fatal("jumping to parent must not collapse it")
	}

	// A second press collapses the directory itself.
	m, _ = app.Update(keyPress('h'))
	app = m.(App)
	if app.tree.Node(sub).Expanded {
		t.Error("expected sub collapsed")
	}
	if got := len(app.tree.Flatten()); got != 1 {
		t.Errorf("expected 1 visible row, got %d", got)
	}
}

func TestAsyncLoadKeepsSelection(t *testing.T) {
	app, root := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{
		{Name: "sub", Kind: model.KindDir},
		{Name: "zz.txt", Kind: model.KindFile},
	})
	sub := app.tree.Flatten()[0]

	// Expand sub, then move below it before the load arrives.
	m, _ := app.Update(keyPress('l'))
	app = m.(App)
	m, _ = app.Update(keyPress('j'))
	app = m.(App)
	want := filepath.Join(root, "zz.txt")
	if app.selectedPath != want {
		t.Fatalf("expected selection on zz.txt, got %s", app.selectedPath)
	}

	m, _ = app.Update(dirLoadedMsg{id: sub, entries: []model.Entry{
		{Name: "a.txt", Kind: model.KindFile},
		{Name: "b.txt", Kind: model.KindFile},
		{Name: "c.txt", Kind: model.KindFile},
	}})
	app = m.(App)

	// The inserted rows shift the index but must not move the selection.
	if app.selectedPath != want {
		t.Errorf("selection moved on async load: want %s, got %s", want, app.selectedPath)
	}
	if got := app.selected; got != 4 {
		t.Errorf("expected selection index 4 after insertion, got %d", got)
	}
}

func TestHiddenToggleKeepsSelection(t *testing.T) {
	app, root := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{
		{Name: ".hidden", Kind: model.KindFile},
		{Name: "visible.txt", Kind: model.KindFile},
	})
	want := filepath.Join(root, "visible.txt")
	if app.selectedPath != want {
		t.Fatalf("expected selection on visible.txt, got %s", app.selectedPath)
	}

	m, _ := app.Update(keyPress('.'))
	app = m.(App)
	if got := len(app.tree.Flatten()); got != 2 {
		t.Errorf("expected 2 rows with hidden on, got %d", got)
	}
	if app.selectedPath != want {
		t.Errorf("selection should survive the toggle, got %s", app.selectedPath)
	}

	m, _ = app.Update(keyPress('.'))
	app = m.(App)
	if got := len(app.tree.Flatten()); got != 1 {
		t.Errorf("expected 1 row with hidden off, got %d", got)
	}
	if app.selectedPath != want {
		t.Errorf("selection should survive the second toggle, got %s", app.selectedPath)
	}
}

func TestWatchEventInvalidatesSelection(t *testing.T) {
	app, _ := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{{Name: "a.txt", Kind: model.KindFile}})
	path := app.selectedPath

	app.cache.Put(preview.Result{Path: path, Kind: preview.KindText, Lines: []string{"x"}})
	app.loadingPreview = false

	m, _ := app.Update(watchMsg{path: path})
	app = m.(App)

	if _, ok := app.cache.Get(path); ok {
		t.Error("watch event should invalidate the cached preview")
	}
	if !app.loadingPreview {
		t.Error("changed selection should trigger a rebuild")
	}
}

func TestResizeClearsRenderedPreviews(t *testing.T) {
	app, _ := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{{Name: "a.txt", Kind: model.KindFile}})

	app.cache.Put(preview.Result{Path: "/x", Kind: preview.KindText, Lines: []string{"x"}})
	m, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = m.(App)

	if app.cache.Len() != 0 {
		t.Error("resize should clear width-dependent renders")
	}
	if !app.loadingPreview {
		t.Error("resize should rebuild the selected preview")
	}
}

func TestStatusBarShowsKeyHints(t *testing.T) {
	app, _ := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{{Name: "a.txt", Kind: model.KindFile}})

	// Wide enough that the short help is not width-truncated.
	m, _ := app.Update(tea.WindowSizeMsg{Width: 300, Height: 30})
	app = m.(App)

	view := app.View()
	if !strings.Contains(view, "1 items") {
		t.Error("status bar should show the item count")
	}
	// Hints come from the key map, not a hard-coded string.
	for _, hint := range []string{"expand", "collapse", "hidden", "yank", "quit"} {
		if !strings.Contains(view, hint) {
			t.Errorf("status bar missing %q hint", hint)
		}
	}
}

func TestBottomAndTopKeys(t *testing.T) {
	app, root := newTestApp(t)
	app = loadRoot(t, app, []model.Entry{
		{Name: "a.txt", Kind: model.KindFile},
		{Name: "b.txt", Kind: model.KindFile},
		{Name: "c.txt", Kind: model.KindFile},
	})

	m, _ := app.Update(keyPress('G'))
	app = m.(App)
	if want := filepath.Join(root, "c.txt"); app.selectedPath != want {
		t.Errorf("expected selection on c.txt, got %s", app.selectedPath)
	}

	m, _ = app.Update(keyPress('g'))
	app = m.(App)
	if want := filepath.Join(root, "a.txt"); app.selectedPath != want {
		t.Errorf("expected selection on a.txt, got %s", app.selectedPath)
	}
}
