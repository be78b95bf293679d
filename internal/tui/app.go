package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wintk/internal/config"
	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/layout"
)

type focus int

const (
	focusList focus = iota
	focusEdit
	focusSave
)

// presetItem implements list.Item for the preset sidebar.
type presetItem struct {
	name      string
	isDefault bool
	modified  bool
}

func (i presetItem) Title() string {
	prefix := "  "
	if i.isDefault {
		prefix = "* "
	}
	suffix := ""
	if i.modified {
		suffix = " +"
	}
	return prefix + i.name + suffix
}

func (i presetItem) Description() string { return "" }
func (i presetItem) FilterValue() string { return i.name }

// model is the root bubbletea model of the preset playground.
type model struct {
	path     string
	cfg      *config.Config
	original *config.Config
	reload   func() error

	list  list.Model
	input textinput.Model
	focus focus
	save  saveOverlay

	status string
	width  int
	height int
}

func newModel(path string, cfg *config.Config, reload func() error) model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Presets"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	in := textinput.New()
	in.Prompt = "bix> "
	in.Placeholder = "X[%,f%]"
	in.CharLimit = 256

	m := model{
		path:     path,
		cfg:      cfg,
		original: cloneConfig(cfg),
		reload:   reload,
		list:     l,
		input:    in,
	}
	m.rebuildItems()
	m.selectName(cfg.Window.Preset)
	return m
}

func (m *model) rebuildItems() {
	names := m.cfg.PresetNames()
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		items = append(items, presetItem{
			name:      name,
			isDefault: name == m.cfg.Window.Preset,
			modified:  m.presetModified(name),
		})
	}
	m.list.SetItems(items)
}

func (m model) presetModified(name string) bool {
	if m.original == nil {
		return false
	}
	before, ok := m.original.Presets[name]
	if !ok {
		return true
	}
	after := m.cfg.Presets[name]
	if before.Bix != after.Bix || len(before.Sizes) != len(after.Sizes) {
		return true
	}
	for i := range before.Sizes {
		if before.Sizes[i] != after.Sizes[i] {
			return true
		}
	}
	return false
}

func (m *model) selectName(name string) {
	for i, it := range m.list.Items() {
		if it.(presetItem).name == name {
			m.list.Select(i)
			return
		}
	}
}

func (m model) selectedName() string {
	item, ok := m.list.SelectedItem().(presetItem)
	if !ok {
		return ""
	}
	return item.name
}

func (m model) dirty() bool {
	return len(computeDiffLines(m.original, m.cfg)) > 0
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.list.SetSize(m.sidebarWidth(), max(m.contentHeight()-2, 1))
		m.input.Width = max(m.width-m.sidebarWidth()-12, 10)
		return m, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case focusSave:
		var cmd tea.Cmd
		m.save, cmd = m.save.update(msg, m.saveConfig, m.reload)
		if m.save.succeeded() {
			m.original = cloneConfig(m.cfg)
			m.rebuildItems()
		}
		if !m.save.active() {
			m.focus = focusList
		}
		return m, cmd
	case focusEdit:
		return m.updateEditing(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	switch km.String() {
	case "q", "esc":
		return m, tea.Quit
	case "ctrl+s":
		m.focus = focusSave
		cmd := m.save.show(m.original, m.cfg)
		return m, cmd
	case "e", "enter":
		if name := m.selectedName(); name != "" {
			m.input.SetValue(m.cfg.Presets[name].Bix)
			m.input.CursorEnd()
			m.focus = focusEdit
			return m, m.input.Focus()
		}
		return m, nil
	case "+", "=":
		m.resizeSelected(1)
		return m, nil
	case "-":
		m.resizeSelected(-1)
		return m, nil
	case "d":
		if name := m.selectedName(); name != "" {
			m.cfg.Window.Preset = name
			m.status = "window preset: " + name
			m.rebuildItems()
		}
		return m, nil
	case "r":
		m.reloadFromDisk()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			m.input.Blur()
			m.focus = focusList
			return m, nil
		case "enter":
			if err := m.applyBix(m.selectedName(), m.input.Value()); err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.input.Blur()
			m.focus = focusList
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyBix replaces the grammar of the named preset. Sizes follow the new
// placeholder count.
func (m *model) applyBix(name, src string) error {
	p, ok := m.cfg.Presets[name]
	if !ok {
		return fmt.Errorf("preset %q not found", name)
	}
	sizes := fitSizes(toSizes(p.Sizes), layout.Placeholders(src))
	if _, _, err := (layout.Preset{Grammar: src, Sizes: sizes}).Build(m.cfg.ParseOptions()); err != nil {
		return err
	}
	p.Bix = src
	p.Sizes = fromSizes(sizes)
	m.cfg.Presets[name] = p
	m.status = "updated " + name
	m.rebuildItems()
	return nil
}

// resizeSelected adds or removes a trailing placeholder of the selected
// preset's root Bix.
func (m *model) resizeSelected(delta int) {
	name := m.selectedName()
	p, ok := m.cfg.Presets[name]
	if !ok {
		return
	}
	src, ok := resizeBix(p.Bix, delta)
	if !ok {
		m.status = "cannot change the cell count of " + name
		return
	}
	if err := m.applyBix(name, src); err != nil {
		m.status = err.Error()
	}
}

// resizeBix appends or drops the last root-level placeholder. It returns
// false when the root does not end in a plain placeholder or would become
// empty.
func resizeBix(src string, delta int) (string, bool) {
	body, ok := strings.CutSuffix(strings.TrimSpace(src), "]")
	if !ok {
		return "", false
	}
	switch {
	case delta > 0:
		return body + ",%]", true
	case delta < 0:
		i := strings.LastIndexByte(body, ',')
		if i < 0 {
			return "", false
		}
		last := strings.TrimSpace(body[i+1:])
		if strings.ContainsAny(last, "[]") || !strings.HasSuffix(last, "%") {
			return "", false
		}
		return body[:i] + "]", true
	}
	return src, true
}

func (m *model) reloadFromDisk() {
	res, err := config.LoadFromPath(m.path)
	if err != nil {
		m.status = err.Error()
		return
	}
	prev := m.selectedName()
	m.cfg = res.Config
	m.original = cloneConfig(res.Config)
	m.rebuildItems()
	m.selectName(prev)
	m.status = "reloaded from disk"
}

func (m model) saveConfig() error {
	if m.cfg == nil {
		return errors.New("no configuration loaded")
	}
	return m.cfg.Save(m.path)
}

func (m model) sidebarWidth() int {
	return min(max(m.width*30/100, 18), 36)
}

// contentHeight is the height left between the title, status and help bars.
func (m model) contentHeight() int {
	return max(m.height-3, 1)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	title := titleStyle.Render("wintk presets")
	status := renderStatusBar(m.path, m.dirty(), m.status, m.width)
	help := renderHelpBar(m.focus, m.width)

	var content string
	if m.save.active() {
		content = m.save.view(m.width, m.contentHeight())
	} else {
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			paneStyle.Width(m.sidebarWidth()).Height(m.contentHeight()-2).Render(m.list.View()),
			m.viewPreset(m.width-m.sidebarWidth()-2, m.contentHeight()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, status, content, help)
}

// viewPreset renders the grammar, a summary and a sketch of the selected
// preset, or of the grammar being edited.
func (m model) viewPreset(width, height int) string {
	name := m.selectedName()
	p, ok := m.cfg.Presets[name]
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, labelStyle.Render("no presets"))
	}

	src := p.Bix
	var head string
	if m.focus == focusEdit {
		src = m.input.Value()
		head = m.input.View()
	} else {
		head = labelStyle.Render("bix  ") + p.Bix
	}

	lp := layout.Preset{Grammar: src, Sizes: fitSizes(toSizes(p.Sizes), layout.Placeholders(src))}
	canvasW, canvasH := max(width-4, 1), max(height-6, 1)
	// Terminal cells are about twice as tall as wide.
	a, err := arrange(lp, m.cfg.ParseOptions(), geom.R(0, 0, canvasW*8, canvasH*16))
	if err != nil {
		var perr *layout.ParseError
		body := errorStyle.Render(err.Error())
		if errors.As(err, &perr) {
			body = src + "\n" + strings.Repeat(" ", perr.Index) + "^\n" + body
		}
		return lipgloss.JoinVertical(lipgloss.Left, head, "", body)
	}

	sketch := cellStyle.Render(strings.Join(Sketch(a.rects, a.final, canvasW, canvasH), "\n"))
	return lipgloss.JoinVertical(lipgloss.Left,
		head,
		labelStyle.Render(summarize(a)),
		"",
		sketch,
	)
}

func toSizes(in []config.SizeConfig) []geom.Size {
	out := make([]geom.Size, len(in))
	for i, s := range in {
		out[i] = geom.Size{Width: s.Width, Height: s.Height}
	}
	return out
}

func fromSizes(in []geom.Size) []config.SizeConfig {
	out := make([]config.SizeConfig, len(in))
	for i, s := range in {
		out[i] = config.SizeConfig{Width: s.Width, Height: s.Height}
	}
	return out
}
