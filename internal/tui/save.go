package tui

import (
	"bytes"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/wintk/internal/config"
)

var errNoChanges = errors.New("no changes to save")

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // showing diff, awaiting confirm
	saveResult            // showing outcome message
)

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

// saveOverlay shows the pending configuration diff and asks for confirmation
// before writing the file.
type saveOverlay struct {
	phase     savePhase
	diffLines []diffLine
	form      *huh.Form
	confirmed *bool
	err       error
	reloaded  bool
}

func (s saveOverlay) active() bool {
	return s.phase != saveHidden
}

func (s saveOverlay) succeeded() bool {
	return s.phase == saveResult && s.err == nil
}

// show computes the diff and opens the confirmation form.
func (s *saveOverlay) show(original, current *config.Config) tea.Cmd {
	s.err = nil
	s.reloaded = false
	s.form = nil

	lines := computeDiffLines(original, current)
	if len(lines) == 0 {
		s.phase = saveResult
		s.err = errNoChanges
		return nil
	}
	s.diffLines = lines
	s.confirmed = new(bool)
	s.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Write these changes?").
			Affirmative("Save").
			Negative("Cancel").
			Value(s.confirmed),
	)).WithShowHelp(false)
	s.phase = savePreview
	return s.form.Init()
}

// update handles input while the overlay is active. save writes the file;
// reload, when non-nil, asks a running window to pick the change up.
func (s saveOverlay) update(msg tea.Msg, save, reload func() error) (saveOverlay, tea.Cmd) {
	switch s.phase {
	case savePreview:
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
			s.phase = saveHidden
			return s, nil
		}
		form, cmd := s.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			s.form = f
		}
		switch s.form.State {
		case huh.StateCompleted:
			if *s.confirmed {
				s.commit(save, reload)
			} else {
				s.phase = saveHidden
			}
			return s, nil
		case huh.StateAborted:
			s.phase = saveHidden
			return s, nil
		}
		return s, cmd
	case saveResult:
		if _, ok := msg.(tea.KeyMsg); ok {
			s.phase = saveHidden
		}
	}
	return s, nil
}

func (s *saveOverlay) commit(save, reload func() error) {
	s.err = save()
	if s.err == nil && reload != nil {
		s.reloaded = reload() == nil
	}
	s.phase = saveResult
}

func (s saveOverlay) view(areaW, areaH int) string {
	switch s.phase {
	case savePreview:
		return s.viewPreview(areaW, areaH)
	case saveResult:
		return s.viewResult(areaW, areaH)
	}
	return ""
}

func (s saveOverlay) viewPreview(areaW, areaH int) string {
	boxW := min(max(areaW-8, 30), 80)

	addStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rmStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ctxStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	// title, blank lines, form, border and padding
	diffH := max(areaH-12, 3)
	innerW := max(boxW-6, 10)

	var lines []string
	for _, dl := range s.diffLines[:min(diffH, len(s.diffLines))] {
		t := dl.text
		if len(t) > innerW-2 {
			t = t[:innerW-2]
		}
		switch dl.kind {
		case diffAdded:
			lines = append(lines, addStyle.Render("+ "+t))
		case diffRemoved:
			lines = append(lines, rmStyle.Render("- "+t))
		default:
			lines = append(lines, ctxStyle.Render("  "+t))
		}
	}
	if len(s.diffLines) > diffH {
		lines = append(lines, ctxStyle.Render("  ..."))
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Save config: pending changes")
	content := title + "\n\n" + strings.Join(lines, "\n") + "\n\n" + s.form.View()

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxW).
		Render(content)

	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

func (s saveOverlay) viewResult(areaW, areaH int) string {
	boxW := min(max(areaW-8, 30), 60)

	var msg string
	if s.err != nil {
		msg = errorStyle.Render("Error: " + s.err.Error())
	} else {
		msg = okStyle.Render("Config saved")
		if s.reloaded {
			msg += "\n" + okStyle.UnsetBold().Render("Running window reloaded")
		}
	}

	footer := helpStyle.UnsetPadding().Render("press any key to dismiss")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxW).
		Render(msg + "\n\n" + footer)

	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

// --- diff computation ---

func encodeYAML(cfg *config.Config) (string, bool) {
	var buf bytes.Buffer
	if err := config.Encode(&buf, cfg, config.FormatYAML); err != nil {
		return "", false
	}
	return strings.TrimSpace(buf.String()), true
}

func computeDiffLines(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}

	origStr, ok := encodeYAML(original)
	if !ok {
		return nil
	}
	currStr, ok := encodeYAML(current)
	if !ok || origStr == currStr {
		return nil
	}

	return diffOps(strings.Split(origStr, "\n"), strings.Split(currStr, "\n"), 2)
}

// diffOps expands grouped opcodes into lines, with "..." between groups.
func diffOps(a, b []string, context int) []diffLine {
	var out []diffLine
	for g, group := range difflib.NewMatcher(a, b).GetGroupedOpCodes(context) {
		if g > 0 {
			out = append(out, diffLine{kind: diffContext, text: "..."})
		}
		for _, op := range group {
			if op.Tag == 'e' {
				for _, l := range a[op.I1:op.I2] {
					out = append(out, diffLine{kind: diffContext, text: l})
				}
				continue
			}
			// 'r' is a delete followed by an insert.
			if op.Tag == 'r' || op.Tag == 'd' {
				for _, l := range a[op.I1:op.I2] {
					out = append(out, diffLine{kind: diffRemoved, text: l})
				}
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				for _, l := range b[op.J1:op.J2] {
					out = append(out, diffLine{kind: diffAdded, text: l})
				}
			}
		}
	}
	return out
}

// cloneConfig creates a deep copy of a Config via YAML round-trip.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var clone config.Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}
