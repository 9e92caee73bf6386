package tui

import (
	"fmt"
	"strings"

	"bazaar-cli/internal/form"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formModal is the ephemeral TUI state of a create/edit modal. It is built
// when the modal opens and discarded when it closes; the embedded
// form.Controller owns validation and the submission guard.
type formModal struct {
	page pageID
	ctl  *form.Controller

	inputs []textinput.Model
	// focus indexes the fields first; len(inputs) is the submit control.
	focus int
}

func newFormModal(page pageID, ctl *form.Controller) *formModal {
	fields := ctl.Fields()
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Placeholder = f.Label
		in.SetValue(f.Value)
		in.CharLimit = 200
		in.Width = 40
		inputs[i] = in
	}
	m := &formModal{page: page, ctl: ctl, inputs: inputs}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m *formModal) submitFocused() bool { return m.focus == len(m.inputs) }

func (m *formModal) setFocus(i int) {
	if i < 0 {
		i = len(m.inputs)
	}
	if i > len(m.inputs) {
		i = 0
	}
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// handleKey consumes one key while the form modal is open. submit=true means
// the user triggered submission (the caller runs the submit command if the
// controller accepts it).
func (m *formModal) handleKey(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return false, nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return false, nil
	case "enter":
		if m.submitFocused() {
			return true, nil
		}
		// Enter inside a field advances focus, it never submits: submission
		// has exactly one entry point.
		m.setFocus(m.focus + 1)
		return false, nil
	}
	if m.focus < len(m.inputs) {
		var c tea.Cmd
		m.inputs[m.focus], c = m.inputs[m.focus].Update(msg)
		m.syncValues()
		return false, c
	}
	return false, nil
}

func (m *formModal) syncValues() {
	// Only push changed values: SetValue clears the field's error, and an
	// untouched field must keep its server-side message visible.
	for i, f := range m.ctl.Fields() {
		if v := m.inputs[i].Value(); v != f.Value {
			m.ctl.SetValue(f.Name, v)
		}
	}
}

func (m *formModal) view(width int) string {
	fields := m.ctl.Fields()
	errStyle := lipgloss.NewStyle().Foreground(colorToastError)

	var b strings.Builder
	for i, f := range fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		b.WriteString(styleMuted().Render(label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		if msg := m.ctl.FieldError(f.Name); msg != "" {
			b.WriteString("\n")
			b.WriteString(errStyle.Render(msg))
		}
		b.WriteString("\n\n")
	}

	if atts := m.ctl.Attachments(); len(atts) > 0 {
		b.WriteString(styleMuted().Render(fmt.Sprintf("%d attachment(s) staged", len(atts))))
		b.WriteString("\n\n")
	}

	submitLabel := "Save"
	if m.ctl.Mode == form.Create {
		submitLabel = "Create"
	}
	if m.ctl.InFlight() {
		submitLabel = "Saving…"
	}
	btn := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	if m.submitFocused() && !m.ctl.InFlight() {
		btn = btn.
			Foreground(colorAccentFg).
			Background(colorAccent).
			Bold(true)
	}
	b.WriteString(btn.Render(submitLabel))

	if msg := m.ctl.GenericError(); msg != "" {
		b.WriteString("\n\n")
		b.WriteString(errStyle.Render(msg))
	}

	b.WriteString("\n\n")
	b.WriteString(styleMuted().Render("tab: next field   enter: select   esc: close"))

	title := "Edit record"
	if m.ctl.Mode == form.Create {
		title = "New record"
	}
	return renderModalBox(width, title, b.String())
}

// formFieldsFor declares the editable fields per collection, pre-filled from
// the row when editing.
func formFieldsFor(p pageID, row rowRecord) []form.Field {
	switch p {
	case pageCategories:
		return []form.Field{
			{Name: "name", Label: "Name", Value: row.Name, Required: true, MaxLen: 120},
			{Name: "slug", Label: "Slug", Value: row.Slug, Slug: true, MaxLen: 120},
			{Name: "description", Label: "Description", Value: row.Description, MaxLen: 500},
		}
	case pageProducts:
		return []form.Field{
			{Name: "name", Label: "Name", Value: row.Name, Required: true, MaxLen: 200},
			{Name: "sku", Label: "SKU", Value: row.SKU, Required: true, MaxLen: 64},
			{Name: "price", Label: "Price", Value: row.Price, MaxLen: 32},
			{Name: "description", Label: "Description", Value: row.Description, MaxLen: 2000},
		}
	case pageInquiries:
		return []form.Field{
			{Name: "subject", Label: "Subject", Value: row.Subject, Required: true, MaxLen: 200},
			{Name: "email", Label: "Contact email", Value: row.Email, Email: true, MaxLen: 200},
			{Name: "message", Label: "Internal note", Value: "", MaxLen: 2000},
		}
	}
	return nil
}
