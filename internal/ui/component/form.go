package component

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// FieldType represents the type of form field
type FieldType int

const (
	FieldTypeText FieldType = iota
	FieldTypeNumber
	FieldTypeSelect
)

// FormField represents a single form field
type FormField struct {
	Name        string
	Label       string
	Type        FieldType
	Value       string
	Options     []string // For select fields
	Placeholder string
	Validation  func(string) error
	Error       string

	textInput   textinput.Model
	selectedIdx int
}

// Form is a vertical list of labelled inputs navigated with tab/shift+tab.
type Form struct {
	title      string
	fields     []FormField
	focusIndex int
	width      int

	titleStyle   lipgloss.Style
	labelStyle   lipgloss.Style
	inputStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewForm creates a new form component
func NewForm() *Form {
	palette := style.DefaultPalette()

	return &Form{
		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			MarginBottom(1),

		labelStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true).
			Width(18),

		inputStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(palette.TextMuted),

		focusedStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(palette.Primary),

		errorStyle: lipgloss.NewStyle().
			Foreground(palette.Error),
	}
}

// SetTitle sets the heading rendered above the fields.
func (f *Form) SetTitle(title string) *Form {
	f.title = title
	return f
}

// AddField adds a field to the form
func (f *Form) AddField(name string, fieldType FieldType, label, placeholder string) *Form {
	ti := textinput.New()
	ti.Width = 20
	ti.Placeholder = placeholder
	ti.Prompt = ""
	if fieldType == FieldTypeNumber && placeholder == "" {
		ti.Placeholder = "0"
	}

	f.fields = append(f.fields, FormField{
		Name:        name,
		Label:       label,
		Type:        fieldType,
		Placeholder: placeholder,
		textInput:   ti,
	})

	if len(f.fields) == 1 {
		f.focus(0)
	}
	return f
}

// SetFieldValue sets the value of a field. For selects the value must be one
// of the options.
func (f *Form) SetFieldValue(name, value string) *Form {
	if field := f.field(name); field != nil {
		field.Value = value
		field.textInput.SetValue(value)
		for i, opt := range field.Options {
			if opt == value {
				field.selectedIdx = i
			}
		}
	}
	return f
}

// SetFieldOptions sets options for select fields
func (f *Form) SetFieldOptions(name string, options []string) *Form {
	if field := f.field(name); field != nil && field.Type == FieldTypeSelect {
		field.Options = options
		field.selectedIdx = 0
		if len(options) > 0 {
			field.Value = options[0]
		}
	}
	return f
}

// SetFieldValidation sets a validation function for a field
func (f *Form) SetFieldValidation(name string, validation func(string) error) *Form {
	if field := f.field(name); field != nil {
		field.Validation = validation
	}
	return f
}

// SetWidth sets the form width
func (f *Form) SetWidth(width int) *Form {
	f.width = width
	inputWidth := width - 24
	if inputWidth > 10 {
		for i := range f.fields {
			f.fields[i].textInput.Width = inputWidth
		}
	}
	return f
}

func (f *Form) field(name string) *FormField {
	for i := range f.fields {
		if f.fields[i].Name == name {
			return &f.fields[i]
		}
	}
	return nil
}

// Update handles form input and updates
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}

	current := &f.fields[f.focusIndex]
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "tab", "down":
			f.focus((f.focusIndex + 1) % len(f.fields))
			return f, nil
		case "shift+tab", "up":
			f.focus((f.focusIndex - 1 + len(f.fields)) % len(f.fields))
			return f, nil
		case "left":
			if current.Type == FieldTypeSelect {
				f.stepSelect(current, -1)
				return f, nil
			}
		case "right", " ", "space":
			if current.Type == FieldTypeSelect {
				f.stepSelect(current, 1)
				return f, nil
			}
		}
	}

	if current.Type == FieldTypeSelect {
		return f, nil
	}

	var cmd tea.Cmd
	current.textInput, cmd = current.textInput.Update(msg)
	current.Value = current.textInput.Value()
	current.Error = ""
	return f, cmd
}

func (f *Form) stepSelect(field *FormField, delta int) {
	if len(field.Options) == 0 {
		return
	}
	field.selectedIdx = (field.selectedIdx + delta + len(field.Options)) % len(field.Options)
	field.Value = field.Options[field.selectedIdx]
}

func (f *Form) focus(i int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].textInput.Blur()
	f.focusIndex = i
	if f.fields[i].Type != FieldTypeSelect {
		f.fields[i].textInput.Focus()
	}
}

// View renders the form
func (f *Form) View() string {
	var content strings.Builder
	if f.title != "" {
		content.WriteString(f.titleStyle.Render(f.title))
		content.WriteString("\n")
	}

	for i, field := range f.fields {
		fieldStyle := f.inputStyle
		if i == f.focusIndex {
			fieldStyle = f.focusedStyle
		}

		var value string
		if field.Type == FieldTypeSelect {
			value = "‹ " + field.Value + " ›"
		} else {
			value = field.textInput.View()
		}

		content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			f.labelStyle.Render(field.Label), fieldStyle.Render(value)))
		if field.Error != "" {
			content.WriteString(" ")
			content.WriteString(f.errorStyle.Render("⚠ " + field.Error))
		}
		if i < len(f.fields)-1 {
			content.WriteString("\n")
		}
	}
	return content.String()
}

// Validate runs number parsing and custom validators on every field.
func (f *Form) Validate() bool {
	valid := true
	for i := range f.fields {
		field := &f.fields[i]
		field.Error = ""

		v := strings.TrimSpace(field.Value)
		if field.Type == FieldTypeNumber && v != "" {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				field.Error = "must be a number"
				valid = false
				continue
			}
		}
		if field.Validation != nil {
			if err := field.Validation(v); err != nil {
				field.Error = err.Error()
				valid = false
			}
		}
	}
	return valid
}

// GetValue returns the value of a specific field
func (f *Form) GetValue(name string) string {
	if field := f.field(name); field != nil {
		return strings.TrimSpace(field.Value)
	}
	return ""
}

// Float parses a number field; empty means 0.
func (f *Form) Float(name string) (float64, error) {
	v := f.GetValue(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

// Int parses an integer field; empty means 0.
func (f *Form) Int(name string) (int, error) {
	v, err := f.Float(name)
	return int(v), err
}

// Focused returns the name of the focused field.
func (f *Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focusIndex].Name
}
