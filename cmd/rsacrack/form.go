package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/rsacrack/pkg/dispatch"
)

// Input control indexes.
const (
	fieldN = iota
	fieldTimeoutMS
	fieldMaxBits
	fieldN64
	fieldBudgetMS
	fieldRhoRestarts
	fieldSchedule
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldN:           "n",
	fieldTimeoutMS:   "timeout_ms",
	fieldMaxBits:     "max_bits",
	fieldN64:         "n64",
	fieldBudgetMS:    "budget_ms",
	fieldRhoRestarts: "rho_restarts",
	fieldSchedule:    "schedule",
}

var fieldPlaceholders = [fieldCount]string{
	fieldN:           "integer to factor or classify",
	fieldTimeoutMS:   "optional",
	fieldMaxBits:     "optional",
	fieldN64:         "integer for lotto",
	fieldBudgetMS:    "0",
	fieldRhoRestarts: "optional",
	fieldSchedule:    dispatch.DefaultSchedule,
}

// formModel holds the input controls. Their values are read fresh every
// time an action is triggered.
type formModel struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newForm(defaults dispatch.Form) formModel {
	var f formModel

	values := [fieldCount]string{
		fieldN:           defaults.N,
		fieldTimeoutMS:   defaults.TimeoutMS,
		fieldMaxBits:     defaults.MaxBits,
		fieldN64:         defaults.N64,
		fieldBudgetMS:    defaults.BudgetMS,
		fieldRhoRestarts: defaults.RhoRestarts,
		fieldSchedule:    defaults.Schedule,
	}

	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 4096
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}

	f.inputs[fieldN].Focus()
	return f
}

// values snapshots the controls into a form.
func (f formModel) values() dispatch.Form {
	return dispatch.Form{
		N:           f.inputs[fieldN].Value(),
		TimeoutMS:   f.inputs[fieldTimeoutMS].Value(),
		MaxBits:     f.inputs[fieldMaxBits].Value(),
		N64:         f.inputs[fieldN64].Value(),
		BudgetMS:    f.inputs[fieldBudgetMS].Value(),
		RhoRestarts: f.inputs[fieldRhoRestarts].Value(),
		Schedule:    f.inputs[fieldSchedule].Value(),
	}
}

// move shifts focus by delta, wrapping around.
func (f formModel) move(delta int) (formModel, tea.Cmd) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f, f.inputs[f.focus].Focus()
}

func (f formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f formModel) View() string {
	var sb strings.Builder

	for i, in := range f.inputs {
		label := labelStyle.Render(fieldLabels[i])
		if i == f.focus {
			label = focusedLabelStyle.Render(fieldLabels[i])
		}

		sb.WriteString(label)
		sb.WriteString(in.View())
		if i < fieldCount-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
