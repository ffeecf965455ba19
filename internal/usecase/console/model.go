// Package console is the interactive candidate-update flow: find a
// candidate by email, pick an update, answer its prompts, confirm, and
// commit everything in one transaction. The model only accumulates
// answers; nothing touches the database until the confirm step.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"talenttrack/internal/domain/talent"
	"talenttrack/internal/ports"
	"talenttrack/internal/usecase/history"
)

type step int

const (
	stepSearch step = iota
	stepChoose
	stepFields
	stepConfirm
	stepDone
)

type updateKind int

const (
	updateRole updateKind = iota
	updateName
	updateEmail
	updateDeferral
)

func (k updateKind) label() string {
	switch k {
	case updateRole:
		return "new role"
	case updateName:
		return "name change"
	case updateEmail:
		return "email change"
	case updateDeferral:
		return "defer intake by one year"
	}
	return "unknown"
}

// candidateSummary is what the header shows once a candidate is loaded.
type candidateSummary struct {
	candidate   ports.Candidate
	role        *ports.Role
	grade       *talent.Grade
	scheme      *ports.Scheme
	application *ports.Application
	reachable   []talent.Grade
}

type candidateLoadedMsg struct {
	summary candidateSummary
	err     error
}

type committedMsg struct {
	result string
	err    error
}

type model struct {
	ctx     context.Context
	history *history.Service
	lookups ports.LookupRepository
	uow     ports.UnitOfWork

	step    step
	kind    updateKind
	summary candidateSummary
	loaded  bool
	status  string

	prompts []prompt
	answers []string
	field   int
	input   string
}

// prompt is one typed question in the fields step.
type prompt struct {
	label    string
	optional bool
}

func NewModel(ctx context.Context, hist *history.Service, lookups ports.LookupRepository, uow ports.UnitOfWork) tea.Model {
	return &model{
		ctx:     ctx,
		history: hist,
		lookups: lookups,
		uow:     uow,
		step:    stepSearch,
		status:  "enter the candidate's email address",
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case candidateLoadedMsg:
		if msg.err != nil {
			m.status = "search failed: " + msg.err.Error()
			return m, nil
		}
		m.summary = msg.summary
		m.loaded = true
		m.step = stepChoose
		m.status = "choose an update"
		return m, nil
	case committedMsg:
		m.step = stepDone
		if msg.err != nil {
			m.status = "commit failed, nothing saved: " + msg.err.Error()
		} else {
			m.status = msg.result
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.step == stepSearch {
			return m, tea.Quit
		}
		m.resetToChoose()
		return m, nil
	}

	switch m.step {
	case stepSearch:
		return m.handleTyping(msg, func(value string) (tea.Model, tea.Cmd) {
			if value == "" {
				m.status = "enter the candidate's email address"
				return m, nil
			}
			m.status = "searching..."
			return m, m.searchCmd(value)
		})
	case stepChoose:
		return m.handleChoice(msg)
	case stepFields:
		return m.handleTyping(msg, m.acceptAnswer)
	case stepConfirm:
		switch msg.String() {
		case "y":
			m.status = "saving..."
			return m, m.commitCmd()
		case "n":
			m.resetToChoose()
			return m, nil
		}
		return m, nil
	case stepDone:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "s":
			m.step = stepSearch
			m.loaded = false
			m.input = ""
			m.status = "enter the candidate's email address"
			return m, nil
		}
	}
	return m, nil
}

// handleTyping implements a plain line editor: runes append, backspace
// deletes, enter submits through done.
func (m *model) handleTyping(msg tea.KeyMsg, done func(value string) (tea.Model, tea.Cmd)) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input)
		m.input = ""
		return done(value)
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.input += " "
		return m, nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m *model) handleChoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.startFields(updateRole)
	case "2":
		m.startFields(updateName)
	case "3":
		m.startFields(updateEmail)
	case "4":
		m.kind = updateDeferral
		m.answers = nil
		m.step = stepConfirm
		m.status = "confirm"
	}
	return m, nil
}

func (m *model) startFields(kind updateKind) {
	m.kind = kind
	m.answers = nil
	m.field = 0
	m.input = ""
	m.prompts = m.promptsFor(kind)
	m.step = stepFields
	m.status = "answer each prompt, enter to continue"
}

func (m *model) promptsFor(kind updateKind) []prompt {
	switch kind {
	case updateName:
		return []prompt{
			{label: "first name"},
			{label: "last name"},
		}
	case updateEmail:
		return []prompt{
			{label: "new email address"},
			{label: "replace primary? (y/n)"},
		}
	case updateRole:
		return []prompt{
			{label: "role title"},
			{label: "start date (YYYY-MM-DD)"},
			{label: "grade (number from the list above)"},
			{label: fmt.Sprintf("change type (number, %s)", numberedValues(talent.ChangeTypeValues()))},
			{label: "organisation", optional: true},
			{label: "location", optional: true},
			{label: "profession", optional: true},
		}
	}
	return nil
}

func (m *model) acceptAnswer(value string) (tea.Model, tea.Cmd) {
	current := m.prompts[m.field]
	if value == "" && !current.optional {
		m.status = current.label + " is required"
		return m, nil
	}

	m.answers = append(m.answers, value)
	m.field++
	if m.field < len(m.prompts) {
		m.status = "answer each prompt, enter to continue"
		return m, nil
	}

	m.step = stepConfirm
	m.status = "confirm"
	return m, nil
}

func (m *model) resetToChoose() {
	if !m.loaded {
		return
	}
	m.step = stepChoose
	m.answers = nil
	m.input = ""
	m.status = "choose an update"
}

func (m *model) searchCmd(email string) tea.Cmd {
	return func() tea.Msg {
		candidate, err := m.history.FindByEmail(m.ctx, email)
		if err != nil {
			return candidateLoadedMsg{err: err}
		}

		summary := candidateSummary{candidate: candidate}
		if summary.role, err = m.history.CurrentRole(m.ctx, candidate.ID); err != nil {
			return candidateLoadedMsg{err: err}
		}
		if summary.grade, err = m.history.CurrentGrade(m.ctx, candidate.ID); err != nil {
			return candidateLoadedMsg{err: err}
		}
		if summary.scheme, err = m.history.CurrentScheme(m.ctx, candidate.ID); err != nil {
			return candidateLoadedMsg{err: err}
		}
		if summary.application, err = m.history.MostRecentApplication(m.ctx, candidate.ID); err != nil {
			return candidateLoadedMsg{err: err}
		}
		if summary.reachable, err = m.history.ReachableForCandidate(m.ctx, candidate.ID); err != nil {
			return candidateLoadedMsg{err: err}
		}
		return candidateLoadedMsg{summary: summary}
	}
}

// commitCmd applies the collected answers as one transaction: either the
// whole update lands or none of it does.
func (m *model) commitCmd() tea.Cmd {
	kind := m.kind
	answers := append([]string(nil), m.answers...)
	candidateID := m.summary.candidate.ID

	return func() tea.Msg {
		err := m.uow.WithTx(m.ctx, func(txCtx context.Context) error {
			switch kind {
			case updateName:
				return m.history.UpdateName(txCtx, candidateID, answers[0], answers[1])
			case updateEmail:
				primary := strings.EqualFold(answers[1], "y")
				return m.history.UpdateEmail(txCtx, candidateID, answers[0], primary)
			case updateDeferral:
				return m.history.DeferIntake(txCtx, candidateID)
			case updateRole:
				input, err := m.roleInput(txCtx, candidateID, answers)
				if err != nil {
					return err
				}
				_, err = m.history.NewRole(txCtx, input)
				return err
			}
			return errors.New("nothing to commit")
		})
		if err != nil {
			return committedMsg{err: err}
		}
		return committedMsg{result: kind.label() + " saved"}
	}
}

func (m *model) roleInput(ctx context.Context, candidateID uint64, answers []string) (history.NewRoleInput, error) {
	startDate, err := time.Parse("2006-01-02", answers[1])
	if err != nil {
		return history.NewRoleInput{}, fmt.Errorf("start date %q is not YYYY-MM-DD", answers[1])
	}

	grade, err := pickNumbered(m.summary.reachable, answers[2])
	if err != nil {
		return history.NewRoleInput{}, fmt.Errorf("grade: %w", err)
	}

	kindValue, err := pickNumbered(talent.ChangeTypeValues(), answers[3])
	if err != nil {
		return history.NewRoleInput{}, fmt.Errorf("change type: %w", err)
	}
	changeType, err := m.lookups.FindChangeTypeByValue(ctx, kindValue)
	if err != nil {
		return history.NewRoleInput{}, err
	}

	input := history.NewRoleInput{
		CandidateID:  candidateID,
		StartDate:    startDate,
		Title:        answers[0],
		GradeID:      &grade.ID,
		ChangeTypeID: changeType.ID,
	}

	if answers[4] != "" {
		org, err := m.lookups.FindOrganisationByName(ctx, answers[4])
		if err != nil {
			return history.NewRoleInput{}, err
		}
		input.OrganisationID = &org.ID
	}
	if answers[5] != "" {
		loc, err := m.lookups.FindLocationByValue(ctx, answers[5])
		if err != nil {
			return history.NewRoleInput{}, err
		}
		input.LocationID = &loc.ID
	}
	if answers[6] != "" {
		profession, err := m.lookups.FindProfessionByValue(ctx, answers[6])
		if err != nil {
			return history.NewRoleInput{}, err
		}
		input.ProfessionID = &profession.ID
	}
	return input, nil
}

func (m *model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Candidate Update Console"))
	b.WriteString("\n\n")

	if m.loaded {
		b.WriteString(sectionStyle.Render("Candidate"))
		b.WriteString("\n")
		c := m.summary.candidate
		b.WriteString(fmt.Sprintf("Name: %s %s\n", c.FirstName, c.LastName))
		b.WriteString(fmt.Sprintf("Email: %s\n", c.PrimaryEmail))
		if m.summary.role != nil {
			b.WriteString(fmt.Sprintf("Current role: %s (since %s)\n", m.summary.role.Title, m.summary.role.DateStarted.Format("2006-01-02")))
		} else {
			b.WriteString("Current role: none recorded\n")
		}
		if m.summary.grade != nil {
			b.WriteString(fmt.Sprintf("Current grade: %s\n", m.summary.grade.Value))
		}
		if m.summary.scheme != nil {
			b.WriteString(fmt.Sprintf("Scheme: %s\n", m.summary.scheme.Name))
		}
		if app := m.summary.application; app != nil {
			b.WriteString(fmt.Sprintf("Scheme start: %s\n", app.SchemeStartDate.Format("2006-01-02")))
			if offer := talent.OfferStatus(app.Meta, app.Delta); offer != "" {
				b.WriteString(fmt.Sprintf("Offer: %s\n", offer))
			}
		}
		b.WriteString("\n")
	}

	switch m.step {
	case stepSearch:
		b.WriteString(sectionStyle.Render("Search"))
		b.WriteString("\n")
		b.WriteString("email: " + m.input + "▌\n")
	case stepChoose:
		b.WriteString(sectionStyle.Render("Updates"))
		b.WriteString("\n")
		b.WriteString("- 1 new role\n")
		b.WriteString("- 2 name change\n")
		b.WriteString("- 3 email change\n")
		b.WriteString("- 4 defer intake by one year\n")
	case stepFields:
		if m.kind == updateRole && len(m.summary.reachable) > 0 {
			b.WriteString(sectionStyle.Render("Reachable grades"))
			b.WriteString("\n")
			for i, grade := range m.summary.reachable {
				b.WriteString(fmt.Sprintf("- %d %s\n", i+1, grade.Value))
			}
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(m.kind.label()))
		b.WriteString("\n")
		for i, answer := range m.answers {
			b.WriteString(fmt.Sprintf("%s: %s\n", m.prompts[i].label, answer))
		}
		b.WriteString(m.prompts[m.field].label + ": " + m.input + "▌\n")
	case stepConfirm:
		b.WriteString(sectionStyle.Render("Check your answers"))
		b.WriteString("\n")
		b.WriteString("Update: " + m.kind.label() + "\n")
		for i, answer := range m.answers {
			if answer == "" {
				answer = "-"
			}
			b.WriteString(fmt.Sprintf("%s: %s\n", m.prompts[i].label, answer))
		}
		b.WriteString("\nSave? y/n\n")
	case stepDone:
		b.WriteString(sectionStyle.Render("Result"))
		b.WriteString("\n")
		b.WriteString("- s search another candidate\n")
		b.WriteString("- q quit\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Status"))
	b.WriteString("\n- " + m.status + "\n\n")
	b.WriteString(dimStyle.Render("Keys: enter submit  esc back  ctrl+c quit"))
	return b.String()
}

func pickNumbered[T any](items []T, answer string) (T, error) {
	var zero T
	var index int
	if _, err := fmt.Sscanf(answer, "%d", &index); err != nil {
		return zero, fmt.Errorf("%q is not a number", answer)
	}
	if index < 1 || index > len(items) {
		return zero, fmt.Errorf("%d is out of range 1-%d", index, len(items))
	}
	return items[index-1], nil
}

func numberedValues(values []string) string {
	parts := make([]string, 0, len(values))
	for i, value := range values {
		parts = append(parts, fmt.Sprintf("%d=%s", i+1, value))
	}
	return strings.Join(parts, " ")
}
