package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/valmeida/aetria/internal/app"
	"github.com/valmeida/aetria/pkg/state"
)

// Creation steps, in order.
const (
	stepName = iota
	stepAge
	stepOrigin
	stepAttributes
)

// originGroups fixes the display order of the catalog.
var originGroups = []string{
	"Nobres e Elite",
	"Classe Média / Povo",
	"Marginais e Alternativos",
	"Exóticos",
}

// creationModel drives the character-creation flow.
type creationModel struct {
	step int

	nameInput textinput.Model
	ageInput  textinput.Model

	origins        []state.SocialOrigin
	originGroupOf  []string
	selectedOrigin int

	values       []int
	selectedAttr int

	err string
}

func newCreationModel() *creationModel {
	name := textinput.New()
	name.Placeholder = "Nome do personagem"
	name.CharLimit = 60
	name.Focus()

	age := textinput.New()
	age.Placeholder = "18"
	age.CharLimit = 3

	var origins []state.SocialOrigin
	var groupOf []string
	for _, group := range originGroups {
		for _, origin := range state.SocialOrigins[group] {
			origins = append(origins, origin)
			groupOf = append(groupOf, group)
		}
	}

	values := make([]int, len(state.AttributeNames))
	for i := range values {
		values[i] = state.MinAttribute
	}

	return &creationModel{
		nameInput:     name,
		ageInput:      age,
		origins:       origins,
		originGroupOf: groupOf,
		values:        values,
	}
}

func (c *creationModel) remaining() int {
	total := 0
	for _, v := range c.values {
		total += v
	}
	return state.AttributePoints - total
}

func (c *creationModel) attributes() state.Attributes {
	v := c.values
	return state.Attributes{
		Forca: v[0], Agilidade: v[1], Vigor: v[2], Inteligencia: v[3], Vontade: v[4],
		Percepcao: v[5], Carisma: v[6], Sorte: v[7], Tecnica: v[8], Afinidade: v[9],
	}
}

func (c *creationModel) data() app.CreationData {
	age, _ := strconv.Atoi(strings.TrimSpace(c.ageInput.Value()))
	return app.CreationData{
		Nome:      strings.TrimSpace(c.nameInput.Value()),
		Idade:     age,
		Origem:    c.origins[c.selectedOrigin].ID,
		Atributos: c.attributes(),
	}
}

// adjust moves the selected attribute by delta within the point budget.
func (c *creationModel) adjust(delta int) {
	v := c.values[c.selectedAttr] + delta
	if v < state.MinAttribute {
		v = state.MinAttribute
	}
	if v > state.MaxAttribute {
		v = state.MaxAttribute
	}
	if delta > 0 {
		if budget := c.remaining(); delta > budget {
			v = c.values[c.selectedAttr] + budget
		}
	}
	c.values[c.selectedAttr] = v
}

func (m ConsoleUI) updateCreation(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.creation == nil {
		m.creation = newCreationModel()
	}
	c := m.creation

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		}

		switch c.step {
		case stepName:
			if msg.Type == tea.KeyEnter {
				if strings.TrimSpace(c.nameInput.Value()) == "" {
					c.err = "O nome é obrigatório."
					return m, nil
				}
				c.err = ""
				c.step = stepAge
				c.nameInput.Blur()
				c.ageInput.Focus()
				return m, textinput.Blink
			}
			var cmd tea.Cmd
			c.nameInput, cmd = c.nameInput.Update(msg)
			return m, cmd

		case stepAge:
			if msg.Type == tea.KeyEnter {
				age, err := strconv.Atoi(strings.TrimSpace(c.ageInput.Value()))
				if err != nil || age < 1 {
					c.err = "Informe uma idade válida."
					return m, nil
				}
				c.err = ""
				c.step = stepOrigin
				c.ageInput.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			c.ageInput, cmd = c.ageInput.Update(msg)
			return m, cmd

		case stepOrigin:
			switch msg.Type {
			case tea.KeyUp:
				if c.selectedOrigin > 0 {
					c.selectedOrigin--
				}
			case tea.KeyDown:
				if c.selectedOrigin < len(c.origins)-1 {
					c.selectedOrigin++
				}
			case tea.KeyEnter:
				c.step = stepAttributes
			}
			return m, nil

		case stepAttributes:
			switch msg.Type {
			case tea.KeyUp:
				if c.selectedAttr > 0 {
					c.selectedAttr--
				}
			case tea.KeyDown:
				if c.selectedAttr < len(c.values)-1 {
					c.selectedAttr++
				}
			case tea.KeyLeft:
				c.adjust(-1)
			case tea.KeyRight:
				c.adjust(1)
			case tea.KeyEnter:
				if c.remaining() != 0 {
					c.err = fmt.Sprintf("Distribua todos os pontos (%d restantes).", c.remaining())
					return m, nil
				}
				c.err = ""
				m.loading = true
				data := c.data()
				return m, tea.Batch(func() tea.Msg {
					return turnDoneMsg{m.ctrl.FinishCreation(context.Background(), data)}
				}, m.spin.Tick)
			default:
				switch msg.String() {
				case "<":
					c.adjust(-10)
				case ">":
					c.adjust(10)
				}
			}
			return m, nil
		}
	}
	return m, nil
}

func (m ConsoleUI) renderCreation() string {
	c := m.creation
	if c == nil {
		return ""
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Criação de Personagem"))
	content.WriteString("\n\n")

	switch c.step {
	case stepName:
		content.WriteString("Como se chama seu personagem?\n\n")
		content.WriteString(c.nameInput.View())

	case stepAge:
		content.WriteString("Qual a idade de " + strings.TrimSpace(c.nameInput.Value()) + "?\n\n")
		content.WriteString(c.ageInput.View())

	case stepOrigin:
		content.WriteString("Escolha a origem social:\n\n")
		lastGroup := ""
		for i, origin := range c.origins {
			if group := c.originGroupOf[i]; group != lastGroup {
				content.WriteString(headingStyle.Render(group) + "\n")
				lastGroup = group
			}
			if i == c.selectedOrigin {
				content.WriteString(modalSelectedItemStyle.Render("▶ "+origin.Name) + "\n")
				content.WriteString(promptStyle.Render("  "+origin.Description) + "\n")
			} else {
				content.WriteString(modalItemStyle.Render("  "+origin.Name) + "\n")
			}
		}

	case stepAttributes:
		if m.loading {
			content.WriteString(m.spin.View() + noticeStyle.Render(" Preparando o mundo..."))
			break
		}
		content.WriteString(fmt.Sprintf("Distribua seus pontos de atributo. Restantes: %d\n\n", c.remaining()))
		for i, name := range state.AttributeNames {
			line := fmt.Sprintf("%-13s %4d", name, c.values[i])
			if i == c.selectedAttr {
				content.WriteString(modalSelectedItemStyle.Render("▶ "+line) + "\n")
			} else {
				content.WriteString(modalItemStyle.Render("  "+line) + "\n")
			}
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("←/→ ajusta 1, </> ajusta 10, Enter confirma"))
	}

	if c.err != "" {
		content.WriteString("\n\n" + errorStyle.Render(c.err))
	}

	modal := modalStyle.Width(64).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}
