package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/valmeida/aetria/internal/app"
	"github.com/valmeida/aetria/pkg/chat"
)

const PlaceHolderText = "Descreva sua ação..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctrl *app.Controller

	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	spin         spinner.Model
	renderer     *glamour.TermRenderer

	ready   bool
	width   int
	height  int
	err     error
	loading bool

	// Start screen state
	hasSave       bool
	selectedStart int

	// Character creation state
	creation *creationModel

	// Import prompt state
	importing   bool
	importInput textinput.Model

	// Quit confirmation state
	showQuitModal bool

	// Transient notice (toast)
	notice string
}

type startProbedMsg struct {
	hasSave bool
	err     error
}

type turnDoneMsg struct{ err error }

type opDoneMsg struct {
	notice string
	err    error
}

type noticeMsg struct{ text string }

type noticeExpiredMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(ctrl *app.Controller) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = noticeStyle

	ti := textinput.New()
	ti.Placeholder = "caminho/do/arquivo.json"
	ti.CharLimit = 512

	return ConsoleUI{
		ctrl:         ctrl,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		spin:         sp,
		importInput:  ti,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.probeStart(), m.waitNotice(), m.spin.Tick)
}

func (m ConsoleUI) probeStart() tea.Cmd {
	return func() tea.Msg {
		hasSave, err := m.ctrl.Start(context.Background())
		return startProbedMsg{hasSave, err}
	}
}

// waitNotice pumps the controller's transient notification channel into
// the event loop.
func (m ConsoleUI) waitNotice() tea.Cmd {
	ch := m.ctrl.Notices()
	return func() tea.Msg {
		return noticeMsg{<-ch}
	}
}

func expireNotice() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}

func (m ConsoleUI) sendAction(text string) tea.Cmd {
	return func() tea.Msg {
		return turnDoneMsg{m.ctrl.SendInput(context.Background(), text)}
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Global messages first, regardless of phase.
	switch msg := msg.(type) {
	case noticeMsg:
		m.notice = msg.text
		return m, tea.Batch(m.waitNotice(), expireNotice())

	case noticeExpiredMsg:
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case startProbedMsg:
		m.hasSave = msg.hasSave
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.importing {
		return m.updateImportPrompt(msg)
	}

	switch m.ctrl.Phase() {
	case app.PhaseStartScreen:
		return m.updateStartScreen(msg)
	case app.PhaseCreation:
		return m.updateCreation(msg)
	case app.PhasePlaying:
		return m.updatePlaying(msg)
	}
	return m, nil
}

func (m *ConsoleUI) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.chatViewport.Width-6),
	)
	if err == nil {
		m.renderer = renderer
	}

	m.ready = true
	m.writeChatContent()
	m.writeMetaContent()
}

// renderNarrative renders game-master prose as markdown, falling back
// to plain word wrapping.
func (m *ConsoleUI) renderNarrative(text string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return wordwrap.String(text, m.chatViewport.Width-6)
}

// writeChatContent rebuilds the transcript view from the controller's
// committed history for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("AETRIA") + "\n\n")
	content.WriteString("Descreva suas ações abaixo para conduzir a aventura.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	for _, msg := range m.ctrl.ChatHistory() {
		switch msg.Role {
		case chat.RoleModel:
			content.WriteString(m.renderNarrative(msg.Content) + "\n\n")
		case chat.RoleUser:
			content.WriteString(userStyle.Render("Você: ") + wordwrap.String(msg.Content, chatWidth-6) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.spin.View() + noticeStyle.Render(" O mestre está narrando..."))
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetaContent() {
	gs := m.ctrl.GameState()
	if gs == nil {
		m.metaViewport.SetContent("")
		return
	}
	m.metaViewport.SetContent(writeMetadata(gs))
}

func (m ConsoleUI) updatePlaying(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.writeChatContent()
			return m, tea.Batch(m.sendAction(input), m.spin.Tick)
		}

	case turnDoneMsg:
		m.loading = false
		if msg.err != nil {
			// The notice channel already carries the user-facing
			// message; keep the transcript as it was.
			m.err = msg.err
		}
		m.writeChatContent()
		m.writeMetaContent()
		return m, nil

	case opDoneMsg:
		m.loading = false
		if msg.err == nil && msg.notice != "" {
			m.notice = msg.notice
		}
		m.writeChatContent()
		m.writeMetaContent()
		return m, expireNotice()
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// handleCommand dispatches slash commands. The command set mirrors the
// button ids carried in the state, plus a local help.
func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.textarea.Reset()
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "/ajuda", "/help":
		m.appendLocal(titleStyle.Render("Comandos") + "\n" + helpText())
		return m, nil
	case "/novo", "/new":
		return m.dispatchButton("new")
	case "/salvar", "/save":
		return m.dispatchButton("save")
	case "/carregar", "/load":
		return m.dispatchButton("load")
	case "/exportar", "/export":
		return m.dispatchButton("export")
	case "/importar", "/import":
		return m.dispatchButton("import")
	case "/json":
		return m.dispatchButton("json")
	case "/autosave":
		return m.dispatchButton("autosave")
	case "/ficha", "/sheet":
		return m.dispatchButton("sheet")
	case "/equipamento", "/equipment":
		return m.dispatchButton("equipment")
	case "/implantes", "/implants":
		return m.dispatchButton("implants")
	case "/companheiros", "/companions":
		return m.dispatchButton("companions")
	case "/relacoes", "/relations":
		return m.dispatchButton("relations")
	case "/espaco", "/invspace":
		return m.dispatchButton("invspace")
	default:
		m.notice = "Comando desconhecido. Use /ajuda."
		return m, expireNotice()
	}
}

// dispatchButton maps a stable button id to its controller operation or
// local panel.
func (m ConsoleUI) dispatchButton(id string) (tea.Model, tea.Cmd) {
	switch id {
	case "new":
		if err := m.ctrl.NewGame(context.Background()); err != nil {
			m.err = err
			return m, nil
		}
		m.creation = newCreationModel()
		return m, textinput.Blink

	case "save":
		return m, func() tea.Msg {
			err := m.ctrl.Save(context.Background())
			return opDoneMsg{notice: "Jogo salvo.", err: err}
		}

	case "load":
		return m, func() tea.Msg {
			err := m.ctrl.LoadSave(context.Background())
			return opDoneMsg{notice: "Jogo carregado.", err: err}
		}

	case "export":
		return m, func() tea.Msg {
			name := m.ctrl.ExportFilename()
			f, err := os.Create(name)
			if err != nil {
				return opDoneMsg{err: err}
			}
			defer func() {
				_ = f.Close()
			}()
			if err := m.ctrl.Export(f); err != nil {
				return opDoneMsg{err: err}
			}
			return opDoneMsg{notice: "Exportado para " + name}
		}

	case "import":
		m.importing = true
		m.importInput.Reset()
		m.importInput.Focus()
		return m, textinput.Blink

	case "json":
		gs := m.ctrl.GameState()
		if gs == nil {
			return m, nil
		}
		data, err := json.MarshalIndent(gs, "", "  ")
		if err != nil {
			m.err = err
			return m, nil
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			m.notice = "Não foi possível copiar para a área de transferência."
		} else {
			m.notice = "Estado do jogo copiado para a área de transferência."
		}
		return m, expireNotice()

	case "autosave":
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.writeChatContent()
		return m, tea.Batch(func() tea.Msg {
			return turnDoneMsg{m.ctrl.ToggleAutosave(context.Background())}
		}, m.spin.Tick)

	case "sheet":
		m.appendLocal(renderSheet(m.ctrl.GameState()))
	case "equipment":
		m.appendLocal(renderEquipment(m.ctrl.GameState()))
	case "implants":
		m.appendLocal(renderImplants(m.ctrl.GameState()))
	case "companions":
		m.appendLocal(renderCompanions(m.ctrl.GameState()))
	case "relations":
		m.appendLocal(renderRelations(m.ctrl.GameState()))
	case "invspace":
		m.appendLocal(renderSpaceInventory(m.ctrl.GameState()))
	}
	return m, nil
}

// appendLocal adds locally-generated content below the transcript
// without touching the committed history.
func (m *ConsoleUI) appendLocal(text string) {
	m.writeChatContent()
	current := m.chatViewport.View()
	m.chatViewport.SetContent(current + "\n" + text + "\n")
	m.chatViewport.GotoBottom()
}

func helpText() string {
	return `
• /ficha, /equipamento, /implantes — painéis do personagem
• /companheiros, /relacoes, /espaco — grupo e inventários
• /salvar, /carregar, /exportar, /importar — persistência
• /json — copia o estado atual
• /autosave — alterna o salvamento automático
• /novo — novo jogo  • Ctrl+C — sair
`
}

func (m ConsoleUI) updateStartScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	options := m.startOptions()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedStart > 0 {
				m.selectedStart--
			}
		case tea.KeyDown:
			if m.selectedStart < len(options)-1 {
				m.selectedStart++
			}
		case tea.KeyEnter:
			switch options[m.selectedStart].id {
			case "continue":
				return m, func() tea.Msg {
					err := m.ctrl.LoadSave(context.Background())
					return opDoneMsg{notice: "Jogo carregado.", err: err}
				}
			case "new":
				return m.dispatchButton("new")
			case "import":
				m.importing = true
				m.importInput.Reset()
				m.importInput.Focus()
				return m, textinput.Blink
			}
		}

	case opDoneMsg:
		if msg.err == nil {
			m.resize()
			if msg.notice != "" {
				m.notice = msg.notice
			}
			return m, expireNotice()
		}
		m.err = msg.err
	}
	return m, nil
}

type startOption struct {
	id    string
	label string
}

func (m ConsoleUI) startOptions() []startOption {
	var options []startOption
	if m.hasSave {
		options = append(options, startOption{"continue", "Continuar"})
	}
	options = append(options,
		startOption{"new", "Novo Jogo"},
		startOption{"import", "Importar Arquivo"},
	)
	return options
}

func (m ConsoleUI) updateImportPrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.importing = false
			return m, nil
		case tea.KeyEnter:
			path := strings.TrimSpace(m.importInput.Value())
			if path == "" {
				return m, nil
			}
			m.importing = false
			return m, func() tea.Msg {
				f, err := os.Open(path)
				if err != nil {
					return opDoneMsg{err: err}
				}
				defer func() {
					_ = f.Close()
				}()
				if err := m.ctrl.Import(context.Background(), f); err != nil {
					return opDoneMsg{err: err}
				}
				return opDoneMsg{notice: "Jogo importado."}
			}
		}

	case opDoneMsg:
		if msg.err == nil {
			m.resize()
			m.notice = msg.notice
			return m, expireNotice()
		}
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y", "s", "S":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Sair do jogo?"))
	content.WriteString("\n\n")
	content.WriteString("Progresso não salvo será perdido.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("S para sair, N para continuar"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderStartScreen() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("AETRIA"))
	content.WriteString("\n\n")

	for i, opt := range m.startOptions() {
		if i == m.selectedStart {
			content.WriteString(modalSelectedItemStyle.Render("▶ " + opt.label))
		} else {
			content.WriteString(modalItemStyle.Render("  " + opt.label))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("↑/↓ para navegar, Enter para escolher, Ctrl+C para sair"))
	if m.err != nil {
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(m.err.Error()))
	}

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderImportPrompt() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Importar jogo"))
	content.WriteString("\n\n")
	content.WriteString("Caminho do arquivo exportado:\n")
	content.WriteString(m.importInput.View())
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Enter para importar, Esc para voltar"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.width == 0 || m.height == 0 {
		return "\n  Carregando..."
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.importing {
		return m.renderImportPrompt()
	}

	switch m.ctrl.Phase() {
	case app.PhaseLoading:
		return "\n  " + m.spin.View() + " Carregando..."
	case app.PhaseStartScreen:
		return m.renderStartScreen()
	case app.PhaseCreation:
		return m.renderCreation()
	}

	if !m.ready {
		return "\n  Inicializando..."
	}

	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	statusLine := ""
	if m.notice != "" {
		statusLine = noticeStyle.Render(m.notice)
	}

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			statusLine,
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}
