package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	switch m.state {
	case stateLoading:
		loading := lipgloss.JoinHorizontal(lipgloss.Left, m.spinner.View(), " Connecting...")
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, loading)

	case stateLogin:
		content := lipgloss.JoinVertical(
			lipgloss.Left,
			bannerStyle.Render(banner),
			m.loginForm.View(),
			m.noticeLine(),
		)
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, content)
	}

	mainView := m.renderMain()

	if m.state == stateCreatingRoom && m.roomForm != nil {
		formContent := lipgloss.JoinVertical(
			lipgloss.Left,
			modalTitleStyle.Render("New Room"),
			"",
			m.roomForm.View(),
		)
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, modalStyle.Render(formContent))
	}

	if m.state == stateConfirming {
		return m.confirm.Overlay(mainView, w, h)
	}

	return mainView
}

// renderMain renders the banner, tab bar, panes, status line, and help.
func (m Model) renderMain() string {
	bannerView := bannerStyle.Render(banner)
	tabBar := m.renderTabBar()

	contentHeight := m.height - 7
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	if m.active.Room() != nil {
		left := lipgloss.NewStyle().Width(m.listPaneWidth()).Render(m.list.View())
		right := chatPaneStyle.Render(m.renderChatPane(contentHeight))
		content = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	} else {
		content = m.list.View()
	}
	content = lipgloss.NewStyle().Height(contentHeight).Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		bannerView,
		tabBar,
		content,
		m.statusLine(),
		m.helpLine(),
	)
}

// renderTabBar renders the joined/discover tab switcher.
func (m Model) renderTabBar() string {
	var joined, discover string
	if m.tab == TabJoined {
		joined = tabSelectedStyle.Render("My Rooms")
		discover = tabNormalStyle.Render("Discover")
	} else {
		joined = tabNormalStyle.Render("My Rooms")
		discover = tabSelectedStyle.Render("Discover")
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Left, joined, tabNormalStyle.Render(" | "), discover)
	if id := m.service.Identity(); id != nil {
		bar += tabNormalStyle.Render("   " + iconDot + " ") + detailStyle.Render(id.Name)
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(bar)
}

// renderChatPane renders the transcript plus composer for the active room.
func (m Model) renderChatPane(height int) string {
	transcript := m.chatView.View()

	transcriptHeight := height - 1
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}
	transcript = lipgloss.NewStyle().Height(transcriptHeight).Render(transcript)

	var composer string
	if m.active.Connected() {
		composer = m.composer.View()
	} else {
		composer = detailStyle.Render("(offline)")
	}

	return lipgloss.JoinVertical(lipgloss.Left, transcript, composer)
}

// noticeLine renders the transient notice, or an empty string when there is none.
func (m Model) noticeLine() string {
	if m.notice == "" {
		return ""
	}
	return errorStyle.Render(m.notice)
}

// statusLine renders the connection state and any transient notice.
func (m Model) statusLine() string {
	var parts []string

	if room := m.active.Room(); room != nil {
		if m.active.Connected() {
			parts = append(parts, statusConnectedStyle.Render("● "+room.Name))
		} else {
			parts = append(parts, statusDetachedStyle.Render("○ "+room.Name))
		}
		parts = append(parts, detailStyle.Render(fmt.Sprintf("%d members", len(m.active.Members()))))
	}

	if m.activating != nil {
		parts = append(parts, m.spinner.View())
	}

	if m.notice != "" {
		parts = append(parts, errorStyle.Render(m.notice))
	}

	return lipgloss.NewStyle().PaddingLeft(1).Render(
		strings.Join(parts, detailStyle.Render(" "+iconDot+" ")),
	)
}

// helpLine renders the keybinding help for the focused pane.
func (m Model) helpLine() string {
	if m.focus == focusComposer {
		return helpStyle.Render("enter send • ↑/↓ scroll • esc rooms • ctrl+c quit")
	}

	var b strings.Builder
	for i, binding := range m.keys.shortHelp() {
		if i > 0 {
			b.WriteString(" • ")
		}
		b.WriteString(binding.Help().Key + " " + binding.Help().Desc)
	}
	return helpStyle.Render(b.String())
}
