package tui

import (
	"fmt"
	"strings"

	"github.com/hay-kot/parlor/internal/chat"
)

// ChatView is a custom transcript renderer for the active room. Messages are
// shown oldest-first and the view sticks to the bottom while new messages
// arrive, unless the user has scrolled up.
type ChatView struct {
	messages []chat.Message
	selfID   int64
	width    int
	height   int
	offset   int  // scroll offset in rendered lines, from the top
	pinned   bool // true while following the newest message
}

// NewChatView creates an empty chat view pinned to the bottom.
func NewChatView() *ChatView {
	return &ChatView{pinned: true}
}

// SetSelf marks which author id renders as "you".
func (v *ChatView) SetSelf(id int64) {
	v.selfID = id
}

// SetMessages replaces the transcript, e.g. after a room switch.
func (v *ChatView) SetMessages(msgs []chat.Message) {
	v.messages = msgs
	v.pinned = true
	v.offset = 0
}

// Append adds one message to the end of the transcript.
func (v *ChatView) Append(msg chat.Message) {
	v.messages = append(v.messages, msg)
}

// Clear drops the transcript.
func (v *ChatView) Clear() {
	v.messages = nil
	v.pinned = true
	v.offset = 0
}

// SetSize sets the viewport dimensions.
func (v *ChatView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// LastMessage returns the newest message, or nil when the transcript is empty.
func (v *ChatView) LastMessage() *chat.Message {
	if len(v.messages) == 0 {
		return nil
	}
	return &v.messages[len(v.messages)-1]
}

// ScrollUp moves the viewport up one line and unpins from the bottom.
func (v *ChatView) ScrollUp() {
	if v.pinned {
		v.pinned = false
		v.offset = v.maxOffset()
	}
	if v.offset > 0 {
		v.offset--
	}
}

// ScrollDown moves the viewport down one line, re-pinning at the bottom.
func (v *ChatView) ScrollDown() {
	if v.pinned {
		return
	}
	v.offset++
	if v.offset >= v.maxOffset() {
		v.pinned = true
		v.offset = 0
	}
}

func (v *ChatView) maxOffset() int {
	lines := v.renderLines()
	max := len(lines) - v.height
	if max < 0 {
		max = 0
	}
	return max
}

// View renders the visible slice of the transcript.
func (v *ChatView) View() string {
	if len(v.messages) == 0 {
		return detailStyle.Render("No messages yet. Say something.")
	}

	lines := v.renderLines()

	start := v.offset
	if v.pinned {
		start = len(lines) - v.height
	}
	if start < 0 {
		start = 0
	}
	end := start + v.height
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

// renderLines flattens the transcript into wrapped display lines.
func (v *ChatView) renderLines() []string {
	contentWidth := v.width - 2
	if contentWidth < 20 {
		contentWidth = 20
	}

	var lines []string
	for i := range v.messages {
		msg := &v.messages[i]

		style := authorStyle
		name := msg.Author.Name
		if msg.Author.ID == v.selfID {
			style = selfAuthorStyle
			name = "you"
		}
		header := fmt.Sprintf("%s %s",
			style.Render(name),
			timestampStyle.Render(msg.SentAt.Format("15:04")),
		)
		lines = append(lines, header)

		for _, line := range wrapText(msg.Content, contentWidth) {
			lines = append(lines, "  "+line)
		}
	}
	return lines
}

// wrapText breaks text into lines no wider than width, splitting on spaces
// where possible.
func wrapText(text string, width int) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var line strings.Builder
		for _, word := range words {
			// Hard-break words longer than a full line.
			for len([]rune(word)) > width {
				runes := []rune(word)
				if line.Len() > 0 {
					lines = append(lines, line.String())
					line.Reset()
				}
				lines = append(lines, string(runes[:width]))
				word = string(runes[width:])
			}

			if line.Len() == 0 {
				line.WriteString(word)
				continue
			}
			if len([]rune(line.String()))+1+len([]rune(word)) > width {
				lines = append(lines, line.String())
				line.Reset()
				line.WriteString(word)
				continue
			}
			line.WriteString(" ")
			line.WriteString(word)
		}
		if line.Len() > 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}
