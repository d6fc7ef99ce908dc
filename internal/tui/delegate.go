package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/parlor/internal/chat"
)

// RoomItem wraps a room for the list component.
type RoomItem struct {
	Room   chat.Room
	Joined bool // membership state from the joined feed
	Active bool // currently open in the chat pane
}

// FilterValue returns the value used for filtering.
func (i RoomItem) FilterValue() string {
	return i.Room.Name + " " + i.Room.Owner.Name
}

// RoomDelegate handles rendering of room items in the list.
type RoomDelegate struct {
	Styles RoomDelegateStyles
}

// RoomDelegateStyles defines the styles for the delegate.
type RoomDelegateStyles struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Detail   lipgloss.Style
	Unread   lipgloss.Style
	Presence lipgloss.Style
}

// DefaultRoomDelegateStyles returns the default styles.
func DefaultRoomDelegateStyles() RoomDelegateStyles {
	return RoomDelegateStyles{
		Normal:   normalStyle,
		Selected: selectedStyle,
		Detail:   detailStyle,
		Unread:   unreadStyle,
		Presence: presenceStyle,
	}
}

// NewRoomDelegate creates a new room delegate with default styles.
func NewRoomDelegate() RoomDelegate {
	return RoomDelegate{
		Styles: DefaultRoomDelegateStyles(),
	}
}

// Height returns the height of each item.
func (d RoomDelegate) Height() int {
	return 2
}

// Spacing returns the spacing between items.
func (d RoomDelegate) Spacing() int {
	return 1
}

// Update handles item updates.
func (d RoomDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render renders a single item.
func (d RoomDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	roomItem, ok := item.(RoomItem)
	if !ok {
		return
	}

	r := roomItem.Room
	isSelected := index == m.Index()

	// Title line: name plus markers.
	var title strings.Builder
	title.WriteString(r.Name)
	if !r.Public {
		title.WriteString(" " + iconLock)
	}
	if roomItem.Active {
		title.WriteString(" " + iconDot + " open")
	}

	var titleLine string
	if isSelected {
		titleLine = d.Styles.Selected.Render("> " + title.String())
	} else {
		titleLine = d.Styles.Normal.Render("  " + title.String())
	}

	if r.Unread > 0 {
		titleLine += " " + d.Styles.Unread.Render(fmt.Sprintf("(%d)", r.Unread))
	}

	// Detail line: owner, presence, membership.
	parts := []string{d.Styles.Detail.Render("by " + r.Owner.Name)}
	if r.ActiveUsers > 0 {
		parts = append(parts, d.Styles.Presence.Render(fmt.Sprintf("%d online", r.ActiveUsers)))
	}
	if roomItem.Joined {
		parts = append(parts, d.Styles.Detail.Render(iconMember+" member"))
	}
	detail := strings.Join(parts, d.Styles.Detail.Render(" "+iconDot+" "))

	_, _ = fmt.Fprintf(w, "%s\n", titleLine)
	_, _ = fmt.Fprintf(w, "  %s", detail)
}
