package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/parlor/internal/styles"
)

// RoomForm wraps a huh.Form for creating a new room.
type RoomForm struct {
	form   *huh.Form
	name   string
	public bool
}

// RoomFormResult contains the form submission result.
type RoomFormResult struct {
	Name   string
	Public bool
}

// NewRoomForm creates the room creation form. existingNames is used to
// validate that the room name is not already taken in the joined feed.
func NewRoomForm(existingNames map[string]bool) *RoomForm {
	f := &RoomForm{public: true}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Room Name").
				Value(&f.name).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return errors.New("room name is required")
					}
					if existingNames[s] {
						return errors.New("you already have a room by that name")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Visibility").
				Affirmative("Public").
				Negative("Private").
				Value(&f.public),
		),
	).WithTheme(styles.FormTheme())

	return f
}

// Form returns the underlying huh.Form for tea.Model integration.
func (f *RoomForm) Form() *huh.Form {
	return f.form
}

// SetForm replaces the wrapped form after an Update cycle.
func (f *RoomForm) SetForm(form *huh.Form) {
	f.form = form
}

// Result returns the form result. Only valid once the form completes.
func (f *RoomForm) Result() RoomFormResult {
	return RoomFormResult{
		Name:   strings.TrimSpace(f.name),
		Public: f.public,
	}
}

// View renders the form.
func (f *RoomForm) View() string {
	return f.form.View()
}

// LoginForm wraps a huh.Form asking for a display name.
type LoginForm struct {
	form *huh.Form
	name string
}

// NewLoginForm creates the login form.
func NewLoginForm() *LoginForm {
	f := &LoginForm{}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Display Name").
				Description("How you appear to other people.").
				Value(&f.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("display name is required")
					}
					return nil
				}),
		),
	).WithTheme(styles.FormTheme())

	return f
}

// Form returns the underlying huh.Form for tea.Model integration.
func (f *LoginForm) Form() *huh.Form {
	return f.form
}

// SetForm replaces the wrapped form after an Update cycle.
func (f *LoginForm) SetForm(form *huh.Form) {
	f.form = form
}

// Name returns the entered display name. Only valid once the form completes.
func (f *LoginForm) Name() string {
	return strings.TrimSpace(f.name)
}

// View renders the form.
func (f *LoginForm) View() string {
	return f.form.View()
}
