package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.NoError(t, DisplayName("alice"))
	assert.NoError(t, DisplayName("  alice  "))
	assert.Error(t, DisplayName(""))
	assert.Error(t, DisplayName("   "))
	assert.Error(t, DisplayName(strings.Repeat("a", 65)))
}

func TestRoomName(t *testing.T) {
	assert.NoError(t, RoomName("general"))
	assert.Error(t, RoomName(""))
	assert.Error(t, RoomName("\t\n"))
	assert.Error(t, RoomName(strings.Repeat("r", 65)))
}
