package avatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentURL(t *testing.T) {
	got := AgentURL("Math Tutor")
	assert.Equal(t, "https://api.dicebear.com/9.x/bottts-neutral/svg?seed=Math+Tutor", got)
}

func TestInitialsURL(t *testing.T) {
	got := InitialsURL("Unknown")
	assert.Equal(t, "https://api.dicebear.com/9.x/initials/svg?seed=Unknown", got)
}

func TestURLIsDeterministic(t *testing.T) {
	assert.Equal(t, URL(StyleInitials, "alice"), URL(StyleInitials, "alice"))
	assert.NotEqual(t, URL(StyleInitials, "alice"), URL(StyleInitials, "bob"))
}
