package avatar

import (
	"fmt"
	"net/url"
)

// Styles for generated avatars. Agents get a robot face, humans get
// their initials.
const (
	StyleBotttsNeutral = "bottts-neutral"
	StyleInitials      = "initials"
)

const baseURL = "https://api.dicebear.com/9.x"

// URL builds a deterministic generated-avatar URL for a seed. The same
// seed always yields the same image, so callers can use display names
// without persisting anything.
func URL(style, seed string) string {
	return fmt.Sprintf("%s/%s/svg?seed=%s", baseURL, style, url.QueryEscape(seed))
}

// AgentURL returns the avatar for an AI agent identity
func AgentURL(seed string) string {
	return URL(StyleBotttsNeutral, seed)
}

// InitialsURL returns the fallback avatar for a human without a profile image
func InitialsURL(seed string) string {
	return URL(StyleInitials, seed)
}
