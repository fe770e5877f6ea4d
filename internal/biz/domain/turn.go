package domain

// Role identifies who produced a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn represents a single role-tagged message in a channel's rolling context.
// Turns are immutable once created.
type Turn struct {
	Role    Role
	Content string
}

// IsAssistant checks if the turn was produced by the bot
func (t Turn) IsAssistant() bool {
	return t.Role == RoleAssistant
}
