package domain

import "fmt"

// Member represents a guild member (value object)
type Member struct {
	UserID    string
	Name      string
	IsBot     bool
	RoleNames []string
}

// FormatMention formats the Discord @ mention syntax
func (m *Member) FormatMention() string {
	return fmt.Sprintf("<@%s>", m.UserID)
}
