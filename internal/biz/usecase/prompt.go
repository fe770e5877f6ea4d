package usecase

import (
	"fmt"
	"strings"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
	"github.com/kempysnetwork/kempai/internal/conf"
)

// PromptBuilder renders prompts for the inference endpoint from the
// configured persona
type PromptBuilder struct {
	persona *conf.PersonaConfig
}

// NewPromptBuilder creates a prompt builder for the persona
func NewPromptBuilder(persona *conf.PersonaConfig) *PromptBuilder {
	return &PromptBuilder{persona: persona}
}

// Preamble renders the constant persona preamble placed before every
// conversational prompt
func (b *PromptBuilder) Preamble() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are %s, a Discord co-owner and moderator. %s\n\n", b.persona.Name, b.persona.Backstory))

	sb.WriteString("Personality traits:\n")
	for _, trait := range b.persona.Traits {
		sb.WriteString(fmt.Sprintf("- %s\n", trait))
	}

	sb.WriteString("\nResponse Guidelines:\n")
	sb.WriteString("- Respond directly and naturally without any thinking out loud\n")
	sb.WriteString("- Avoid being overly formal or robotic\n")
	sb.WriteString("- Never use <think> tags or show your thought process\n")
	for _, line := range b.persona.Do {
		sb.WriteString(fmt.Sprintf("- %s\n", line))
	}
	for _, line := range b.persona.Dont {
		sb.WriteString(fmt.Sprintf("- Don't: %s\n", line))
	}

	sb.WriteString("\nAs a co-owner, try to be helpful but not overbearing. Keep responses short and fun.\n")
	sb.WriteString("Current conversation context: ")

	return sb.String()
}

// Conversation builds the full conversational prompt: persona preamble,
// an admin-addressed context line when the author holds administrator
// permission in a guild channel, and the serialized history.
func (b *PromptBuilder) Conversation(history string, authorIsAdmin bool) string {
	userContext := ""
	if authorIsAdmin {
		userContext = "Speaking to a fellow server admin and member, "
	}
	return fmt.Sprintf("%s\n%s%s", b.Preamble(), userContext, history)
}

// TriggerPrompt builds the prompt for a trigger-table match, embedding
// the response template, the raw message and the author's display name
func (b *PromptBuilder) TriggerPrompt(template, message, authorName string) string {
	return fmt.Sprintf(`Generate a response based on this template: %s
User's message: %s
User's name: %s
Make it sound natural and contextual.`, template, message, authorName)
}

// DMPrompt builds the personalization prompt for a single direct message
func (b *PromptBuilder) DMPrompt(message string, member *domain.Member) string {
	return fmt.Sprintf(`Personalize this message for %s based on their roles:
Original message: %s
Their roles: %s
Make it sound natural and friendly, keeping the core message intact.`,
		member.Name, message, strings.Join(member.RoleNames, ", "))
}

// MassDMPrompt builds the personalization prompt for a mass-DM campaign
func (b *PromptBuilder) MassDMPrompt(message string, member *domain.Member) string {
	return fmt.Sprintf(`Create a personalized version of this message for %s:
Original message: %s
Their roles: %s
Make it personal but keep the core message intact.`,
		member.Name, message, strings.Join(member.RoleNames, ", "))
}

// Greeting picks a welcome template and substitutes the user mention
func (b *PromptBuilder) Greeting(index int, mention string) string {
	if len(b.persona.Greetings) == 0 {
		return fmt.Sprintf("Welcome %s!", mention)
	}
	template := b.persona.Greetings[index%len(b.persona.Greetings)]
	return strings.ReplaceAll(template, "{user}", mention)
}
