package data

import (
	"github.com/bwmarrin/discordgo"

	"github.com/kempysnetwork/kempai/internal/biz/repo"
	"github.com/kempysnetwork/kempai/ollama"
)

// Repositories contains all repositories
type Repositories struct {
	Chat     repo.ChatRepo
	Guild    repo.GuildRepo
	Generate repo.GenerateRepo
}

// NewRepositories creates all repositories backed by the Discord
// session and the Ollama client
func NewRepositories(session *discordgo.Session, ollamaClient *ollama.Client) *Repositories {
	return &Repositories{
		Chat:     NewDiscordChatRepo(session),
		Guild:    NewDiscordGuildRepo(session),
		Generate: NewOllamaRepo(ollamaClient),
	}
}
