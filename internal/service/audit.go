package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kempysnetwork/kempai/internal/biz/repo"
)

// AuditKind classifies audit log records
type AuditKind string

const (
	AuditAdmin  AuditKind = "admin"
	AuditMod    AuditKind = "mod"
	AuditDM     AuditKind = "dm"
	AuditChat   AuditKind = "chat"
	AuditSystem AuditKind = "system"
)

// Display glyphs are purely cosmetic
var auditGlyphs = map[AuditKind]string{
	AuditAdmin:  "🛡️",
	AuditMod:    "🔨",
	AuditDM:     "📨",
	AuditChat:   "💬",
	AuditSystem: "⚙️",
}

const auditTimeFormat = "2006-01-02 15:04:05"

// AuditLogger writes human-readable activity records to the configured
// logs channel. Logging failures never affect the primary request
// path: every error here is swallowed after a process-log line.
type AuditLogger struct {
	chatRepo      repo.ChatRepo
	guildRepo     repo.GuildRepo
	logsChannelID string
}

// NewAuditLogger creates an audit logger. An empty logsChannelID
// disables it entirely.
func NewAuditLogger(chatRepo repo.ChatRepo, guildRepo repo.GuildRepo, logsChannelID string) *AuditLogger {
	return &AuditLogger{
		chatRepo:      chatRepo,
		guildRepo:     guildRepo,
		logsChannelID: logsChannelID,
	}
}

// Log appends a formatted record for the given guild. Silently no-ops
// when unconfigured or when the logs channel does not resolve inside
// that guild.
func (l *AuditLogger) Log(ctx context.Context, guildID string, kind AuditKind, action, user, target, details string) {
	if l.logsChannelID == "" {
		return
	}

	info, err := l.chatRepo.ResolveChannel(ctx, l.logsChannelID)
	if err != nil {
		return
	}
	if guildID != "" && info.GuildID != guildID {
		return
	}

	glyph, ok := auditGlyphs[kind]
	if !ok {
		glyph = "ℹ️"
	}

	timestamp := time.Now().Format(auditTimeFormat)
	message := fmt.Sprintf("%s **%s** • %s\n👤 **User:** %s", glyph, action, timestamp, user)
	if target != "" {
		message += fmt.Sprintf("\n🎯 **Target:** %s", target)
	}
	if details != "" {
		message += fmt.Sprintf("\n📝 **Details:** %s", details)
	}

	if _, err := l.chatRepo.SendText(ctx, l.logsChannelID, message); err != nil {
		fmt.Printf("[Audit] Failed to write log entry: %v\n", err)
	}
}

// LogAllGuilds writes the record against every guild the bot serves.
// Used for direct-message events, which have no owning guild; the
// record lands only where the logs channel actually resolves.
func (l *AuditLogger) LogAllGuilds(ctx context.Context, kind AuditKind, action, user, target, details string) {
	for _, guildID := range l.guildRepo.GuildIDs(ctx) {
		l.Log(ctx, guildID, kind, action, user, target, details)
	}
}

// Announce sends a raw line to the logs channel, bypassing the record
// format. Used for startup notices.
func (l *AuditLogger) Announce(ctx context.Context, text string) {
	if l.logsChannelID == "" {
		return
	}
	if _, err := l.chatRepo.SendText(ctx, l.logsChannelID, text); err != nil {
		fmt.Printf("[Audit] Failed to announce: %v\n", err)
	}
}
