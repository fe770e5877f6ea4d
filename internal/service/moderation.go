package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
)

const muteDuration = 10 * time.Minute

// targetOrComplain extracts the single mentioned user an action is
// aimed at, replying with the friendly lookup error when absent
func (d *CommandDispatcher) targetOrComplain(ctx context.Context, inv *CommandInvocation) (*domain.Member, bool) {
	if len(inv.MentionedUsers) == 0 {
		d.say(ctx, inv, d.persona.Errors.InvalidUser)
		return nil, false
	}
	return &inv.MentionedUsers[0], true
}

func (d *CommandDispatcher) handleKick(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	target, ok := d.targetOrComplain(ctx, inv)
	if !ok {
		return
	}
	if !d.canModerate(ctx, inv, target.UserID) {
		d.say(ctx, inv, "Can't kick someone with the same or higher role than you! 😅")
		return
	}

	reason := strings.Join(stripMentionTokens(inv.Args), " ")
	if err := d.guildRepo.Kick(ctx, inv.GuildID, target.UserID, reason); err != nil {
		d.say(ctx, inv, d.persona.Errors.BotNoPerms)
		return
	}

	d.audit.Log(ctx, inv.GuildID, AuditMod, "Kick", inv.AuthorName, target.Name, reason)

	msg := fmt.Sprintf("Kicked %s %s", target.FormatMention(), d.reaction())
	if reason != "" {
		msg += fmt.Sprintf("\nReason: %s", reason)
	}
	d.say(ctx, inv, msg)
}

func (d *CommandDispatcher) handleBan(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	target, ok := d.targetOrComplain(ctx, inv)
	if !ok {
		return
	}
	if !d.canModerate(ctx, inv, target.UserID) {
		d.say(ctx, inv, "Can't ban someone with the same or higher role than you! 😅")
		return
	}

	reason := strings.Join(stripMentionTokens(inv.Args), " ")
	if err := d.guildRepo.Ban(ctx, inv.GuildID, target.UserID, reason); err != nil {
		d.say(ctx, inv, d.persona.Errors.BotNoPerms)
		return
	}

	d.audit.Log(ctx, inv.GuildID, AuditMod, "Ban", inv.AuthorName, target.Name, reason)

	msg := fmt.Sprintf("Banned %s %s", target.FormatMention(), d.reaction())
	if reason != "" {
		msg += fmt.Sprintf("\nReason: %s", reason)
	}
	d.say(ctx, inv, msg)
}

func (d *CommandDispatcher) handleMute(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	target, ok := d.targetOrComplain(ctx, inv)
	if !ok {
		return
	}
	if !d.canModerate(ctx, inv, target.UserID) {
		d.say(ctx, inv, d.persona.Errors.HigherRole)
		return
	}

	reason := strings.Join(stripMentionTokens(inv.Args), " ")
	until := time.Now().Add(muteDuration)
	if err := d.guildRepo.Timeout(ctx, inv.GuildID, target.UserID, until, reason); err != nil {
		d.say(ctx, inv, d.persona.Errors.BotNoPerms)
		return
	}

	d.audit.Log(ctx, inv.GuildID, AuditMod, "Mute", inv.AuthorName, target.Name, reason)

	responses := []string{
		fmt.Sprintf("Muted %s for 10 minutes! Time for a little break 🤫", target.Name),
		fmt.Sprintf("%s is in timeout for 10 minutes! 🔇", target.Name),
		fmt.Sprintf("Gave %s a 10 minute breather! 😴", target.Name),
	}
	d.say(ctx, inv, responses[d.randIntn(len(responses))])
}

func (d *CommandDispatcher) handleUnmute(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	target, ok := d.targetOrComplain(ctx, inv)
	if !ok {
		return
	}

	if err := d.guildRepo.ClearTimeout(ctx, inv.GuildID, target.UserID); err != nil {
		d.say(ctx, inv, d.persona.Errors.BotNoPerms)
		return
	}

	d.audit.Log(ctx, inv.GuildID, AuditMod, "Unmute", inv.AuthorName, target.Name, "")
	d.say(ctx, inv, fmt.Sprintf("Unmuted %s %s", target.Name, d.reaction()))
}

func (d *CommandDispatcher) handleClear(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}

	amount := 0
	if len(inv.Args) >= 1 {
		fmt.Sscanf(inv.Args[0], "%d", &amount)
	}
	if amount < 1 || amount > 100 {
		d.say(ctx, inv, "I can only clear between 1 and 100 messages at a time! 🤔")
		return
	}

	// +1 covers the invoking command message itself
	deleted, err := d.guildRepo.Purge(ctx, inv.ChannelID, amount+1)
	if err != nil {
		d.say(ctx, inv, d.persona.Errors.BotNoPerms)
		return
	}

	d.audit.Log(ctx, inv.GuildID, AuditMod, "Clear Messages", inv.AuthorName,
		fmt.Sprintf("<#%s>", inv.ChannelID), fmt.Sprintf("Cleared %d messages", deleted-1))

	confirmID, err := d.chatRepo.SendText(ctx, inv.ChannelID, fmt.Sprintf("Cleared %d messages %s", deleted-1, d.reaction()))
	if err != nil {
		return
	}

	// The confirmation lingers briefly, then removes itself
	d.sleep(3 * time.Second)
	if err := d.chatRepo.DeleteMessage(ctx, inv.ChannelID, confirmID); err != nil {
		fmt.Printf("[Commands] Failed to delete clear confirmation: %v\n", err)
	}
}

func (d *CommandDispatcher) handlePin(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	if inv.ReferencedMessageID == "" {
		d.say(ctx, inv, "Reply to a message to pin it! 📌")
		return
	}

	if err := d.guildRepo.Pin(ctx, inv.ChannelID, inv.ReferencedMessageID); err != nil {
		d.say(ctx, inv, d.persona.Errors.BotNoPerms)
		return
	}

	d.audit.Log(ctx, inv.GuildID, AuditMod, "Pin Message", inv.AuthorName,
		fmt.Sprintf("<#%s>", inv.ChannelID), "")
	d.say(ctx, inv, "Pinned that message! 📌")
}

func (d *CommandDispatcher) handleTrust(ctx context.Context, inv *CommandInvocation) {
	if !d.isStrictAdmin(ctx, inv) {
		d.say(ctx, inv, "Only server admins can add trusted users! 🚫")
		return
	}
	target, ok := d.targetOrComplain(ctx, inv)
	if !ok {
		return
	}

	d.accessUC.Trust(target.UserID)
	d.audit.Log(ctx, inv.GuildID, AuditAdmin, "Add Trusted User", inv.AuthorName, target.Name, "")
	d.say(ctx, inv, fmt.Sprintf("Added %s to trusted users! They can now use mod commands %s", target.Name, d.reaction()))
}

func (d *CommandDispatcher) handleUntrust(ctx context.Context, inv *CommandInvocation) {
	if !d.isStrictAdmin(ctx, inv) {
		d.say(ctx, inv, "Only server admins can remove trusted users! 🚫")
		return
	}
	target, ok := d.targetOrComplain(ctx, inv)
	if !ok {
		return
	}

	d.accessUC.Untrust(target.UserID)
	d.audit.Log(ctx, inv.GuildID, AuditAdmin, "Remove Trusted User", inv.AuthorName, target.Name, "")
	d.say(ctx, inv, fmt.Sprintf("Removed %s from trusted users! %s", target.Name, d.reaction()))
}

func (d *CommandDispatcher) handleRole(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	target, ok := d.targetOrComplain(ctx, inv)
	if !ok {
		return
	}
	if len(inv.MentionedRoleIDs) == 0 {
		d.say(ctx, inv, fmt.Sprintf("Usage: `%srole @user @role`", d.prefix))
		return
	}
	roleID := inv.MentionedRoleIDs[0]

	// Actors may only hand out roles below their own top role
	if tooHigh, err := d.guildRepo.RoleOutranksMember(ctx, inv.GuildID, roleID, inv.AuthorID); err != nil || tooHigh {
		d.say(ctx, inv, "You can't manage roles higher than your own! 😅")
		return
	}

	roleName, err := d.guildRepo.RoleName(ctx, inv.GuildID, roleID)
	if err != nil {
		d.say(ctx, inv, d.persona.Errors.BotNoPerms)
		return
	}

	has, err := d.guildRepo.HasRole(ctx, inv.GuildID, target.UserID, roleID)
	if err != nil {
		d.say(ctx, inv, d.persona.Errors.BotNoPerms)
		return
	}

	if has {
		if err := d.guildRepo.RemoveRole(ctx, inv.GuildID, target.UserID, roleID); err != nil {
			d.say(ctx, inv, d.persona.Errors.BotNoPerms)
			return
		}
		d.audit.Log(ctx, inv.GuildID, AuditMod, "Remove Role", inv.AuthorName, target.Name, roleName)
		d.say(ctx, inv, fmt.Sprintf("Removed the %s role from %s %s", roleName, target.Name, d.reaction()))
		return
	}

	if err := d.guildRepo.AddRole(ctx, inv.GuildID, target.UserID, roleID); err != nil {
		d.say(ctx, inv, d.persona.Errors.BotNoPerms)
		return
	}
	d.audit.Log(ctx, inv.GuildID, AuditMod, "Add Role", inv.AuthorName, target.Name, roleName)
	d.say(ctx, inv, fmt.Sprintf("Gave %s the %s role %s", target.Name, roleName, d.reaction()))
}
