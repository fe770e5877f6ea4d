package service

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// massDMPace spaces outgoing DMs so a campaign stays under the
// platform's rate limits
const massDMPace = time.Second

func (d *CommandDispatcher) handleDM(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	if len(inv.MentionedUsers) == 0 {
		d.say(ctx, inv, fmt.Sprintf("Usage: `%sdm @user1 @user2 your message here`", d.prefix))
		return
	}

	message := strings.Join(stripMentionTokens(inv.Args), " ")
	if message == "" {
		d.say(ctx, inv, "What should I say? Add a message after the mentions! 💬")
		return
	}

	sent := 0
	for i := range inv.MentionedUsers {
		target := &inv.MentionedUsers[i]

		member, err := d.guildRepo.MemberInfo(ctx, inv.GuildID, target.UserID)
		if err != nil {
			member = target
		}

		text := renderResult(d.generate.Generate(ctx, d.prompts.DMPrompt(message, member)))
		if err := d.chatRepo.SendDM(ctx, target.UserID, text); err != nil {
			d.say(ctx, inv, fmt.Sprintf("Couldn't DM %s - they might have DMs disabled 😔", target.Name))
			continue
		}
		sent++
	}

	d.audit.Log(ctx, inv.GuildID, AuditAdmin, "DM Sent", inv.AuthorName,
		fmt.Sprintf("%d members", sent), truncate(message, 100))
	d.say(ctx, inv, fmt.Sprintf("Sent personalized DMs to %d members! 📨", sent))
}

func (d *CommandDispatcher) handleMassDM(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	if len(inv.MentionedRoleIDs) == 0 {
		d.say(ctx, inv, fmt.Sprintf("Usage: `%smass_dm @role your message here`", d.prefix))
		return
	}
	roleID := inv.MentionedRoleIDs[0]

	message := strings.Join(stripMentionTokens(inv.Args), " ")
	if message == "" {
		d.say(ctx, inv, "What should I say? Add a message after the role mention! 💬")
		return
	}

	members, err := d.guildRepo.MembersWithRole(ctx, inv.GuildID, roleID)
	if err != nil || len(members) == 0 {
		d.say(ctx, inv, fmt.Sprintf("No members found with the role <@&%s> 😕", roleID))
		return
	}

	statusID, err := d.chatRepo.SendText(ctx, inv.ChannelID, fmt.Sprintf("Sending DMs to %d members... 🚀", len(members)))
	if err != nil {
		fmt.Printf("[Commands] Failed to send mass DM status: %v\n", err)
	}

	succeeded, failed := 0, 0
	for i := range members {
		member := &members[i]

		text := renderResult(d.generate.Generate(ctx, d.prompts.MassDMPrompt(message, member)))
		if err := d.chatRepo.SendDM(ctx, member.UserID, text); err != nil {
			failed++
		} else {
			succeeded++
		}

		d.sleep(massDMPace)
	}

	roleName, _ := d.guildRepo.RoleName(ctx, inv.GuildID, roleID)
	d.audit.Log(ctx, inv.GuildID, AuditAdmin, "Mass DM", inv.AuthorName,
		fmt.Sprintf("Role: %s, Recipients: %d", roleName, len(members)), truncate(message, 100))

	report := fmt.Sprintf("DM campaign complete! ✅\nSuccessful: %d\nFailed: %d", succeeded, failed)
	if statusID != "" {
		if err := d.chatRepo.EditText(ctx, inv.ChannelID, statusID, report); err != nil {
			d.say(ctx, inv, report)
		}
		return
	}
	d.say(ctx, inv, report)
}
