package registry

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// ErrUnauthorized indicates the bot member lacks the application-commands
// capability in a guild.
var ErrUnauthorized = errors.New("registry: bot lacks application command permission")

// Authorize checks whether the bot can register commands in a resolved
// guild. It requires a full handle; for exists-only resolutions the check is
// skipped (nil). Lookup failures do not fail closed: the registry call
// itself is the final arbiter, so we log and allow rather than silently
// skipping a guild that should sync.
func (c *Client) Authorize(ctx context.Context, rg *ResolvedGuild) error {
	if rg == nil {
		return fmt.Errorf("registry: resolved guild is required")
	}
	if rg.ExistsOnly || rg.Guild == nil {
		return nil
	}

	botID := c.BotUserID()
	if botID == "" {
		log.Printf("registry: authorize %s: bot user id unknown, allowing", rg.ID)
		return nil
	}

	memberCtx, cancel := context.WithTimeout(ctx, callTimeout)
	member, err := c.sess.GuildMember(rg.ID, botID, discordgo.WithContext(memberCtx))
	cancel()
	if err != nil {
		log.Printf("registry: authorize %s: member lookup failed, allowing: %v", rg.ID, err)
		return nil
	}

	perms := memberPermissions(rg.Guild, member)
	if perms&discordgo.PermissionAdministrator != 0 {
		return nil
	}
	if perms&discordgo.PermissionUseSlashCommands != 0 {
		return nil
	}
	return fmt.Errorf("%w: guild %s", ErrUnauthorized, rg.ID)
}

// memberPermissions folds the guild-level permissions of a member: the
// @everyone role (whose id equals the guild id) plus each of the member's
// roles.
func memberPermissions(g *discordgo.Guild, m *discordgo.Member) int64 {
	var perms int64
	for _, role := range g.Roles {
		if role.ID == g.ID {
			perms |= role.Permissions
		}
	}
	for _, roleID := range m.Roles {
		for _, role := range g.Roles {
			if role.ID == roleID {
				perms |= role.Permissions
				break
			}
		}
	}
	return perms
}
