package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/kbraden/slashforge/internal/compiler"
	"github.com/kbraden/slashforge/internal/graph"
)

// MissingAccessError indicates the bulk overwrite was rejected because the
// bot was invited without the applications.commands scope.
type MissingAccessError struct {
	GuildID string
	Err     error
}

func (e *MissingAccessError) Error() string {
	return fmt.Sprintf("registry: guild %s rejected command registration: re-invite the bot with the applications.commands scope: %v", e.GuildID, e.Err)
}

func (e *MissingAccessError) Unwrap() error { return e.Err }

// Overwrite registers a guild's complete command set in one call. Whatever
// is sent becomes the full set: an empty list clears all commands.
func (c *Client) Overwrite(ctx context.Context, guildID string, cmds []compiler.Command) error {
	payload := make([]*discordgo.ApplicationCommand, 0, len(cmds))
	for _, cmd := range cmds {
		payload = append(payload, toApplicationCommand(cmd))
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	err := c.retryOnRateLimit(callCtx, func() error {
		_, apiErr := c.sess.ApplicationCommandBulkOverwrite(c.appID, guildID, payload, discordgo.WithContext(callCtx))
		return apiErr
	})
	if err == nil {
		return nil
	}

	if isMissingAccess(err) {
		return &MissingAccessError{GuildID: guildID, Err: err}
	}
	return fmt.Errorf("registry: overwrite commands for guild %s: %w", guildID, err)
}

// toApplicationCommand maps a compiled descriptor to the wire type.
func toApplicationCommand(cmd compiler.Command) *discordgo.ApplicationCommand {
	ac := &discordgo.ApplicationCommand{
		Type:        discordgo.ChatApplicationCommand,
		Name:        cmd.Name,
		Description: cmd.Description,
	}
	for _, opt := range cmd.Options {
		ac.Options = append(ac.Options, &discordgo.ApplicationCommandOption{
			Type:        optionTypeValue(opt.Type),
			Name:        opt.Name,
			Description: opt.Description,
			Required:    opt.Required,
		})
	}
	return ac
}

// optionTypeValue maps graph option types to the platform's numeric enum.
func optionTypeValue(t string) discordgo.ApplicationCommandOptionType {
	switch t {
	case graph.OptionString:
		return discordgo.ApplicationCommandOptionString
	case graph.OptionNumber:
		return discordgo.ApplicationCommandOptionNumber
	case graph.OptionUser:
		return discordgo.ApplicationCommandOptionUser
	case graph.OptionChannel:
		return discordgo.ApplicationCommandOptionChannel
	case graph.OptionRole:
		return discordgo.ApplicationCommandOptionRole
	}
	return discordgo.ApplicationCommandOptionString
}

// isMissingAccess reports whether err is Discord's missing-access rejection
// (HTTP 403, error code 50001), distinguished from generic failures so the
// operator gets an actionable remediation message.
func isMissingAccess(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeMissingAccess {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == 403
}
