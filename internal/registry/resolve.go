package registry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// ErrUnreachable indicates a guild could not be resolved through any stage
// of the fallback chain.
var ErrUnreachable = errors.New("registry: guild unreachable")

// ResolvedGuild is the result of a successful guild resolution. ExistsOnly
// is true when only the stage-3 REST probe succeeded: the guild exists, but
// no full handle is available for member or permission lookups.
type ResolvedGuild struct {
	ID         string
	Guild      *discordgo.Guild
	ExistsOnly bool
}

// Resolve resolves a guild through a three-stage fallback chain: gateway
// state cache, authenticated live fetch, then a bare REST probe. Each stage
// is tried only after the previous one failed. Returns ErrUnreachable when
// all three fail.
func (c *Client) Resolve(ctx context.Context, guildID string) (*ResolvedGuild, error) {
	if guildID == "" {
		return nil, fmt.Errorf("registry: guild id is required")
	}

	// Stage 1: gateway state cache.
	if g, err := c.sess.StateGuild(guildID); err == nil && g != nil {
		return &ResolvedGuild{ID: guildID, Guild: g}, nil
	}

	// Stage 2: authenticated live fetch through the gateway client.
	fetchCtx, cancel := context.WithTimeout(ctx, callTimeout)
	g, err := c.sess.Guild(guildID, discordgo.WithContext(fetchCtx))
	cancel()
	if err == nil && g != nil {
		return &ResolvedGuild{ID: guildID, Guild: g}, nil
	}

	// Stage 3: REST probe. Confirms existence only; member and permission
	// lookups are unavailable on this path.
	if c.probeGuild(ctx, guildID) {
		return &ResolvedGuild{ID: guildID, ExistsOnly: true}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnreachable, guildID)
}

// probeGuild performs a direct HTTPS GET against the guild endpoint using
// the bot token. Any non-200 response or transport error counts as a miss.
func (c *Client) probeGuild(ctx context.Context, guildID string) bool {
	url := fmt.Sprintf("%s/guilds/%s", c.probeBaseURL, guildID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("registry: guild probe %s: %v", guildID, err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
