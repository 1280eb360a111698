// Package registry talks to Discord's guild command registry: it resolves
// guilds through a cache/fetch/probe chain, checks the bot's registration
// capability, and bulk-overwrites per-guild application command sets.
package registry

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	// maxRetries is the max number of retries for rate-limited API calls.
	maxRetries = 3
	// baseBackoff is the initial backoff duration for rate-limit retries.
	baseBackoff = 2 * time.Second
	// maxBackoff caps the exponential backoff.
	maxBackoff = 2 * time.Minute
	// callTimeout bounds each individual Discord API call.
	callTimeout = 15 * time.Second
	// defaultProbeBaseURL is the REST endpoint used by the stage-3 guild probe.
	defaultProbeBaseURL = "https://discord.com/api/v10"
)

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	Open() error
	Close() error
	StateGuild(guildID string) (*discordgo.Guild, error)
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	AddHandler(handler interface{}) func()
}

// realSession wraps *discordgo.Session to implement the session interface.
type realSession struct {
	s *discordgo.Session
}

func (r *realSession) Open() error  { return r.s.Open() }
func (r *realSession) Close() error { return r.s.Close() }
func (r *realSession) StateGuild(guildID string) (*discordgo.Guild, error) {
	return r.s.State.Guild(guildID)
}
func (r *realSession) Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
	return r.s.Guild(guildID, options...)
}
func (r *realSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	return r.s.GuildMember(guildID, userID, options...)
}
func (r *realSession) ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	return r.s.ApplicationCommandBulkOverwrite(appID, guildID, commands, options...)
}
func (r *realSession) AddHandler(handler interface{}) func() {
	return r.s.AddHandler(handler)
}

// Client is the guild command registry client. It owns the gateway session
// and the REST fallback used when the gateway cannot see a guild.
type Client struct {
	sess         session
	botToken     string
	appID        string
	probeBaseURL string
	httpClient   *http.Client

	mu        sync.Mutex
	connected bool
	closed    bool
	botUserID string

	baseBackoff time.Duration
	maxBackoff  time.Duration
}

// Opts holds parameters for creating a registry Client.
type Opts struct {
	BotToken      string // Discord bot token
	ApplicationID string // application id commands are registered under
	// For testing: inject a mock session instead of real Discord API.
	Session session
	// For testing: override the REST probe base URL.
	ProbeBaseURL string
}

// New creates a registry Client.
func New(opts Opts) (*Client, error) {
	if opts.Session == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("registry: bot token is required")
	}
	if opts.ApplicationID == "" {
		return nil, fmt.Errorf("registry: application id is required")
	}

	c := &Client{
		botToken:     opts.BotToken,
		appID:        opts.ApplicationID,
		probeBaseURL: defaultProbeBaseURL,
		httpClient:   &http.Client{Timeout: callTimeout},
		baseBackoff:  baseBackoff,
		maxBackoff:   maxBackoff,
	}
	if opts.Session != nil {
		c.sess = opts.Session
	}
	if opts.ProbeBaseURL != "" {
		c.probeBaseURL = opts.ProbeBaseURL
	}
	return c, nil
}

// Connect establishes the Discord Gateway WebSocket connection so the guild
// state cache fills as guilds become available.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("registry: client already closed")
	}
	if c.connected {
		return nil
	}

	if c.sess == nil {
		dg, err := discordgo.New("Bot " + c.botToken)
		if err != nil {
			return fmt.Errorf("registry: create session: %w", err)
		}
		dg.Identify.Intents = discordgo.IntentsGuilds
		c.sess = &realSession{s: dg}
	}

	c.sess.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.botUserID = r.User.ID
		c.mu.Unlock()
		log.Printf("registry: connected as %s (ID: %s)", r.User.Username, r.User.ID)
	})
	c.sess.AddHandler(func(_ *discordgo.Session, d *discordgo.Disconnect) {
		log.Printf("registry: gateway disconnected, discordgo will auto-reconnect")
	})

	if err := c.sess.Open(); err != nil {
		return fmt.Errorf("registry: open gateway: %w", err)
	}

	c.connected = true
	return nil
}

// Close shuts down the gateway session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.connected = false
	if c.sess != nil {
		return c.sess.Close()
	}
	return nil
}

// BotUserID returns the bot's Discord user ID (available after Connect).
func (c *Client) BotUserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.botUserID
}

// SetBotUserID sets the bot user ID (used in tests).
func (c *Client) SetBotUserID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.botUserID = id
}

// retryOnRateLimit calls fn and retries with exponential backoff on Discord
// rate limit errors. It respects context cancellation.
func (c *Client) retryOnRateLimit(ctx context.Context, fn func() error) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		restErr, ok := err.(*discordgo.RESTError)
		if !ok || restErr.Response == nil || restErr.Response.StatusCode != http.StatusTooManyRequests {
			return err // not a rate limit error
		}

		if attempt == maxRetries {
			return err
		}

		wait := time.Duration(math.Pow(2, float64(attempt))) * c.baseBackoff
		if wait > c.maxBackoff {
			wait = c.maxBackoff
		}

		log.Printf("registry: rate limited (attempt %d/%d) — retrying in %v",
			attempt+1, maxRetries, wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil // unreachable
}
