// Package client is the public operation surface of the inventory service:
// reads, two-phase attribute writes, registration and deletion. It talks to
// the service directly and never goes through the cache.
package client

import (
	"context"
	"strings"
	"time"

	"github.com/crmarques/srvinv/debugctx"
	"github.com/crmarques/srvinv/inventory"
	"github.com/crmarques/srvinv/translator"
	"github.com/crmarques/srvinv/transport"
)

// SelfResolver derives this host's server id. ok is false when no id can be
// built.
type SelfResolver interface {
	ResolveSelf(ctx context.Context) (id string, ok bool)
}

type Client struct {
	transport transport.Transport
	self      SelfResolver
	now       func() time.Time
}

type Option func(*Client)

// WithSelfResolver enables the "self" id on the server collection.
func WithSelfResolver(resolver SelfResolver) Option {
	return func(c *Client) { c.self = resolver }
}

// WithClock sets the clock used to stamp registrations.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func New(transport transport.Transport, opts ...Option) *Client {
	client := &Client{transport: transport, now: time.Now}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(client)
	}
	return client
}

// Get reads one object, or one of its attributes when attribute is not empty.
func (c *Client) Get(ctx context.Context, collection string, id string, attribute string) (inventory.FetchCode, inventory.Value) {
	id, ok := c.resolveID(ctx, collection, id)
	if !ok {
		return inventory.FetchIdentityUnresolved, inventory.Null()
	}
	return c.get(ctx, collection, id, attribute)
}

func (c *Client) get(ctx context.Context, collection string, id string, attribute string) (inventory.FetchCode, inventory.Value) {
	response := c.transport.Do(ctx, transport.Get(collection, id))
	return translator.Fetch(response, strings.TrimSpace(attribute))
}

// Set writes a caller-supplied raw value. The text is sniffed first: valid
// JSON is written as the structured value it encodes, anything else as a
// string.
func (c *Client) Set(ctx context.Context, collection string, id string, attribute string, raw string) inventory.PatchCode {
	return c.SetValue(ctx, collection, id, attribute, translator.SniffValue(raw))
}

// SetValue confirms the object exists and then patches the attribute. The
// PATCH is never sent when the existence check fails.
func (c *Client) SetValue(ctx context.Context, collection string, id string, attribute string, value inventory.Value) inventory.PatchCode {
	id, ok := c.resolveID(ctx, collection, id)
	if !ok {
		return inventory.PatchIdentityUnresolved
	}
	return c.setValue(ctx, collection, id, attribute, value)
}

func (c *Client) setValue(ctx context.Context, collection string, id string, attribute string, value inventory.Value) inventory.PatchCode {
	code, proceed := translator.PatchCheck(c.transport.Do(ctx, transport.Get(collection, id)))
	if !proceed {
		return code
	}

	body, err := translator.PatchBody(value)
	if err != nil {
		debugctx.Logger(ctx).V(debugctx.LevelWarn).Info("patch body could not be encoded", "error", err.Error())
		return inventory.PatchRejected
	}
	return translator.Patch(c.transport.Do(ctx, transport.Patch(collection, id, attribute, body)))
}

// Register creates a new object named id, stamped with the current UTC time.
func (c *Client) Register(ctx context.Context, collection string, id string) inventory.RegisterCode {
	id, ok := c.resolveID(ctx, collection, id)
	if !ok {
		return inventory.RegisterIdentityUnresolved
	}

	body, err := translator.RegisterBody(id, c.now())
	if err != nil {
		debugctx.Logger(ctx).V(debugctx.LevelWarn).Info("registration body could not be encoded", "error", err.Error())
		return inventory.RegisterFailed
	}
	return translator.Register(c.transport.Do(ctx, transport.Post(collection, body)))
}

func (c *Client) Delete(ctx context.Context, collection string, id string) inventory.DeleteCode {
	id, ok := c.resolveID(ctx, collection, id)
	if !ok {
		return inventory.DeleteIdentityUnresolved
	}
	return translator.Delete(c.transport.Do(ctx, transport.Delete(collection, id)))
}

// resolveID replaces the self id on the server collection. Other ids and
// collections pass through unchanged.
func (c *Client) resolveID(ctx context.Context, collection string, id string) (string, bool) {
	id = strings.TrimSpace(id)
	if id != inventory.SelfID || !inventory.IsServers(collection) {
		return id, true
	}
	if c.self == nil {
		return "", false
	}

	resolved, ok := c.self.ResolveSelf(ctx)
	resolved = strings.TrimSpace(resolved)
	if !ok || resolved == "" {
		return "", false
	}
	debugctx.Logger(ctx).V(debugctx.LevelRequest).Info("resolved self id", "id", resolved)
	return resolved, true
}
