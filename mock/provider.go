// Package mock provides test doubles for bot interfaces using function fields.
package mock

import (
	"context"

	"github.com/botkit/bot"
)

// Interface compliance check.
var _ bot.Provider = (*Provider)(nil)

// Provider is a test double for bot.Provider.
// Set GenerateFn before calling Generate.
type Provider struct {
	GenerateFn func(ctx context.Context, req bot.Request) (bot.AssistantMessage, error)
}

// Generate delegates to GenerateFn.
func (p *Provider) Generate(ctx context.Context, req bot.Request) (bot.AssistantMessage, error) {
	return p.GenerateFn(ctx, req)
}
