package shops

import (
	"log/slog"

	"github.com/brewcap/capsule-metrics/internal/entity"
)

// Config lists the configured channels. Passed in explicitly so tests can
// inject fake channels; nothing here reads the process environment.
type Config struct {
	// Default is the channel id used when a caller omits one or asks for an
	// unknown id.
	Default  string          `mapstructure:"default"`
	Channels []ChannelConfig `mapstructure:"channels"`
}

type ChannelConfig struct {
	ID         string `mapstructure:"id"`
	ShopHost   string `mapstructure:"shop_host"`
	Token      string `mapstructure:"token"`
	ChannelTag string `mapstructure:"channel_tag"`
}

// Registry maps channel ids to their connection configuration. Built once
// at startup, read-only afterwards.
type Registry struct {
	byID map[string]entity.ShopChannel
	ids  []string
	def  string
}

func New(c *Config) *Registry {
	r := &Registry{
		byID: make(map[string]entity.ShopChannel, len(c.Channels)),
		def:  c.Default,
	}
	for _, cc := range c.Channels {
		if _, dup := r.byID[cc.ID]; dup {
			slog.Default().Warn("duplicate channel id in config, keeping first",
				slog.String("channel", cc.ID))
			continue
		}
		r.byID[cc.ID] = entity.ShopChannel{
			ID:         cc.ID,
			ShopHost:   cc.ShopHost,
			Token:      cc.Token,
			ChannelTag: cc.ChannelTag,
		}
		r.ids = append(r.ids, cc.ID)
	}
	return r
}

// Resolve returns the channel for id, falling back to the default channel
// when id is unknown or empty. Callers needing strict validation check
// Usable on the result themselves.
func (r *Registry) Resolve(id string) entity.ShopChannel {
	if ch, ok := r.byID[id]; ok {
		return ch
	}
	if id != "" {
		slog.Default().Warn("unknown channel id, using default",
			slog.String("channel", id),
			slog.String("default", r.def))
	}
	return r.byID[r.def]
}

// ChannelIDs returns the configured channel ids in configuration order.
func (r *Registry) ChannelIDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}
