package shopify

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/brewcap/capsule-metrics/internal/entity"
	cerr "github.com/brewcap/capsule-metrics/internal/errors"
)

const (
	defaultAPIVersion = "2024-10"
	defaultTimeout    = 30 * time.Second
	defaultPageSize   = 100
	// defaultMaxPages guards against runaway pagination on a misconfigured
	// filter. Hitting it is not an error; the partial set is returned.
	defaultMaxPages = 25
)

type Config struct {
	APIVersion string        `mapstructure:"api_version"`
	Timeout    time.Duration `mapstructure:"timeout"`
	PageSize   int           `mapstructure:"page_size"`
	MaxPages   int           `mapstructure:"max_pages"`
}

func (c *Config) apiVersion() string {
	if c.APIVersion == "" {
		return defaultAPIVersion
	}
	return c.APIVersion
}

func (c *Config) timeout() time.Duration {
	if c.Timeout == 0 {
		return defaultTimeout
	}
	return c.Timeout
}

func (c *Config) pageSize() int {
	if c.PageSize == 0 {
		return defaultPageSize
	}
	return c.PageSize
}

func (c *Config) maxPages() int {
	if c.MaxPages == 0 {
		return defaultMaxPages
	}
	return c.MaxPages
}

// Client talks to one channel's admin GraphQL endpoint.
type Client struct {
	c       *Config
	channel entity.ShopChannel
	cli     *resty.Client
}

// NewClient builds a client for the channel, failing fast when the channel
// is missing its host or token.
func NewClient(c *Config, channel entity.ShopChannel) (*Client, error) {
	if !channel.Usable() {
		return nil, fmt.Errorf("channel %q: %w", channel.ID, cerr.ErrChannelNotUsable)
	}

	cli := resty.New()
	cli.SetBaseURL(baseURL(channel.ShopHost, c.apiVersion()))
	cli.SetHeader("X-Shopify-Access-Token", channel.Token)
	cli.SetHeader("Content-Type", "application/json")
	cli.SetTimeout(c.timeout())

	return &Client{
		c:       c,
		channel: channel,
		cli:     cli,
	}, nil
}

// baseURL assumes https unless the host already carries a scheme, which
// test servers do.
func baseURL(host, apiVersion string) string {
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return fmt.Sprintf("%s/admin/api/%s", host, apiVersion)
}
