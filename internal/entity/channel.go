package entity

// ShopChannel is one configured sales channel endpoint (main storefront,
// point-of-sale, vending machines, B2B portal). Loaded once at startup,
// never mutated.
type ShopChannel struct {
	ID       string
	ShopHost string // admin API host, e.g. "store.myshopify.com"
	Token    string // admin API access token
	// ChannelTag scopes order queries to this channel when set. The main
	// storefront channel leaves it empty and matches everything.
	ChannelTag string
}

// Usable reports whether the channel carries enough configuration to reach
// the upstream API. A channel that resolves but is not usable is a
// configuration error, not a runtime one.
func (c ShopChannel) Usable() bool {
	return c.ShopHost != "" && c.Token != ""
}
