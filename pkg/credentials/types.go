package credentials

import "sort"

// Credentials is the on-disk shape of .llmstream/credentials.toml. Providers
// is keyed by the provider name passed to --provider ("openai",
// "openrouter").
type Credentials struct {
	Version   int                           `toml:"version"`
	Providers map[string]ProviderCredential `toml:"providers"`
}

// ProviderCredential is the key sent as the bearer token to one provider.
type ProviderCredential struct {
	APIKey string `toml:"api_key"`
}

func newCredentials() *Credentials {
	return &Credentials{
		Version:   currentVersion,
		Providers: make(map[string]ProviderCredential),
	}
}

// Key returns the stored key for provider, or "" if none is stored.
func (c *Credentials) Key(provider string) string {
	return c.Providers[provider].APIKey
}

// Set stores key for provider.
func (c *Credentials) Set(provider, key string) {
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderCredential)
	}
	c.Providers[provider] = ProviderCredential{APIKey: key}
}

// Names returns the providers with a stored key, sorted.
func (c *Credentials) Names() []string {
	names := make([]string, 0, len(c.Providers))
	for name, pc := range c.Providers {
		if pc.APIKey != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
