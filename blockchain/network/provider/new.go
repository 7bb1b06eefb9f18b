package provider

import (
	"fmt"
	"net/url"
)

// New provider from the url.
// The url must be an absolute http, https, ws or wss address.
func New(raw_url string) (Provider, error) {
	if len(raw_url) == 0 {
		return Provider{}, fmt.Errorf("empty url or its missing")
	}

	u, err := url.ParseRequestURI(raw_url)
	if err != nil {
		return Provider{}, fmt.Errorf("invalid '%s' provider url: %w", raw_url, err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return Provider{}, fmt.Errorf("invalid '%s' provider protocol. Expected 'http', 'https', 'ws' or 'wss'. But given '%s'", raw_url, u.Scheme)
	}
	if len(u.Host) == 0 {
		return Provider{}, fmt.Errorf("the '%s' provider has no host", raw_url)
	}

	return Provider{Url: raw_url}, nil
}

// NewList creates the list of providers from the urls
func NewList(urls []string) ([]Provider, error) {
	providers := make([]Provider, len(urls))

	for i, raw_url := range urls {
		provider, err := New(raw_url)
		if err != nil {
			return nil, fmt.Errorf("providers[%d]: %w", i, err)
		}

		providers[i] = provider
	}

	return providers, nil
}

// Validate the provider that was decoded from the file.
func (provider Provider) Validate() error {
	_, err := New(provider.Url)
	return err
}
