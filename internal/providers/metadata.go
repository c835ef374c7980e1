package providers

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"mintshield/internal/domain"
)

// OffchainMetadata is the JSON document a token's metadata URI points at.
type OffchainMetadata struct {
	Name        string
	Symbol      string
	Description string
	Image       string
	Socials     domain.SocialLinks
}

// MetadataClient fetches off-chain metadata documents. URIs are arbitrary
// hosts so this client does not share a breaker with a single endpoint.
type MetadataClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
	// ipfsGateway rewrites ipfs:// URIs to an HTTP gateway.
	ipfsGateway string
}

// NewMetadataClient creates the off-chain metadata fetcher.
func NewMetadataClient(ipfsGateway string, logger zerolog.Logger) *MetadataClient {
	if ipfsGateway == "" {
		ipfsGateway = "https://ipfs.io/ipfs/"
	}
	return &MetadataClient{
		client:      &http.Client{Timeout: DefaultTimeout},
		breaker:     newBreaker("metadata"),
		log:         logger.With().Str("provider", "metadata").Logger(),
		ipfsGateway: ipfsGateway,
	}
}

type rawMetadataDoc struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Website     string `json:"website"`
	Twitter     string `json:"twitter"`
	Telegram    string `json:"telegram"`
	Discord     string `json:"discord"`
	ExternalURL string `json:"external_url"`
	Extensions  *struct {
		Website  string `json:"website"`
		Twitter  string `json:"twitter"`
		Telegram string `json:"telegram"`
		Discord  string `json:"discord"`
	} `json:"extensions"`
}

// Fetch downloads and parses the document at uri.
func (c *MetadataClient) Fetch(ctx context.Context, uri string) (*OffchainMetadata, error) {
	uri = c.rewriteURI(uri)
	if uri == "" {
		return nil, nil
	}

	var raw rawMetadataDoc
	if err := getJSON(ctx, c.client, c.breaker, uri, nil, &raw); err != nil {
		c.log.Debug().Err(err).Str("uri", uri).Msg("metadata fetch failed")
		return nil, err
	}

	meta := &OffchainMetadata{
		Name:        raw.Name,
		Symbol:      raw.Symbol,
		Description: raw.Description,
		Image:       raw.Image,
		Socials: domain.SocialLinks{
			Website:  firstNonEmpty(raw.Website, raw.ExternalURL),
			Twitter:  raw.Twitter,
			Telegram: raw.Telegram,
			Discord:  raw.Discord,
		},
	}
	if raw.Extensions != nil {
		meta.Socials.Website = firstNonEmpty(meta.Socials.Website, raw.Extensions.Website)
		meta.Socials.Twitter = firstNonEmpty(meta.Socials.Twitter, raw.Extensions.Twitter)
		meta.Socials.Telegram = firstNonEmpty(meta.Socials.Telegram, raw.Extensions.Telegram)
		meta.Socials.Discord = firstNonEmpty(meta.Socials.Discord, raw.Extensions.Discord)
	}
	return meta, nil
}

func (c *MetadataClient) rewriteURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if strings.HasPrefix(uri, "ipfs://") {
		return c.ipfsGateway + strings.TrimPrefix(uri, "ipfs://")
	}
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		return ""
	}
	return uri
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
