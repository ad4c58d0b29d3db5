package siteparser

import (
	"net/url"

	"github.com/rs/zerolog"

	"sitelink/internal/facets"
	"sitelink/internal/httputil"
)

// SiteParser holds a link and its metadata and derives the parse result
// from them on demand. Derived values are memoized and recomputed only
// after SetURL or SetMetadata changes an input. A SiteParser is not safe
// for concurrent use.
type SiteParser struct {
	registry *Registry
	opts     Options
	logger   zerolog.Logger

	rawURL   string
	metadata Metadata

	urlFresh  bool
	parsedURL *url.URL

	resultFresh bool
	vendor      Vendor
	result      *facets.Result
}

// New creates a SiteParser over registry. A nil registry means the
// built-in vendors.
func New(registry *Registry, opts Options) *SiteParser {
	if registry == nil {
		registry = defaultRegistry
	}
	return &SiteParser{
		registry: registry,
		opts:     opts,
		logger:   zerolog.Nop(),
	}
}

// WithLogger sets the logger used for dispatch decisions.
func (p *SiteParser) WithLogger(logger zerolog.Logger) *SiteParser {
	p.logger = logger
	return p
}

// SetURL replaces the link being parsed.
func (p *SiteParser) SetURL(rawURL string) {
	if p.urlFresh && rawURL == p.rawURL {
		return
	}
	p.rawURL = rawURL
	p.urlFresh = false
	p.resultFresh = false
}

// SetMetadata replaces the caller context.
func (p *SiteParser) SetMetadata(md Metadata) {
	if md == p.metadata {
		return
	}
	p.metadata = md
	p.resultFresh = false
}

// Metadata returns the current caller context.
func (p *SiteParser) Metadata() Metadata {
	return p.metadata
}

// URL returns the normalized link, or nil if it could not be parsed.
func (p *SiteParser) URL() *url.URL {
	if p.urlFresh {
		return p.parsedURL
	}

	u, err := httputil.NormalizeURL(p.rawURL)
	if err != nil {
		p.logger.Debug().Err(err).Str("url", p.rawURL).Msg("Link did not parse")
		u = nil
	}
	p.parsedURL = u
	p.urlFresh = true
	return p.parsedURL
}

// IsVendorURL reports whether the link's hostname belongs to the named
// vendor. The custom type override is not considered.
func (p *SiteParser) IsVendorURL(name string) bool {
	u := p.URL()
	if u == nil {
		return false
	}
	v := p.registry.FindByName(name)
	return v != nil && v.MatchesHost(u.Hostname())
}

// Vendor returns the vendor chosen for the current inputs, or nil.
func (p *SiteParser) Vendor() Vendor {
	p.evaluate()
	return p.vendor
}

// Parsed returns the facets for the current inputs, or nil when the link
// is not recognized. The returned value is shared and must not be modified.
func (p *SiteParser) Parsed() *facets.Result {
	p.evaluate()
	return p.result
}

func (p *SiteParser) evaluate() {
	if p.resultFresh {
		return
	}
	p.vendor, p.result = nil, nil

	if u := p.URL(); u != nil {
		p.vendor = p.registry.Select(u.Hostname(), p.metadata.CustomType)
		if p.vendor != nil {
			p.result = p.vendor.Parse(u, p.metadata, p.opts)
		}
	}
	p.resultFresh = true

	event := p.logger.Debug().Str("url", p.rawURL)
	if p.vendor != nil {
		event = event.Str("vendor", p.vendor.Name())
	}
	if p.result != nil {
		event = event.Str("type_name", p.result.TypeName.String())
	}
	event.Msg("Resolved link")
}
