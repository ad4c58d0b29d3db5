// Package siteparser turns links into BI tools (Mode, Sigma, QuickSight)
// into catalog lookup facets.
//
// Each vendor is a Vendor: a hostname matcher paired with a path parser.
// Vendors live in a Registry ordered by priority, and a SiteParser picks
// the first vendor whose host matches the link, or whose name equals the
// caller's custom type override.
package siteparser

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"sitelink/internal/facets"
)

// DefaultPriority is the default priority for vendors.
// Higher priority vendors are checked first.
const DefaultPriority = 100

// DefaultTenant is the qualified-name prefix used when none is configured.
const DefaultTenant = "default"

// Options controls how identifiers are turned into facets.
type Options struct {
	// Tenant prefixes connector qualified names ("<tenant>/mode").
	Tenant string
	// AllowEmptyIDs keeps the legacy behavior where some branches build
	// facets around an empty identifier instead of returning nil.
	AllowEmptyIDs bool
}

func (o Options) tenant() string {
	if o.Tenant == "" {
		return DefaultTenant
	}
	return o.Tenant
}

// ResourceContext carries vendor specific hints from the host application.
type ResourceContext struct {
	// SelectedPage is the Sigma page the user currently has open.
	SelectedPage string `json:"selectedPage,omitempty"`
}

// Metadata is the caller supplied context for a parse.
type Metadata struct {
	// CustomType forces a vendor by name regardless of hostname.
	CustomType              string          `json:"customType,omitempty"`
	ResourceSpecificContext ResourceContext `json:"resourceSpecificContext"`
}

// Vendor pairs a hostname matcher with a URL parser for one BI tool.
type Vendor interface {
	// Name returns the vendor identifier used by Metadata.CustomType.
	Name() string
	// Priority returns the vendor priority (higher = checked first).
	Priority() int
	// MatchesHost reports whether hostname belongs to this vendor.
	MatchesHost(hostname string) bool
	// Parse extracts facets from u, or returns nil.
	Parse(u *url.URL, md Metadata, opts Options) *facets.Result
}

// hostVendor matches hostnames by substring, the way every built-in
// vendor recognizes its links.
type hostVendor struct {
	name     string
	priority int
	marker   string
	parse    func(u *url.URL, md Metadata, opts Options) *facets.Result
}

func (v *hostVendor) Name() string  { return v.name }
func (v *hostVendor) Priority() int { return v.priority }

// Host returns the hostname marker the vendor matches on.
func (v *hostVendor) Host() string { return v.marker }

func (v *hostVendor) MatchesHost(hostname string) bool {
	return strings.Contains(strings.ToLower(hostname), v.marker)
}

func (v *hostVendor) Parse(u *url.URL, md Metadata, opts Options) *facets.Result {
	return v.parse(u, md, opts)
}

// Registry manages registered vendors.
type Registry struct {
	mu      sync.RWMutex
	vendors []Vendor
}

var defaultRegistry = newBuiltinRegistry()

// NewRegistry creates a new empty vendor registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns the registry holding the built-in vendors.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func newBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register(ModeVendor())
	r.Register(SigmaVendor())
	r.Register(QuickSightVendor())
	return r
}

// Register adds a vendor to the registry.
func (r *Registry) Register(v Vendor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vendors = append(r.vendors, v)
	r.sortByPriority()
}

func (r *Registry) sortByPriority() {
	sort.SliceStable(r.vendors, func(i, j int) bool {
		return r.vendors[i].Priority() > r.vendors[j].Priority()
	})
}

// Vendors returns a copy of all registered vendors in priority order.
func (r *Registry) Vendors() []Vendor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Vendor, len(r.vendors))
	copy(result, r.vendors)
	return result
}

// FindByName returns the vendor with the given name.
func (r *Registry) FindByName(name string) Vendor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.vendors {
		if strings.EqualFold(v.Name(), name) {
			return v
		}
	}
	return nil
}

// Select returns the first vendor whose host matches hostname or whose
// name equals customType.
func (r *Registry) Select(hostname, customType string) Vendor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.vendors {
		if v.MatchesHost(hostname) || (customType != "" && strings.EqualFold(v.Name(), customType)) {
			return v
		}
	}
	return nil
}

// Parse is the one-shot form of SiteParser: it normalizes rawURL, selects
// a vendor and returns its result. Unrecognized links yield nil.
func (r *Registry) Parse(rawURL string, md Metadata, opts Options) *facets.Result {
	p := New(r, opts)
	p.SetURL(rawURL)
	p.SetMetadata(md)
	return p.Parsed()
}

// Parse runs Registry.Parse against the built-in vendors.
func Parse(rawURL string, md Metadata, opts Options) *facets.Result {
	return defaultRegistry.Parse(rawURL, md, opts)
}
