package siteparser

import (
	"net/url"

	"sitelink/internal/facets"
)

const (
	modeName     = "mode"
	modeHost     = "app.mode.com"
	modePriority = 300
)

// ModeVendor returns the Mode Analytics vendor.
func ModeVendor() Vendor {
	return &hostVendor{
		name:     modeName,
		priority: modePriority,
		marker:   modeHost,
		parse: func(u *url.URL, _ Metadata, opts Options) *facets.Result {
			return ParseModeURL(u, opts)
		},
	}
}

// ParseModeURL recognizes collection and report links:
//
//	/<org>/spaces/<collectionId>[/...]
//	/<org>/reports/<spaceId>/<reportId>[/...]
func ParseModeURL(u *url.URL, opts Options) *facets.Result {
	prefix := opts.tenant() + "/" + modeName

	if collectionID, ok := segmentAfter(u.Path, "/spaces/", 0); ok {
		if collectionID == "" && !opts.AllowEmptyIDs {
			return nil
		}
		return facets.New(facets.QualifiedNameFacets(prefix, "/"+collectionID), facets.ModeCollection)
	}

	// The first segment after /reports/ is the space; the report id follows.
	if reportID, ok := segmentAfter(u.Path, "/reports/", 1); ok {
		if reportID == "" && !opts.AllowEmptyIDs {
			return nil
		}
		return facets.New(facets.QualifiedNameFacets(prefix, "/"+reportID), facets.ModeReport)
	}

	return nil
}
