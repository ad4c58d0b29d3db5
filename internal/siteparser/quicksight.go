package siteparser

import (
	"net/url"
	"strings"

	"sitelink/internal/facets"
)

const (
	quickSightName     = "quicksight"
	quickSightHost     = "quicksight.aws.amazon"
	quickSightPriority = 100
)

// QuickSightVendor returns the Amazon QuickSight vendor.
func QuickSightVendor() Vendor {
	return &hostVendor{
		name:     quickSightName,
		priority: quickSightPriority,
		marker:   quickSightHost,
		parse: func(u *url.URL, _ Metadata, opts Options) *facets.Result {
			return ParseQuickSightURL(u, opts)
		},
	}
}

// ParseQuickSightURL checks the dashboards/, analyses/ and data-sets/
// markers in that order. Only the first marker present is considered.
func ParseQuickSightURL(u *url.URL, opts Options) *facets.Result {
	path := u.Path

	switch {
	case strings.Contains(path, "dashboards/"):
		// An empty dashboard id never falls through to the other markers.
		id, _ := segmentAfter(path, "dashboards/", 0)
		if id == "" {
			return nil
		}
		return quickSightResult(id, facets.QuickSightDashboard)

	case strings.Contains(path, "analyses/"):
		id, _ := segmentAfter(path, "analyses/", 0)
		if id == "" && !opts.AllowEmptyIDs {
			return nil
		}
		return quickSightResult(id, facets.QuickSightAnalysis)

	case strings.Contains(path, "data-sets/"):
		id, _ := segmentAfter(path, "data-sets/", 0)
		if id == "" && !opts.AllowEmptyIDs {
			return nil
		}
		return quickSightResult(id, facets.QuickSightDataset)
	}

	return nil
}

func quickSightResult(id string, typeName facets.TypeName) *facets.Result {
	return facets.New(facets.EndsWithFacets(facets.DatabaseQualifiedName, id), typeName)
}
