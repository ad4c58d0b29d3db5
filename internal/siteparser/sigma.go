package siteparser

import (
	"net/url"

	"sitelink/internal/facets"
)

const (
	sigmaName     = "sigma"
	sigmaHost     = "app.sigmacomputing.com"
	sigmaPriority = 200

	// sigmaNodeParam selects a data element within a workbook page.
	sigmaNodeParam = ":nodeId"
)

// SigmaVendor returns the Sigma Computing vendor. The page the user has
// open comes from Metadata.ResourceSpecificContext.SelectedPage.
func SigmaVendor() Vendor {
	return &hostVendor{
		name:     sigmaName,
		priority: sigmaPriority,
		marker:   sigmaHost,
		parse: func(u *url.URL, md Metadata, opts Options) *facets.Result {
			return ParseSigmaURL(u, md.ResourceSpecificContext.SelectedPage, opts)
		},
	}
}

// ParseSigmaURL recognizes workbook and dataset links:
//
//	/<org>/workbook/<slug>-<workbookId>[/page/<pageId>][?:nodeId=<elementId>]
//	/<org>/dataset/<slug>-<datasetId>
//
// selectedPage, when set, takes precedence over a /page/ segment.
func ParseSigmaURL(u *url.URL, selectedPage string, opts Options) *facets.Result {
	prefix := opts.tenant() + "/" + sigmaName

	if slug, ok := segmentAfter(u.Path, "/workbook/", 0); ok {
		workbookID := slugID(slug)
		if workbookID == "" && !opts.AllowEmptyIDs {
			return nil
		}

		pageID := selectedPage
		if pageID == "" {
			pageID, _ = segmentAfter(u.Path, "/page/", 0)
		}
		if pageID == "" {
			return facets.New(facets.QualifiedNameFacets(prefix, "/"+workbookID), facets.SigmaWorkbook)
		}

		if nodeID := u.Query().Get(sigmaNodeParam); nodeID != "" {
			suffix := "/" + workbookID + "/" + pageID + "/" + nodeID
			return facets.New(facets.QualifiedNameFacets(prefix, suffix), facets.SigmaDataElement)
		}
		return facets.New(facets.QualifiedNameFacets(prefix, "/"+workbookID+"/"+pageID), facets.SigmaPage)
	}

	if slug, ok := segmentAfter(u.Path, "/dataset/", 0); ok {
		datasetID := slugID(slug)
		if datasetID == "" && !opts.AllowEmptyIDs {
			return nil
		}
		return facets.New(facets.QualifiedNameFacets(prefix, "/"+datasetID), facets.SigmaDataset)
	}

	return nil
}
