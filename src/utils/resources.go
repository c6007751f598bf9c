package utils

import (
	"net/url"
	"strings"

	"portal/src/types"
)

func IsValidHTTPURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// NormalizeRequestResources canonicalizes the resource list carried by
// a request. Entries without a label or with a URL that is not an
// absolute http(s) URL are dropped silently; the list is best-effort
// metadata, never a reason to fail a write.
//
// Old rows predate the resource list and carry a single staging URL
// instead. When no list is present at all, a valid legacy URL is
// adapted into a single "Live Staging" entry. The adaptation happens
// at read time only; rows are never backfilled.
func NormalizeRequestResources(raw types.Resources, legacyUrl *string) types.Resources {
	if raw != nil {
		normalized := types.Resources{}
		for _, resource := range raw {
			label := strings.TrimSpace(resource.Label)
			resourceUrl := strings.TrimSpace(resource.URL)
			if label == "" || !IsValidHTTPURL(resourceUrl) {
				continue
			}
			normalized = append(normalized, types.Resource{Label: label, URL: resourceUrl})
		}
		return normalized
	}

	if legacyUrl != nil && IsValidHTTPURL(strings.TrimSpace(*legacyUrl)) {
		return types.Resources{{Label: "Live Staging", URL: strings.TrimSpace(*legacyUrl)}}
	}

	return types.Resources{}
}

// ResolveRequestResources is the read-path form: a stored row with no
// resource list falls back to its legacy staging URL.
func ResolveRequestResources(raw types.Resources, legacyUrl *string) types.Resources {
	if len(raw) == 0 {
		return NormalizeRequestResources(nil, legacyUrl)
	}
	return NormalizeRequestResources(raw, nil)
}
