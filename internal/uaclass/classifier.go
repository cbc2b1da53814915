// Package uaclass wraps user-agent detection behind a single function so
// the ingestion pipeline never sees the library types.
package uaclass

import "github.com/mileusna/useragent"

// Classify returns the browser and OS names for a raw user-agent string.
// A nil or empty input yields (nil, nil), and a field the detector cannot
// name stays nil rather than becoming an empty string.
func Classify(ua *string) (browser, os *string) {
	if ua == nil || *ua == "" {
		return nil, nil
	}
	parsed := useragent.Parse(*ua)
	if parsed.Name != "" {
		name := parsed.Name
		browser = &name
	}
	if parsed.OS != "" {
		osName := parsed.OS
		os = &osName
	}
	return browser, os
}
