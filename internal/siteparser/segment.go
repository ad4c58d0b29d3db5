package siteparser

import "strings"

// segmentAfter returns the n-th "/"-delimited segment (0-based) of the
// text between the first and second occurrence of marker in path.
// ok reports whether marker occurs at all; a missing segment is "".
func segmentAfter(path, marker string, n int) (segment string, ok bool) {
	if !strings.Contains(path, marker) {
		return "", false
	}
	rest := strings.Split(path, marker)[1]
	segments := strings.Split(rest, "/")
	if n < len(segments) {
		return segments[n], true
	}
	return "", true
}

// slugID returns the trailing "-"-delimited token of a slug such as
// "Quarterly-Revenue-4fRn2x". A slug without "-" is returned unchanged.
func slugID(slug string) string {
	if i := strings.LastIndex(slug, "-"); i >= 0 {
		return slug[i+1:]
	}
	return slug
}
