package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Exact patterns are tried before prefix patterns ending with "/".
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Special case: health check endpoint is unlimited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && matchSegments(config.Path, path) {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && matchPrefix(config.Path, path) {
			return config
		}
	}

	return nil
}

// matchSegments compares pattern and path segment by segment; "*" matches
// any single non-empty segment.
func matchSegments(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if !segmentMatches(ps[i], xs[i]) {
			return false
		}
	}
	return true
}

func matchPrefix(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(xs) <= len(ps) {
		return false
	}
	for i := range ps {
		if !segmentMatches(ps[i], xs[i]) {
			return false
		}
	}
	return true
}

func segmentMatches(pattern, segment string) bool {
	if pattern == "*" {
		return segment != ""
	}
	return pattern == segment
}
