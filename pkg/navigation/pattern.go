package navigation

import (
	"fmt"
	"net/url"
	"strings"
)

// PathPattern matches slash-separated paths.
//
// Patterns support:
//   - Static segments: "/products", "/users/list"
//   - Parameters: "/products/:id", "/users/:userId/posts/:postId"
//   - Wildcards: "/files/*path" (captures the remaining path, last segment only)
//
// Matching ignores a trailing slash and is case-sensitive for static
// segments.
type PathPattern struct {
	raw      string
	segments []patternSegment
}

type patternSegment struct {
	value    string
	param    bool
	wildcard bool
}

// ParsePathPattern compiles pattern.
func ParsePathPattern(pattern string) (*PathPattern, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("path pattern %q must start with /", pattern)
	}
	p := &PathPattern{raw: pattern}
	parts := splitPath(pattern)
	seen := make(map[string]bool, len(parts))
	for i, part := range parts {
		seg := patternSegment{value: part}
		switch {
		case strings.HasPrefix(part, ":"):
			seg.param = true
			seg.value = part[1:]
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return nil, fmt.Errorf("path pattern %q: wildcard must be the last segment", pattern)
			}
			seg.wildcard = true
			seg.value = part[1:]
		}
		if seg.param || seg.wildcard {
			if seg.value == "" {
				return nil, fmt.Errorf("path pattern %q: unnamed parameter", pattern)
			}
			if seen[seg.value] {
				return nil, fmt.Errorf("path pattern %q: duplicate parameter %q", pattern, seg.value)
			}
			seen[seg.value] = true
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

// String returns the source pattern.
func (p *PathPattern) String() string { return p.raw }

// Match matches path, which must not carry a query string, and returns the
// percent-decoded parameters.
func (p *PathPattern) Match(path string) (map[string]string, bool) {
	parts := splitPath(path)
	params := make(map[string]string)
	for i, seg := range p.segments {
		if seg.wildcard {
			rest, err := url.PathUnescape(strings.Join(parts[i:], "/"))
			if err != nil {
				return nil, false
			}
			params[seg.value] = rest
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		if seg.param {
			v, err := url.PathUnescape(parts[i])
			if err != nil {
				return nil, false
			}
			params[seg.value] = v
			continue
		}
		if parts[i] != seg.value {
			return nil, false
		}
	}
	if len(parts) != len(p.segments) {
		return nil, false
	}
	return params, true
}

// Expand substitutes ":name" segments of template with params.
func Expand(template string, params map[string]string) string {
	parts := strings.Split(template, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			if v, ok := params[part[1:]]; ok {
				parts[i] = v
			}
		}
	}
	return strings.Join(parts, "/")
}

// ParsePath splits a link into its path and decoded query.
func ParsePath(link string) (string, url.Values) {
	path := link
	if i := strings.Index(path, "#"); i >= 0 {
		path = path[:i]
	}
	var query url.Values
	if i := strings.Index(path, "?"); i >= 0 {
		query, _ = url.ParseQuery(path[i+1:])
		path = path[:i]
	}
	return path, query
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
