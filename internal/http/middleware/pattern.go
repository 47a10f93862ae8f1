package middleware

import (
	"regexp"
	"strings"
)

// pathPattern matches request paths against Ant-style patterns:
//
//	**            zero or more segments
//	*             exactly one segment
//	{name}        exactly one segment
//	{name:regex}  one segment matching regex
type pathPattern struct {
	raw      string
	segments []segment
}

type segmentKind int

const (
	segLiteral segmentKind = iota
	segOne
	segAny
	segRegex
)

type segment struct {
	kind    segmentKind
	literal string
	re      *regexp.Regexp
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// mustPattern panics on a malformed regex; patterns are compile-time constants.
func mustPattern(raw string) pathPattern {
	parts := splitPath(raw)
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		switch {
		case part == "**":
			segs = append(segs, segment{kind: segAny})
		case part == "*":
			segs = append(segs, segment{kind: segOne})
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			inner := part[1 : len(part)-1]
			if _, expr, ok := strings.Cut(inner, ":"); ok {
				segs = append(segs, segment{kind: segRegex, re: regexp.MustCompile("^(?:" + expr + ")$")})
			} else {
				segs = append(segs, segment{kind: segOne})
			}
		default:
			segs = append(segs, segment{kind: segLiteral, literal: part})
		}
	}
	return pathPattern{raw: raw, segments: segs}
}

func (p pathPattern) Match(path string) bool {
	return matchSegments(p.segments, splitPath(path))
}

func matchSegments(pat []segment, parts []string) bool {
	for len(pat) > 0 {
		s := pat[0]
		if s.kind == segAny {
			rest := pat[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(parts); i++ {
				if matchSegments(rest, parts[i:]) {
					return true
				}
			}
			return false
		}
		if len(parts) == 0 {
			return false
		}
		switch s.kind {
		case segLiteral:
			if s.literal != parts[0] {
				return false
			}
		case segRegex:
			if !s.re.MatchString(parts[0]) {
				return false
			}
		}
		pat, parts = pat[1:], parts[1:]
	}
	return len(parts) == 0
}

func compilePatterns(raws ...string) []pathPattern {
	out := make([]pathPattern, len(raws))
	for i, r := range raws {
		out[i] = mustPattern(r)
	}
	return out
}

func matchAny(patterns []pathPattern, path string) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}
