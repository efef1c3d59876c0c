// Package ascii provides low-level scanning helpers for the Cadence SDAX
// ascii file format. The format interleaves tagged cells ("< 25 />",
// "< Style2 />") with a property stream of name/value markers:
//
//	<n pageBorderSize n/>  < 1 />  < 1 />  <v B v/>
//
// Higher-level fragment readers build on these helpers; this package knows
// nothing about what the properties mean.
package ascii

import (
	"fmt"
	"regexp"
	"sync"
)

// Prop is one name/value property occurrence with its byte offset in the
// scanned content. Offsets let callers correlate properties with nearby
// structural matches.
type Prop struct {
	Name   string
	Value  string
	Offset int
}

var (
	namePattern  = regexp.MustCompile(`<n\s+([A-Za-z_][A-Za-z0-9_]*)\s+n/>`)
	valuePattern = regexp.MustCompile(`<v\s*(.*?)\s*v/>`)
)

// ScanProps extracts every name/value property pair from content in file
// order. Each name marker is paired with the first value marker that follows
// it and precedes the next name marker; name markers with no such value are
// dropped.
func ScanProps(content string) []Prop {
	names := namePattern.FindAllStringSubmatchIndex(content, -1)
	values := valuePattern.FindAllStringSubmatchIndex(content, -1)

	var props []Prop
	vi := 0
	for i, nm := range names {
		nameEnd := nm[1]
		limit := len(content)
		if i+1 < len(names) {
			limit = names[i+1][0]
		}
		for vi < len(values) && values[vi][0] < nameEnd {
			vi++
		}
		if vi >= len(values) || values[vi][0] >= limit {
			continue
		}
		vm := values[vi]
		props = append(props, Prop{
			Name:   content[nm[2]:nm[3]],
			Value:  content[vm[2]:vm[3]],
			Offset: nm[0],
		})
		vi++
	}
	return props
}

var (
	propRegexMu    sync.Mutex
	propRegexCache = map[string]*regexp.Regexp{}
)

// propPattern returns (and caches) the regexp matching a named property and
// capturing its value. The two skipped cells between marker and value carry
// type and length information we do not need.
func propPattern(name string) *regexp.Regexp {
	propRegexMu.Lock()
	defer propRegexMu.Unlock()
	if re, ok := propRegexCache[name]; ok {
		return re
	}
	re := regexp.MustCompile(fmt.Sprintf(
		`<n\s+%s\s+n/>\s*<[^>]+>\s*<[^>]+>\s*<v\s*(.*?)\s*v/>`, regexp.QuoteMeta(name)))
	propRegexCache[name] = re
	return re
}

// FindProp returns the first value of the named property in content.
func FindProp(content, name string) (string, bool) {
	m := propPattern(name).FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FindPropNear returns the value of the named property inside the window
// [lo-radius, hi+radius), clamped to the content bounds. Page-geometry
// records store their rotation/transform/z-order properties close to the
// record itself, so a bounded search avoids picking up a neighbor's value.
func FindPropNear(content, name string, lo, hi, radius int) (string, bool) {
	return FindProp(Window(content, lo, hi, radius), name)
}

// Window returns the substring of content covering [lo-radius, hi+radius),
// clamped to valid bounds.
func Window(content string, lo, hi, radius int) string {
	start := lo - radius
	if start < 0 {
		start = 0
	}
	end := hi + radius
	if end > len(content) {
		end = len(content)
	}
	if start >= end {
		return ""
	}
	return content[start:end]
}
