// Package version exposes the release version of the watchlist binaries
package version

import (
	_ "embed" // for go:embed
	"strconv"
	"strings"
)

// VERSION holds the release version, e.g. 0.1.0 or 0.2.0-pr1
//
//go:embed VERSION
var VERSION string

// Version segments
var (
	MAJOR int
	MINOR int
	FIX   int
	PRE   int
)

func init() {
	VERSION = strings.TrimSpace(VERSION)
	MAJOR, MINOR, FIX, PRE = parse(VERSION)
}

func parse(v string) (major, minor, fix, pre int) {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) != 3 {
		return
	}
	major, _ = strconv.Atoi(parts[0])
	minor, _ = strconv.Atoi(parts[1])
	fixPart, prePart, hasPre := strings.Cut(parts[2], "-")
	fix, _ = strconv.Atoi(fixPart)
	if hasPre {
		pre, _ = strconv.Atoi(strings.TrimPrefix(prePart, "pr"))
	}
	return
}
