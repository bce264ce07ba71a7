package app

import (
	"regexp"
	"strings"
)

// Queries recorded on spans are collapsed to one line and truncated so
// a large games_data upsert does not bloat the trace payload.
const tracedQueryLimit = 512

var collapseWhitespace = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	flat := collapseWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(flat) > tracedQueryLimit {
		return flat[:tracedQueryLimit] + "..."
	}
	return flat
}
