package service

import (
	"context"
	"strconv"
	"strings"
)

const (
	untitledSlug = "untitled"
	// slug probing gives up after this many suffixes and lets the unique index decide
	maxSlugAttempts = 1000
)

// Slugify lowercases s, collapses every run of characters outside [a-z0-9] into a single
// hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// uniqueSlug returns base, or base-1, base-2, ... whichever is the first not taken.
func uniqueSlug(ctx context.Context, base string, taken func(ctx context.Context, slug string) (bool, error)) (string, error) {
	if base == "" {
		base = untitledSlug
	}

	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}

	return candidate, nil
}
