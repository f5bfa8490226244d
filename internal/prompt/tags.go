package prompt

import (
	"slices"
	"strings"
	"time"
)

// TagStat holds usage information for a single tag.
type TagStat struct {
	Tag      string     `json:"tag"`
	Count    int        `json:"count"`
	LastUsed *time.Time `json:"last_used,omitempty"`
}

// Stats counts tags across prompts, keeping the most recent use of each.
//
// Result is sorted by count, then by last use (used before never used), then
// by name.
func Stats(ps []*Prompt) []TagStat {
	idx := make(map[string]int)
	stats := make([]TagStat, 0)

	for _, p := range ps {
		for _, tag := range p.Tags {
			i, ok := idx[tag]
			if !ok {
				idx[tag] = len(stats)
				stats = append(stats, TagStat{Tag: tag, Count: 1, LastUsed: p.LastUsed})

				continue
			}

			st := &stats[i]
			st.Count++
			if p.LastUsed != nil && (st.LastUsed == nil || p.LastUsed.After(*st.LastUsed)) {
				st.LastUsed = p.LastUsed
			}
		}
	}

	slices.SortStableFunc(stats, compareStats)

	return stats
}

func compareStats(a, b TagStat) int {
	if a.Count != b.Count {
		return b.Count - a.Count
	}

	switch {
	case a.LastUsed != nil && b.LastUsed != nil:
		if c := b.LastUsed.Compare(*a.LastUsed); c != 0 {
			return c
		}
	case a.LastUsed != nil:
		return -1
	case b.LastUsed != nil:
		return 1
	}

	return strings.Compare(a.Tag, b.Tag)
}

// FilterTags returns up to limit tag names, in stats order, that contain
// query (case-insensitive) and are not excluded. A blank query matches
// every tag. A limit <= 0 means no limit.
func FilterTags(stats []TagStat, query string, exclude []string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	tags := make([]string, 0, len(stats))

	for _, st := range stats {
		if slices.Contains(exclude, st.Tag) {
			continue
		}

		if q != "" && !strings.Contains(strings.ToLower(st.Tag), q) {
			continue
		}

		tags = append(tags, st.Tag)
		if limit > 0 && len(tags) == limit {
			break
		}
	}

	return tags
}

// Filter narrows prompts by a case-insensitive query. A query starting with
// '#' matches prompts carrying exactly that tag; any other query matches
// title, content or part of a tag. A blank query returns ps unchanged.
func Filter(ps []*Prompt, query string) []*Prompt {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ps
	}

	out := make([]*Prompt, 0, len(ps))
	if tag, ok := strings.CutPrefix(q, "#"); ok {
		for _, p := range ps {
			if p.HasTag(tag) {
				out = append(out, p)
			}
		}

		return out
	}

	for _, p := range ps {
		if matchTags(p, q) ||
			strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Content), q) {
			out = append(out, p)
		}
	}

	return out
}

func matchTags(p *Prompt, q string) bool {
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}

	return false
}
