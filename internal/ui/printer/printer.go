// Package printer formats prompts and tag statistics for the terminal.
package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mateconpizza/gp/internal/prompt"
)

const (
	UnicodeMiddleDot = "·" // ·
	onelineWidth     = 80
)

// Records prints each prompt as a block: id and title, tags, usage and the
// full content.
func Records(w io.Writer, ps []*prompt.Prompt, now time.Time) error {
	lastIdx := len(ps) - 1
	for i, p := range ps {
		if _, err := io.WriteString(w, Record(p, now)); err != nil {
			return fmt.Errorf("printing record: %w", err)
		}

		if i != lastIdx {
			fmt.Fprintln(w)
		}
	}

	return nil
}

// Record formats a single prompt.
func Record(p *prompt.Prompt, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s\n", p.ID, p.Title)

	if len(p.Tags) > 0 {
		fmt.Fprintf(&sb, "  %s\n", TagsWithPound(p.Tags))
	}

	used := "never used"
	if p.LastUsed != nil {
		used = "used " + RelativeTime(*p.LastUsed, now)
	}
	fmt.Fprintf(&sb, "  %s %s created %s\n", used, UnicodeMiddleDot, RelativeTime(p.CreatedAt, now))

	for _, line := range strings.Split(strings.TrimRight(p.Content, "\n"), "\n") {
		sb.WriteString("  | " + line + "\n")
	}

	return sb.String()
}

// Oneline prints one prompt per line.
func Oneline(w io.Writer, ps []*prompt.Prompt) error {
	for _, p := range ps {
		if _, err := fmt.Fprintln(w, OnelineRecord(p, onelineWidth)); err != nil {
			return fmt.Errorf("printing record: %w", err)
		}
	}

	return nil
}

// OnelineRecord formats p as `id title · first content line #tags`, the
// title and content shortened to fit width.
func OnelineRecord(p *prompt.Prompt, width int) string {
	const idPadding = 4

	id := fmt.Sprintf("%*s", idPadding, strconv.FormatInt(p.ID, 10))
	tags := TagsWithPound(p.Tags)

	avail := max(width-idPadding-len(tags)-2, 10)
	body := p.Title
	if first := firstLine(p.Content); first != "" {
		body += " " + UnicodeMiddleDot + " " + first
	}

	s := id + " " + Shorten(body, avail)
	if tags != "" {
		s += " " + tags
	}

	return s
}

// JSON writes v indented.
func JSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	if _, err := fmt.Fprintln(w, string(b)); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}

	return nil
}

// Tags prints tag statistics, one tag per line with its count.
func Tags(w io.Writer, stats []prompt.TagStat) error {
	width := 0
	for _, s := range stats {
		width = max(width, len(s.Tag))
	}

	for _, s := range stats {
		if _, err := fmt.Fprintf(w, "%-*s %d\n", width, s.Tag, s.Count); err != nil {
			return fmt.Errorf("printing tags: %w", err)
		}
	}

	return nil
}

// TagsWithPound returns a prettified tags with #.
//
//	#tag1 #tag2 #tag3
func TagsWithPound(tags []string) string {
	if len(tags) == 0 {
		return ""
	}

	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}

	return strings.Join(out, " ")
}

// Shorten shortens a string to a maximum number of runes.
//
//	string...
func Shorten(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}

	if maxLength <= 3 {
		return string(r[:maxLength])
	}

	return string(r[:maxLength-3]) + "..."
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}

	return s
}

// RelativeTime describes t relative to now, by calendar day.
//
//	"today", "yesterday", "3 days ago", "2 weeks ago"
func RelativeTime(t, now time.Time) string {
	t = t.Local()
	now = now.Local()

	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	now = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	days := int(now.Sub(t).Hours() / 24)

	switch {
	case days < 0:
		return "in the future"
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 14:
		return "1 week ago"
	case days < 28:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 60:
		return "1 month ago"
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	case days < 730:
		return "1 year ago"
	default:
		return fmt.Sprintf("%d years ago", days/365)
	}
}
