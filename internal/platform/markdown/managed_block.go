package markdown

import "strings"

// Block is a region of a note body owned by the program. Text outside the
// markers belongs to the user and is kept across rewrites.
type Block struct {
	Start string
	End   string
}

// Replace swaps the block's content for generated, appending the block when
// body does not contain it yet.
func (b Block) Replace(body, generated string) string {
	block := b.Start + "\n" + generated + "\n" + b.End
	start := strings.Index(body, b.Start)
	end := strings.Index(body, b.End)
	if start >= 0 && end > start {
		return body[:start] + block + body[end+len(b.End):]
	}

	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}

// Extract returns the text between the markers.
func (b Block) Extract(body string) (string, bool) {
	start := strings.Index(body, b.Start)
	end := strings.Index(body, b.End)
	if start < 0 || end <= start {
		return "", false
	}
	inner := body[start+len(b.Start) : end]
	return strings.TrimSuffix(strings.TrimPrefix(inner, "\n"), "\n"), true
}
