package generate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/trendr/internal/ingest"
)

// DefaultFactLimit caps the facts SourceFacts extracts.
const DefaultFactLimit = 6

const minFactRunes = 25

// BannedPhrases are filler phrases generated drafts must avoid.
var BannedPhrases = []string{
	"in today's fast-paced world",
	"delve into",
	"ever-evolving landscape",
	"game-changer",
	"unlock the power of",
	"leverage",
	"in conclusion",
	"it's important to note",
	"at the end of the day",
	"seamlessly",
}

// WritingConstraints renders the quality rules appended to every prompt.
func WritingConstraints(kind, tone, audience, notes string) string {
	if audience == "" {
		audience = "General audience"
	}
	if notes == "" {
		notes = "None"
	}

	quoted := make([]string, len(BannedPhrases))
	for i, p := range BannedPhrases {
		quoted[i] = "'" + p + "'"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Output kind: %s\n", kind)
	fmt.Fprintf(&b, "Tone target: %s\n", tone)
	fmt.Fprintf(&b, "Audience target: %s\n", audience)
	fmt.Fprintf(&b, "Additional notes: %s\n", notes)
	b.WriteString("Quality constraints:\n")
	b.WriteString("- Use concrete details from source facts; avoid generic advice.\n")
	b.WriteString("- Use natural, varied sentence lengths.\n")
	b.WriteString("- Prefer plain words over buzzwords.\n")
	b.WriteString("- No padding intros/outros.\n")
	fmt.Fprintf(&b, "- Avoid these phrases entirely: %s.\n", strings.Join(quoted, ", "))
	return b.String()
}

// SourceFacts lists up to limit facts as "- " bullets, taking timed segments
// first and then transcript sentences of at least 25 characters.
func SourceFacts(transcript string, segments []ingest.Segment, limit int) string {
	facts := make([]string, 0, limit)

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		facts = append(facts, fmt.Sprintf("- [%s-%s] %s", seconds(seg.Start), seconds(seg.End), text))
		if len(facts) >= limit {
			return strings.Join(facts, "\n")
		}
	}

	for sentence := range strings.SplitSeq(transcript, ".") {
		clean := strings.TrimSpace(sentence)
		if utf8.RuneCountInString(clean) < minFactRunes {
			continue
		}
		facts = append(facts, "- "+clean+".")
		if len(facts) >= limit {
			break
		}
	}

	if len(facts) == 0 {
		return "- No concrete source facts extracted."
	}
	return strings.Join(facts, "\n")
}

// FormatSegments renders segments one per line as "[start-end] text".
func FormatSegments(segments []ingest.Segment) string {
	if len(segments) == 0 {
		return "No transcript segments available."
	}

	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = fmt.Sprintf("[%s-%s] %s", seconds(seg.Start), seconds(seg.End), strings.TrimSpace(seg.Text))
	}
	return strings.Join(lines, "\n")
}

func seconds(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
