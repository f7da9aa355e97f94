package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/takak2166/limitless2md/internal/models"
)

// timestampLayout renders quote timestamps like "03/01/25 9:30 AM"
const timestampLayout = "01/02/06 3:04 PM"

// defaultSpeaker is used when a blockquote node carries no speaker name
const defaultSpeaker = "Speaker"

// Formatter converts lifelogs to markdown. The location controls how
// quote timestamps are displayed; it should match the sync timezone so
// timestamps agree with the file's date boundary.
type Formatter struct {
	loc *time.Location
}

// New creates a Formatter rendering timestamps in the given location.
// A nil location falls back to the system local time.
func New(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{loc: loc}
}

// Format renders a single lifelog as markdown. When the API already
// provides a markdown rendering it is trusted and only whitespace-normalized;
// otherwise the content tree is converted. Missing or malformed fields
// degrade to omission, never to an error.
func (f *Formatter) Format(lifelog models.Lifelog) string {
	if lifelog.Markdown != "" {
		// Collapse double line breaks so entries stay compact
		return strings.ReplaceAll(lifelog.Markdown, "\n\n", "\n")
	}

	var blocks []string
	if lifelog.Title != "" {
		blocks = append(blocks, "# "+lifelog.Title)
	}

	// Quote lines are buffered under the current heading2 section and
	// flushed when the next section starts. A section with no buffered
	// lines produces no output.
	var section string
	var messages []string
	flush := func() {
		if section != "" && len(messages) > 0 {
			blocks = append(blocks, "## "+section+"\n"+strings.Join(messages, "\n"))
		}
		messages = nil
	}

	for _, node := range lifelog.Contents {
		switch node.Type {
		case models.NodeHeading1:
			// The title is emitted separately
		case models.NodeHeading2:
			flush()
			section = node.Content
		case models.NodeBlockquote:
			line := f.quoteLine(node)
			if section != "" {
				messages = append(messages, line)
			} else {
				// Quotes before any heading are not grouped
				blocks = append(blocks, line)
			}
		default:
			if node.Content != "" {
				blocks = append(blocks, node.Content)
			}
		}
	}
	flush()

	return strings.Join(blocks, "\n\n")
}

// quoteLine builds a "- speaker (timestamp): text" bullet. The timestamp
// parenthetical is omitted entirely when StartTime is absent or unparseable.
func (f *Formatter) quoteLine(node models.ContentNode) string {
	speaker := node.SpeakerName
	if speaker == "" {
		speaker = defaultSpeaker
	}

	timestamp := ""
	if node.StartTime != "" {
		if t, err := time.Parse(time.RFC3339, node.StartTime); err == nil {
			timestamp = fmt.Sprintf(" (%s)", t.In(f.loc).Format(timestampLayout))
		}
	}

	return fmt.Sprintf("- %s%s: %s", speaker, timestamp, node.Content)
}
