// Package agent assembles the model-facing context and drives the
// two-phase generate → tool-call → resume protocol.
package agent

import (
	"google.golang.org/genai"

	"github.com/euanavitorial/vinnax-bot/internal/session"
)

// SegmentRole tags who a context segment is attributed to.
type SegmentRole string

const (
	SegmentUser  SegmentRole = "user"
	SegmentModel SegmentRole = "model"
)

// Segment is one role-tagged piece of the model input. The assembler
// produces ordered segments; they are serialized to the backend's wire
// format only at the call boundary, keeping assembly testable on its own.
type Segment struct {
	Role SegmentRole
	Text string
}

// BuildContext assembles the ordered segments for one exchange: the
// optional identity hint first, then the transcript, then the new
// utterance. The system instruction travels separately (it must precede
// everything and is not part of the conversation).
func BuildContext(identityHint string, history []session.Turn, userText string) []Segment {
	segments := make([]Segment, 0, len(history)+2)
	if identityHint != "" {
		segments = append(segments, Segment{Role: SegmentUser, Text: identityHint})
	}
	for _, turn := range history {
		role := SegmentUser
		if turn.Role == session.RoleAssistant {
			role = SegmentModel
		}
		segments = append(segments, Segment{Role: role, Text: turn.Text})
	}
	segments = append(segments, Segment{Role: SegmentUser, Text: userText})
	return segments
}

func toGenaiContents(segments []Segment) []*genai.Content {
	contents := make([]*genai.Content, 0, len(segments))
	for _, seg := range segments {
		role := genai.Role(genai.RoleUser)
		if seg.Role == SegmentModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(seg.Text, role))
	}
	return contents
}
