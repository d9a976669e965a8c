// Package screenplay turns raw extracted screenplay text into attributed
// dialogue blocks. Extracted text carries no layout or font metadata, so
// everything here works from line shape alone: all-caps header lines open a
// block, blank lines or the next header close it.
package screenplay

// Mode is how a line of dialogue is delivered.
type Mode string

const (
	ModeNone      Mode = ""   // spoken on screen (default, omitted on the wire)
	ModeVoiceOver Mode = "VO" // voice-over narration
	ModeOffScreen Mode = "OS" // off-screen vocalization
)

// DialogueBlock is a contiguous span of dialogue attributed to one speaker.
// Text is never empty or whitespace-only; blocks that would be are never
// emitted. The JSON shape (mode omitted when empty) is the interchange
// contract toward downstream tooling and must not change.
type DialogueBlock struct {
	Speaker string `json:"speaker"`
	Mode    Mode   `json:"mode,omitempty"`
	Text    string `json:"text"`
}
