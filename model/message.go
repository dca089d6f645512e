package model

import "time"

// UserSpeaker is the synthetic speaker identifier used for the opening task
// message. It is never a registered participant.
const UserSpeaker = "user"

// Message is a single raw entry of the conversation log. Unlike Turn it also
// covers synthetic entries such as the opening task message.
type Message struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Turn represents one completed contribution by a single participant. The
// position within the enclosing slice is chronological.
type Turn struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
