// Package model defines the conversation data model shared by the selector,
// runtime and persistence layers: raw messages, completed turns, the mutable
// Conversation record and the immutable Snapshot handed to speaker selectors.
package model
