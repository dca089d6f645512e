// Package selector implements the speaker selection policies that drive a
// multi-participant conversation: round-robin rotation, the two-sided debate
// protocol and keyword-based task routing. Selectors are pure functions over
// a conversation snapshot – they keep no state between calls and derive every
// decision from the history handed to them.
package selector
