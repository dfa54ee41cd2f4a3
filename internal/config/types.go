package config

import "time"

// Default timeouts applied when a script omits the corresponding field.
const (
	// DefaultStartTimeout is the maximum wait for the start prompt.
	DefaultStartTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum gap between received bytes while
	// a test is running.
	DefaultIdleTimeout = 10 * time.Second
)

// PromptSpec is one prompt/response pair from a test script.
// Prompt is the literal byte sequence watched for in the incoming stream;
// Response is the literal byte sequence sent back when the prompt matches.
type PromptSpec struct {
	// Name is the script key this spec came from ("start", "end", or the
	// user-chosen block name). It is carried for diagnostics only and
	// plays no part in matching.
	Name string

	Prompt   []byte
	Response []byte

	// Timeout is only meaningful on the start spec, where it bounds the
	// wait for the start prompt. Zero means the default was applied.
	Timeout time.Duration
}

// TestConfig is a fully validated test script, ready to hand to a session.
// It is constructed once by Load and never mutated afterwards.
type TestConfig struct {
	Start PromptSpec
	End   PromptSpec

	// IdleTimeout is the maximum gap between consecutive received bytes
	// once the test is running. Default-filled, always positive.
	IdleTimeout time.Duration

	// Users holds the user-defined prompt/response pairs in script
	// declaration order. Declaration order is the matching priority order
	// (after the end prompt), so it must survive parsing.
	Users []PromptSpec
}
