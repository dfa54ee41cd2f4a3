// Package session drives one test execution against a device under test.
//
// A Session pulls bytes from a transport.Transport, feeds them through a
// match.Matcher, and applies the two timeout regimes: a fixed window for
// the start prompt, and an idle window that every received byte re-arms
// while the test is running. This package handles:
//   - Waiting for the start prompt and sending the start response
//   - Answering user-defined prompts in configured priority order
//   - Detecting the end prompt and the start/idle timeouts
//   - Classifying the run into a terminal Outcome
//
// Timeouts are ordinary outcomes, not errors; only transport faults take
// the error path. The session clock is injectable so timeout behavior is
// testable without a real clock.
package session
