// Package sse provides a minimal, purpose-built line source for server-sent
// event streams. It splits an upstream HTTP body into complete text lines and,
// optionally, writes every raw line verbatim to a destination writer in a tee
// pipe fashion so a stream can be recorded while it is being decoded.
//
// Event assembly (joining multiple "data:" lines, "event:" and "id:" fields) is
// intentionally NOT done here: the LLM streaming formats this module consumes
// carry one JSON document per "data: " line, and decoding happens one line at
// a time downstream.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse
