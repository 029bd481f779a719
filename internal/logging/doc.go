// Package logging provides concrete implementations of the dwhetl.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes prefixed messages to stderr (or any writer)
//   - NullLogger: Discards all messages (useful for testing)
//
// Standard output is left to result tables; loggers never write there.
package logging
