// Package console is the text front end: a main menu, an interactive game
// that reads one command per line, and a sample game that replays a script.
//
// A Console only needs an io.Reader and a Renderer, so the play command and
// every SSH connection run the same loop.
package console
