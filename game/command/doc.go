// Package command turns text commands into engine calls.
//
// A line such as "move 3 suit" or "discard" is split on whitespace, checked
// against the verb table in Specs and then run by a Dispatcher bound to one
// engine. Wrong argument counts and unknown verbs are reported as
// engine.ErrInvalidInput; rule violations come back as the engine's own
// error kinds. Describe maps any of them to a message for the player.
//
// The console, SSH, REST and MCP front ends all go through Dispatcher, so a
// script of commands behaves the same on every surface. Save and load only
// work when the dispatcher was given a directory with WithFileDir.
package command
