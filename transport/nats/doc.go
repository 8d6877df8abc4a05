// Package nats publishes game events to a NATS broker so other processes
// can follow sessions without polling the REST API.
//
// Every event is JSON on klondike.events.<session-id>. Subscribe to
// klondike.events.> to follow all sessions.
package nats
