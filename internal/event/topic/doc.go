// Package topic provides dot-separated event topics and wildcard patterns.
//
// Topics name an event by subsystem and action:
//
//	cursor.moved
//	cursor.selection.changed
//	config.reloaded
//
// A pattern may use "*" for exactly one segment and "**" for zero or more:
//
//	cursor.*   matches cursor.moved, not cursor.selection.changed
//	cursor.**  matches both, and cursor itself
//	**         matches everything
package topic
