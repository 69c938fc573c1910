// Package app wires the vnav components together and runs them.
//
// An Application owns one event loop. Terminal input is read on its own
// goroutine and posted to the loop as one task per event, so editor state
// and the navline lock only change on the loop goroutine. Config reloads
// arrive from the watcher goroutine the same way.
package app
