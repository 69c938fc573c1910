// Package loop provides the single-threaded task loop that owns all editor state.
//
// Every mutation of cursor, goal-column and view state happens inside a task
// run by the loop. Producers on other goroutines (terminal input, config
// watcher) hand work to the loop with Post; nothing touches editor state
// directly from those goroutines.
//
// # Turns
//
// The loop drains its queue in turns. A turn runs exactly the tasks that
// were queued when the turn began; anything queued while the turn runs waits
// for the next turn. Defer queues a cancellable task and is the equivalent of
// "run as soon as the current work finishes":
//
//	l := loop.New()
//	t := l.Defer(func() { fmt.Println("later") })
//	t.Cancel() // the callback will not run
//
// # Determinism
//
// Tests drive the loop by hand with RunPending, which runs a single turn on
// the calling goroutine:
//
//	l.Post(step)
//	l.RunPending() // step ran; tasks step queued are still pending
//	l.RunPending() // and now they ran too
//
// Run drives the same turns from a dedicated goroutine until Stop is called
// or the context is cancelled.
package loop
