// Package navline remembers the display column a cursor should snap to while
// it travels vertically through lines of different widths.
//
// Moving the cursor down from column 40 onto a 10-column line lands it at
// column 10; moving down again onto a long line should put it back at
// column 40, not 10. State holds that remembered column (the goal x) and
// decides when to forget it.
//
// # Forgetting
//
// The goal x is forgotten whenever the selection changes for any reason other
// than vertical navigation: a click, a horizontal move, a jump to line start.
// State listens to a SelectionSignal for that. Vertical motions run their
// cursor update inside a guarded call (WithLock, Guard, Guard1, Guard2); the
// selection change they cause arrives while the lock is held and is ignored.
//
// # Lock window
//
// A guarded call sets the lock before running, and after running it cancels
// any unlock already scheduled and schedules a fresh one on the next
// scheduler turn. A burst of guarded calls therefore keeps the lock held
// continuously, and exactly one unlock fires after the last of them. The
// window is one turn, not a fixed duration.
//
// # Threading
//
// State is meant to be used from a single loop goroutine (see package loop).
// Its fields are guarded by a mutex so that readers on other goroutines see
// consistent values, but guarded calls from several goroutines at once do
// not have a defined ordering.
package navline
