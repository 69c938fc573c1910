// Package editor moves a cursor through a buffer and keeps the goal column.
//
// Vertical motions (MoveUp, MoveDown, PageUp, PageDown) run inside a
// navline guard. The first of them records the cursor's display column as
// the goal x; each one then lands on the cluster covering that column in
// the target row, so travelling through short lines does not lose the
// original column. With a wrap width set, vertical motions step through
// visual rows and the goal x is measured from the row start.
//
// Every other motion publishes its selection change outside the guard,
// which makes navline forget the goal x.
package editor
