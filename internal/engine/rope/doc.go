// Package rope implements an immutable rope for text storage.
//
// Every node caches its subtree's byte length and newline count, so line
// lookups and offset/point conversions run in O(log n) without a separate
// line-start table. Edits return new ropes and share unchanged subtrees with
// the original, which makes buffer snapshots (and undo) cheap.
package rope
