package vault

// Buffer is the host editor's handle on the note file being renamed.
//
// Unsaved returns the buffer content together with a dirty flag that is
// true when the buffer holds edits not yet written to disk. After the
// file has been renamed, Reload re-points the editor at the new name:
// with the captured edits when the buffer was dirty, with the on-disk
// content otherwise, so open work survives the rename.
//
// A nil Buffer means no editor view is open on the note.
type Buffer interface {
	Unsaved() (content []byte, dirty bool)
	Reload(name string, content []byte, dirty bool) error
}
