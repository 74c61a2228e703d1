package checkpointer

import ts "github.com/samuelfneumann/highrl/timestep"

// nStep implements checkpointing every N steps
type nStep struct {
	interval int
	object   Serializable // Object to save

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each serialized object should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// file1.bin, file2.bin, ..., fileK.bin), then simply use the
	// static function FilenameEnumerator, which will return a function
	// that will enumerate filenames.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n steps.
func NewNStep(n int, object Serializable,
	filename func() string) Checkpointer {
	if n <= 0 {
		panic("newNStep: interval must be positive")
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}
}

// Checkpoint saves the tracked object if the TimeStep number is a
// multiple of the interval. The first TimeStep of an episode is never
// checkpointed.
func (n *nStep) Checkpoint(t ts.TimeStep) error {
	if t.Number > 0 && t.Number%n.interval == 0 {
		return Save(n.object, n.filename())
	}
	return nil
}
