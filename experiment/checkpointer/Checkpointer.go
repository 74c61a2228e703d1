// Package checkpointer saves and restores serializable objects, such as
// agents, to and from disk
package checkpointer

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	ts "github.com/samuelfneumann/highrl/timestep"
)

// ErrCheckpointMissing is returned when loading a checkpoint that does
// not exist
var ErrCheckpointMissing = errors.New("checkpoint missing")

// Serializable is an object that can be saved/serialized
type Serializable interface {
	gob.GobEncoder
	gob.GobDecoder
}

// Checkpointer checkpoints/saves serializable objects based on
// timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}

// Save serializes object into the file at path, creating parent
// directories as needed
func Save(object Serializable, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "save: could not create directory for %v",
			path)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "save: could not create %v", path)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(object); err != nil {
		return errors.Wrapf(err, "save: could not encode %T", object)
	}
	return file.Close()
}

// Load restores object from the file at path. If no file exists at
// path, the returned error wraps ErrCheckpointMissing.
func Load(path string, object Serializable) error {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return errors.Wrapf(ErrCheckpointMissing, "load: %v", path)
	} else if err != nil {
		return errors.Wrapf(err, "load: could not open %v", path)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(object); err != nil {
		return errors.Wrapf(err, "load: could not decode %v", path)
	}
	return nil
}
