package fsops

import (
	"errors"
	"fmt"
)

// Pair is a single source to destination entry of a bulk operation.
type Pair struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

// EntryError records the failure of one entry of a bulk operation.
type EntryError struct {
	Pair
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s -> %s: %v", e.Src, e.Dst, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// MoveMany moves every pair. A failing entry does not stop the remaining
// ones; the returned error joins one *EntryError per failed entry.
func MoveMany(fs FS, pairs []Pair) error {
	return applyMany(pairs, fs.Move)
}

// CopyMany copies every pair with the same all-entries-attempted semantics
// as MoveMany.
func CopyMany(fs FS, pairs []Pair) error {
	return applyMany(pairs, fs.Copy)
}

func applyMany(pairs []Pair, op func(src, dst string) error) error {
	var errs []error
	for _, p := range pairs {
		if err := op(p.Src, p.Dst); err != nil {
			errs = append(errs, &EntryError{Pair: p, Err: err})
		}
	}
	return errors.Join(errs...)
}

// FailedEntries extracts the per-entry failures from an error returned by
// MoveMany or CopyMany.
func FailedEntries(err error) []*EntryError {
	if err == nil {
		return nil
	}
	var out []*EntryError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, FailedEntries(e)...)
		}
		return out
	}
	var entry *EntryError
	if errors.As(err, &entry) {
		out = append(out, entry)
	}
	return out
}
