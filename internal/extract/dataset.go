package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/cldrsync/internal/fetch"
	"github.com/mesh-intelligence/cldrsync/internal/paths"
	"github.com/mesh-intelligence/cldrsync/internal/store"
)

// Routine is one extraction step bound to a single archive member: the
// member suffix names common/<prefix>/<suffix>.xml, and Run receives that
// member's decoded document together with the dataset's store.
type Routine struct {
	Name string
	Run  func(doc Record, st *store.Store) error
}

// Dataset groups the routines that populate one cache file.
type Dataset struct {
	Name     string // dataset family and cache file name
	Prefix   string // archive member group; defaults to Name when empty
	Routines []Routine
}

// member returns the archive path a routine reads.
func (d Dataset) member(r Routine) string {
	prefix := d.Prefix
	if prefix == "" {
		prefix = d.Name
	}
	return fmt.Sprintf("common/%s/%s.xml", prefix, r.Name)
}

// Datasets is the static extraction registry, in execution order. Routine
// order within a dataset is the declaration order, kept alphabetical by
// member suffix so runs are deterministic and outputs diff-friendly.
var Datasets = []Dataset{
	currencyDataset,
	territoryDataset,
	bcp47Dataset,
}

// RoutineError tags a failure with the dataset and routine it occurred in.
type RoutineError struct {
	Dataset string
	Routine string
	Err     error
}

func (e *RoutineError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Dataset, e.Routine, e.Err)
}

func (e *RoutineError) Unwrap() error { return e.Err }

// Run executes every dataset extractor against one opened archive, writing
// cache files under dataDir.
//
// Routine failures are isolated: a failing routine is recorded and its
// siblings still run. The joined failures are returned at the end; a non-nil
// result means at least one table could not be written even though the rest
// of the pipeline completed.
func Run(archive *fetch.Archive, dataDir string) error {
	var failures []error
	for _, ds := range Datasets {
		failures = append(failures, runDataset(ds, archive, dataDir)...)
	}
	return errors.Join(failures...)
}

func runDataset(ds Dataset, archive *fetch.Archive, dataDir string) []error {
	log := slog.With("dataset", ds.Name)

	st, err := store.Open(paths.CacheFile(dataDir, ds.Name))
	if err != nil {
		log.Error("cache open failed", "error", err)
		return []error{&RoutineError{Dataset: ds.Name, Routine: "open", Err: err}}
	}
	defer st.Close()

	var failures []error
	if err := st.WriteMeta(archive.Version, time.Now()); err != nil {
		log.Error("provenance write failed", "error", err)
		failures = append(failures, &RoutineError{Dataset: ds.Name, Routine: "meta", Err: err})
	}

	for _, r := range ds.Routines {
		if err := runRoutine(ds, r, archive, st); err != nil {
			log.Error("routine failed", "routine", r.Name, "error", err)
			failures = append(failures, &RoutineError{Dataset: ds.Name, Routine: r.Name, Err: err})
			continue
		}
		log.Info("routine complete", "routine", r.Name)
	}
	return failures
}

func runRoutine(ds Dataset, r Routine, archive *fetch.Archive, st *store.Store) error {
	rc, err := archive.Open(ds.member(r))
	if err != nil {
		return err
	}
	defer rc.Close()

	doc, err := DecodeXML(rc)
	if err != nil {
		return err
	}
	return r.Run(doc, st)
}

// simpleStore recreates a table shaped by fields (plus a trailing alias
// column when aliased) and bulk-inserts the projection of recs into it.
func simpleStore(st *store.Store, name string, recs []Record, aliased bool, fields []Field) error {
	cols := make([]store.Column, 0, len(fields)+1)
	for _, f := range fields {
		cols = append(cols, store.Typed(f.Attr, f.Cast.affinity()))
	}
	if aliased {
		cols = append(cols, store.Text("alias"))
	}

	if err := st.Recreate(name, cols); err != nil {
		return err
	}
	rows, err := Project(recs, aliased, fields)
	if err != nil {
		return err
	}
	return st.BulkInsert(name, len(cols), rows)
}
