// Package stage holds the four claim documents of one request in an isolated
// scope for the duration of an analysis and removes them afterwards.
package stage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/claimcheck/internal/common"
)

// Kind names one of the four documents of a claim.
type Kind string

const (
	KindPolicy      Kind = "policy"
	KindClaim       Kind = "claim"
	KindBills       Kind = "bills"
	KindDoctorNotes Kind = "doctor_notes"
)

// Kinds lists the required document kinds in submission order.
var Kinds = []Kind{KindPolicy, KindClaim, KindBills, KindDoctorNotes}

// Document is one uploaded file before staging.
type Document struct {
	Kind     Kind
	Filename string
	Body     io.Reader
}

// Artifact is a staged document.
type Artifact struct {
	Kind      Kind
	Filename  string
	MediaType string
	// Location is the file path or object key the bytes were written to.
	Location string

	open func(ctx context.Context) (io.ReadCloser, error)
}

// Open returns a reader over the staged bytes.
func (a *Artifact) Open(ctx context.Context) (io.ReadCloser, error) {
	return a.open(ctx)
}

// Set is the staged document set of one request.
type Set struct {
	artifacts []*Artifact
	release   func(ctx context.Context) error

	once sync.Once
	err  error
}

func newSet(artifacts []*Artifact, release func(ctx context.Context) error) *Set {
	return &Set{artifacts: artifacts, release: release}
}

// Artifacts returns the staged documents in submission order.
func (s *Set) Artifacts() []*Artifact {
	return s.artifacts
}

// Get returns the artifact of the given kind, or nil.
func (s *Set) Get(kind Kind) *Artifact {
	for _, a := range s.artifacts {
		if a.Kind == kind {
			return a
		}
	}
	return nil
}

// Release removes every artifact and the containing scope. Only the first
// call does any work; later calls return the first result.
func (s *Set) Release(ctx context.Context) error {
	s.once.Do(func() {
		s.err = s.release(ctx)
	})
	return s.err
}

// Stager writes a document set into a fresh isolated scope.
type Stager interface {
	Stage(ctx context.Context, docs []Document) (*Set, error)
}

// Validate checks that docs holds exactly one document of every kind.
func Validate(docs []Document) error {
	seen := make(map[Kind]bool, len(Kinds))
	for _, d := range docs {
		if !knownKind(d.Kind) {
			return fmt.Errorf("%w: unknown document kind %q", common.ErrMalformedRequest, d.Kind)
		}
		if seen[d.Kind] {
			return fmt.Errorf("%w: duplicate document %q", common.ErrMalformedRequest, d.Kind)
		}
		if d.Body == nil {
			return fmt.Errorf("%w: empty document %q", common.ErrMalformedRequest, d.Kind)
		}
		seen[d.Kind] = true
	}
	for _, k := range Kinds {
		if !seen[k] {
			return fmt.Errorf("%w: missing document %q", common.ErrMalformedRequest, k)
		}
	}
	return nil
}

func knownKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

func stagedName(kind Kind, id string) string {
	return fmt.Sprintf("%s_%s.pdf", kind, id)
}
