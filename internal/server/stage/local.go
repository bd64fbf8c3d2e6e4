package stage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/claimcheck/internal/common"
	"github.com/dmitrijs2005/claimcheck/internal/filex"
	"github.com/google/uuid"
)

// LocalStager stages documents in a per-request temporary directory.
type LocalStager struct {
	root string
}

// NewLocalStager returns a stager rooted at root. An empty root means the
// system temp directory; anything else is created if missing.
func NewLocalStager(root string) (*LocalStager, error) {
	if root != "" {
		dir, err := filex.EnsureDir(root)
		if err != nil {
			return nil, fmt.Errorf("stage root: %w", err)
		}
		root = dir
	}
	return &LocalStager{root: root}, nil
}

func (s *LocalStager) Stage(ctx context.Context, docs []Document) (*Set, error) {
	if err := Validate(docs); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(s.root, "claim-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStageIO, err)
	}

	artifacts := make([]*Artifact, 0, len(docs))
	for _, d := range docs {
		path := filepath.Join(dir, stagedName(d.Kind, uuid.NewString()))
		if err := writeFile(ctx, path, d.Body); err != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("%w: %s: %v", common.ErrStageIO, d.Kind, err)
		}
		artifacts = append(artifacts, &Artifact{
			Kind:      d.Kind,
			Filename:  d.Filename,
			MediaType: common.MediaTypePDF,
			Location:  path,
			open: func(context.Context) (io.ReadCloser, error) {
				return os.Open(path)
			},
		})
	}

	return newSet(artifacts, func(context.Context) error {
		return os.RemoveAll(dir)
	}), nil
}

func writeFile(ctx context.Context, path string, body io.Reader) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(f, body)
	return err
}
