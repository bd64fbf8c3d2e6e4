// Package engine talks to the external reasoning engine: it builds the claim
// instruction, attaches the staged documents and returns the raw answer.
package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/claimcheck/internal/common"
	"github.com/dmitrijs2005/claimcheck/internal/logging"
	"github.com/dmitrijs2005/claimcheck/internal/server/stage"
)

// Attachment is one binary file sent along with the prompt.
type Attachment struct {
	Name      string
	MediaType string
	Data      []byte
}

// Request is a single generation call.
type Request struct {
	System      string
	Prompt      string
	Attachments []Attachment
}

// Engine is a multimodal text generator.
type Engine interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Invoker runs the claim instruction against an Engine.
type Invoker struct {
	engine Engine
	logger logging.Logger
}

func NewInvoker(e Engine, logger logging.Logger) *Invoker {
	return &Invoker{engine: e, logger: logger.With("module", "engine")}
}

// Invoke reads every artifact of set, calls the engine once and returns its
// text unmodified. All failures wrap common.ErrAnalysisEngine.
func (i *Invoker) Invoke(ctx context.Context, set *stage.Set) (string, error) {
	req := Request{System: SystemMessage, Prompt: Prompt}

	for _, a := range set.Artifacts() {
		data, err := readArtifact(ctx, a)
		if err != nil {
			return "", fmt.Errorf("%w: read %s: %v", common.ErrAnalysisEngine, a.Kind, err)
		}
		req.Attachments = append(req.Attachments, Attachment{
			Name:      string(a.Kind),
			MediaType: a.MediaType,
			Data:      data,
		})
	}

	i.logger.Debug(ctx, "invoking reasoning engine", "attachments", len(req.Attachments))

	text, err := i.engine.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrAnalysisEngine, err)
	}
	return text, nil
}

func readArtifact(ctx context.Context, a *stage.Artifact) ([]byte, error) {
	rc, err := a.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
