// Package pipeline runs the fetch cycle: for each project, every configured
// source adapter is invoked concurrently and the successful reports are
// merged into the project's claim set. Failures never cross source or
// project boundaries.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/projstat/internal/model"
	"github.com/ppiankov/projstat/internal/source"
)

// Orchestrator fetches all configured sources for one project.
type Orchestrator struct {
	sources []source.Source
	cfg     *model.Config
	logger  *log.Logger
}

// NewOrchestrator wires the adapter set to the run configuration.
func NewOrchestrator(sources []source.Source, cfg *model.Config, logger *log.Logger) *Orchestrator {
	return &Orchestrator{sources: sources, cfg: cfg, logger: logger}
}

type sourceResult struct {
	attrs model.Attributes
	err   error
}

// FetchProject runs every adapter the project configures, each in its own
// goroutine with its own deadline, and folds successful reports into a
// ClaimSet in the canonical source order. A failing adapter is logged and
// contributes nothing; the returned set is never nil, even when every
// source failed or none is configured.
func (o *Orchestrator) FetchProject(ctx context.Context, project model.Project) *model.ClaimSet {
	results := make([]sourceResult, len(o.sources))
	var wg sync.WaitGroup

	for i, src := range o.sources {
		identifier, ok := project.Sources[string(src.Kind())]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(idx int, src source.Source, identifier string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[idx] = sourceResult{err: fmt.Errorf("panic: %v", r)}
				}
			}()

			fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.Fetch.SourceTimeout)
			defer cancel()

			attrs, err := src.Fetch(fetchCtx, identifier, o.cfg)
			results[idx] = sourceResult{attrs: attrs, err: err}
		}(i, src, identifier)
	}
	wg.Wait()

	// Folding happens after the join, in adapter order, so the claim scan
	// order does not depend on which source answered first.
	claims := model.NewClaimSet()
	for i, src := range o.sources {
		res := results[i]
		if res.err != nil {
			o.logger.Error("source fetch failed",
				"project", project.Key, "source", src.Kind(), "err", res.err)
			continue
		}
		if res.attrs == nil {
			continue
		}
		if err := claims.Update(res.attrs, string(src.Kind())); err != nil {
			o.logger.Error("source report rejected",
				"project", project.Key, "source", src.Kind(), "err", err)
		}
	}

	return claims
}
