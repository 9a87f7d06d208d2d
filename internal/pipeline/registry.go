package pipeline

import (
	"context"

	"github.com/ppiankov/projstat/internal/model"
	"github.com/ppiankov/projstat/internal/worker"
)

// Registry fetches all configured projects concurrently. Projects are
// independent units of work; a project that fails every source still
// produces an (empty) claim set.
type Registry struct {
	orch    *Orchestrator
	workers int
}

// NewRegistry creates a registry running at most workers projects at once.
func NewRegistry(orch *Orchestrator, workers int) *Registry {
	return &Registry{orch: orch, workers: workers}
}

type projectJob struct {
	ctx     context.Context
	project model.Project
	orch    *Orchestrator
}

func (j *projectJob) Execute(_ context.Context) worker.Result {
	return &projectResult{
		key:    j.project.Key,
		claims: j.orch.FetchProject(j.ctx, j.project),
	}
}

type projectResult struct {
	key    string
	claims *model.ClaimSet
}

// GetError always returns nil: per-source failures are absorbed by the
// orchestrator and a project itself cannot fail.
func (r *projectResult) GetError() error { return nil }

// FetchAll fetches every project on the worker pool and returns the project
// key to claim set mapping. Entries without a claim set are dropped.
func (r *Registry) FetchAll(ctx context.Context, projects []model.Project) map[string]*model.ClaimSet {
	pool := worker.NewPool(r.workers, len(projects))
	pool.Start()

	for _, project := range projects {
		pool.Submit(&projectJob{ctx: ctx, project: project, orch: r.orch})
	}

	out := make(map[string]*model.ClaimSet, len(projects))
	for _, res := range pool.Wait() {
		pr := res.(*projectResult)
		if pr.claims == nil {
			continue
		}
		out[pr.key] = pr.claims
	}
	return out
}
