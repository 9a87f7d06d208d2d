// Package source implements the adapters that report project attributes
// from external systems: code forges, package registries, CI services,
// extension stores and local checkouts.
//
// Every adapter satisfies the same contract: given a source-specific
// identifier it returns a partial attribute mapping, or an error. Adapters
// never talk to each other and share only the HTTP client and the
// subprocess runner.
package source

import (
	"context"

	"github.com/ppiankov/projstat/internal/model"
)

// Kind is the closed enumeration of source kinds. Adding a source means
// adding a constant here and an implementation to Sources.
type Kind string

const (
	KindGitHub Kind = "github"
	KindGitLab Kind = "gitlab"
	KindLocal  Kind = "local"
	KindPyPI   Kind = "pypi"
	KindBower  Kind = "bower"
	KindTravis Kind = "travis"
	KindAMO    Kind = "amo"
)

// Source reports attributes for one source kind.
type Source interface {
	Kind() Kind

	// Fetch produces the attribute mapping for identifier. Credentials are
	// looked up from cfg by the adapter itself. Any error means this
	// source contributes nothing; the caller isolates the failure.
	Fetch(ctx context.Context, identifier string, cfg *model.Config) (model.Attributes, error)
}

// Sources returns one adapter per kind, in canonical order. The order
// determines which source registers first in a ClaimSet when several report
// the same key.
func Sources(client *Client, runner Runner) []Source {
	return []Source{
		&GitHub{client: client},
		&GitLab{client: client},
		&Local{runner: runner},
		&PyPI{client: client},
		&Bower{runner: runner},
		&Travis{client: client},
		&AMO{client: client},
	}
}
