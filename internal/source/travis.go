package source

import (
	"context"
	"regexp"

	"github.com/ppiankov/projstat/internal/model"
)

var travisURLPattern = regexp.MustCompile(`^https?://travis-ci\.org`)

// Travis reports CI status from the Travis CI API. The identifier is the
// project's travis-ci.org URL.
type Travis struct {
	client *Client
}

func (t *Travis) Kind() Kind { return KindTravis }

type travisRepo struct {
	Description     string `json:"description"`
	LastBuildResult *int   `json:"last_build_result"`
}

func (t *Travis) Fetch(ctx context.Context, identifier string, cfg *model.Config) (model.Attributes, error) {
	apiURL := travisURLPattern.ReplaceAllString(identifier, "https://api.travis-ci.org/repos")

	var repo travisRepo
	if err := t.client.GetJSON(ctx, apiURL, nil, nil, &repo); err != nil {
		return nil, err
	}

	// A null build result counts as "not passing", matching the historical
	// behavior of treating only an explicit 0 as green.
	passing := repo.LastBuildResult != nil && *repo.LastBuildResult == 0

	return model.Attributes{
		model.KeyDescription: model.StringValue(repo.Description),
		model.KeyTests:       model.BoolValue(passing),
	}, nil
}
