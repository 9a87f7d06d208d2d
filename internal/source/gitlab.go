package source

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ppiankov/projstat/internal/model"
)

const gitlabAPIBase = "https://gitlab.com/api/v4/projects/"

// GitLab reports project metadata from the GitLab v4 API. The identifier is
// either a numeric project ID or a "group/project" path; an optional private
// token comes from the "gitlab" config block.
type GitLab struct {
	client *Client

	// baseURL overrides the API endpoint in tests.
	baseURL string
}

func (g *GitLab) Kind() Kind { return KindGitLab }

type gitlabProject struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	WebURL         string `json:"web_url"`
	CreatedAt      string `json:"created_at"`
	LastActivityAt string `json:"last_activity_at"`
	ForksCount     int64  `json:"forks_count"`
	StarCount      int64  `json:"star_count"`
}

func (g *GitLab) Fetch(ctx context.Context, identifier string, cfg *model.Config) (model.Attributes, error) {
	base := g.baseURL
	if base == "" {
		base = gitlabAPIBase
	}
	projectURL := base + url.PathEscape(identifier)

	headers := map[string]string{}
	if token := cfg.Credential("gitlab", "token"); token != "" {
		headers["PRIVATE-TOKEN"] = token
	}

	var project gitlabProject
	if err := g.client.GetJSON(ctx, projectURL, nil, headers, &project); err != nil {
		return nil, err
	}

	issues, err := g.count(ctx, projectURL+"/issues?state=opened", headers)
	if err != nil {
		return nil, err
	}
	merges, err := g.count(ctx, projectURL+"/merge_requests?state=opened", headers)
	if err != nil {
		return nil, err
	}

	return model.Attributes{
		model.KeyName:             model.StringValue(project.Name),
		model.KeyDescription:      model.StringValue(project.Description),
		model.KeyHomepage:         model.StringValue(project.WebURL),
		model.KeyCreated:          model.TimeValue(parseRFC3339(project.CreatedAt)),
		model.KeyUpdated:          model.TimeValue(parseRFC3339(project.LastActivityAt)),
		model.KeyForksCount:       model.IntValue(project.ForksCount),
		model.KeyWatchersCount:    model.IntValue(project.StarCount),
		model.KeyOpenIssues:       model.IntValue(issues),
		model.KeyOpenPullRequests: model.IntValue(merges),
	}, nil
}

func (g *GitLab) count(ctx context.Context, listURL string, headers map[string]string) (int64, error) {
	var items []map[string]any
	if err := g.client.GetJSON(ctx, listURL, nil, headers, &items); err != nil {
		return 0, fmt.Errorf("count %s: %w", listURL, err)
	}
	return int64(len(items)), nil
}
