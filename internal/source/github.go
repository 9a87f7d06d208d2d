package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/projstat/internal/model"
)

var githubURLPattern = regexp.MustCompile(`^https?://github\.com`)

// GitHub reports repository metadata from the GitHub REST API. The
// identifier is the repository's web URL; credentials come from the
// "github" config block.
type GitHub struct {
	client *Client
}

func (g *GitHub) Kind() Kind { return KindGitHub }

type githubRepo struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
	Homepage         string `json:"homepage"`
	Language         string `json:"language"`
	WatchersCount    int64  `json:"watchers_count"`
	StargazersCount  int64  `json:"stargazers_count"`
	SubscribersCount int64  `json:"subscribers_count"`
	ForksCount       int64  `json:"forks_count"`
	OpenIssues       int64  `json:"open_issues"`
	PullsURL         string `json:"pulls_url"`
	TagsURL          string `json:"tags_url"`

	// Set on error payloads (rate limiting, missing repo) which GitHub
	// serves with a 200-shaped body behind some proxies.
	DocumentationURL string `json:"documentation_url"`
}

func (g *GitHub) Fetch(ctx context.Context, identifier string, cfg *model.Config) (model.Attributes, error) {
	auth := basicAuthFromConfig(cfg, "github")
	apiURL := githubURLPattern.ReplaceAllString(identifier, "https://api.github.com/repos")

	var repo githubRepo
	if err := g.client.GetJSON(ctx, apiURL, auth, nil, &repo); err != nil {
		return nil, err
	}
	if repo.DocumentationURL != "" && repo.Name == "" {
		return nil, fmt.Errorf("github API error: %s", repo.DocumentationURL)
	}

	version, err := g.latestTag(ctx, repo.TagsURL, auth)
	if err != nil {
		return nil, err
	}

	pulls, err := g.openPullRequests(ctx, repo.PullsURL, auth)
	if err != nil {
		return nil, err
	}

	return model.Attributes{
		model.KeyName:             model.StringValue(repo.Name),
		model.KeyDescription:      model.StringValue(repo.Description),
		model.KeyCreated:          model.TimeValue(parseRFC3339(repo.CreatedAt)),
		model.KeyUpdated:          model.TimeValue(parseRFC3339(repo.UpdatedAt)),
		model.KeyHomepage:         model.StringValue(repo.Homepage),
		model.KeyLanguage:         model.StringValue(repo.Language),
		model.KeyWatchersCount:    model.IntValue(repo.WatchersCount),
		model.KeyStargazersCount:  model.IntValue(repo.StargazersCount),
		model.KeySubscribersCount: model.IntValue(repo.SubscribersCount),
		model.KeyForksCount:       model.IntValue(repo.ForksCount),
		model.KeyOpenIssues:       model.IntValue(repo.OpenIssues),
		model.KeyOpenPullRequests: model.IntValue(pulls),
		model.KeyVersion:          model.StringValue(version),
	}, nil
}

// latestTag pages through the tags list and returns the greatest tag name,
// compared with any leading "v" stripped. Empty when the repo has no tags.
func (g *GitHub) latestTag(ctx context.Context, tagsURL string, auth *BasicAuth) (string, error) {
	if tagsURL == "" {
		return "", nil
	}

	var names []string
	for page := 1; ; page++ {
		var tags []struct {
			Name string `json:"name"`
		}
		pageURL := fmt.Sprintf("%s?page=%d", tagsURL, page)
		if err := g.client.GetJSON(ctx, pageURL, auth, nil, &tags); err != nil {
			return "", err
		}
		if len(tags) == 0 {
			break
		}
		for _, tag := range tags {
			names = append(names, tag.Name)
		}
	}

	return latestTag(names), nil
}

func (g *GitHub) openPullRequests(ctx context.Context, pullsURL string, auth *BasicAuth) (int64, error) {
	if pullsURL == "" {
		return 0, nil
	}
	url := strings.ReplaceAll(pullsURL, "{/number}", "")

	var pulls []struct {
		Number int `json:"number"`
	}
	if err := g.client.GetJSON(ctx, url, auth, nil, &pulls); err != nil {
		return 0, err
	}
	return int64(len(pulls)), nil
}

// latestTag picks the maximum tag, ignoring a leading "v" so that "v1.10"
// and "1.9" compare as their bare forms do.
func latestTag(names []string) string {
	best := ""
	bestStripped := ""
	for _, name := range names {
		stripped := strings.TrimLeft(name, "v")
		if best == "" || stripped > bestStripped {
			best = name
			bestStripped = stripped
		}
	}
	return best
}

func parseRFC3339(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
