package source

import (
	"context"
	"strings"

	"github.com/ppiankov/projstat/internal/model"
)

// PyPI reports package metadata from the PyPI JSON API. The identifier is
// the package's project URL, e.g. https://pypi.org/project/requests.
type PyPI struct {
	client *Client
}

func (p *PyPI) Kind() Kind { return KindPyPI }

type pypiResponse struct {
	Info struct {
		Name      string `json:"name"`
		Version   string `json:"version"`
		Summary   string `json:"summary"`
		License   string `json:"license"`
		HomePage  string `json:"home_page"`
		Downloads struct {
			LastMonth int64 `json:"last_month"`
		} `json:"downloads"`
	} `json:"info"`
}

func (p *PyPI) Fetch(ctx context.Context, identifier string, cfg *model.Config) (model.Attributes, error) {
	var data pypiResponse
	jsonURL := strings.TrimRight(identifier, "/") + "/json"
	if err := p.client.GetJSON(ctx, jsonURL, nil, nil, &data); err != nil {
		return nil, err
	}

	attrs := model.Attributes{
		model.KeyName:        model.StringValue(data.Info.Name),
		model.KeyVersion:     model.StringValue(data.Info.Version),
		model.KeyDescription: model.StringValue(data.Info.Summary),
		model.KeyLicense:     model.StringValue(data.Info.License),
		model.KeyHomepage:    model.StringValue(data.Info.HomePage),
	}

	// The API reports -1 when download figures are unavailable.
	if data.Info.Downloads.LastMonth >= 0 {
		attrs[model.KeyDownloads] = model.IntValue(data.Info.Downloads.LastMonth)
	}

	return attrs, nil
}
