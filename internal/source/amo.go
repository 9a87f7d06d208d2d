package source

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"

	"github.com/ppiankov/projstat/internal/model"
)

const amoAPIBase = "https://addons.mozilla.org/api/v5/addons/addon/"

// AMO reports browser-extension metadata from the addons.mozilla.org API.
// The identifier is the add-on slug.
type AMO struct {
	client *Client

	// baseURL overrides the API endpoint in tests.
	baseURL string
}

func (a *AMO) Kind() Kind { return KindAMO }

type amoAddon struct {
	Name           json.RawMessage `json:"name"`
	Summary        json.RawMessage `json:"summary"`
	Created        string          `json:"created"`
	LastUpdated    string          `json:"last_updated"`
	AverageDaily   int64           `json:"average_daily_users"`
	CurrentVersion struct {
		Version string `json:"version"`
	} `json:"current_version"`
	Homepage struct {
		URL json.RawMessage `json:"url"`
	} `json:"homepage"`
}

func (a *AMO) Fetch(ctx context.Context, identifier string, cfg *model.Config) (model.Attributes, error) {
	base := a.baseURL
	if base == "" {
		base = amoAPIBase
	}
	addonURL := base + url.PathEscape(identifier) + "/"

	var addon amoAddon
	if err := a.client.GetJSON(ctx, addonURL, nil, nil, &addon); err != nil {
		return nil, err
	}

	return model.Attributes{
		model.KeyName:        model.StringValue(localizedText(addon.Name)),
		model.KeyDescription: model.StringValue(localizedText(addon.Summary)),
		model.KeyVersion:     model.StringValue(addon.CurrentVersion.Version),
		model.KeyHomepage:    model.StringValue(localizedText(addon.Homepage.URL)),
		model.KeyCreated:     model.TimeValue(parseRFC3339(addon.Created)),
		model.KeyUpdated:     model.TimeValue(parseRFC3339(addon.LastUpdated)),
		model.KeyDownloads:   model.IntValue(addon.AverageDaily),
	}, nil
}

// localizedText resolves the AMO API's localized fields, which are either a
// plain string or a locale-to-text mapping. English is preferred; otherwise
// the first locale in sorted order keeps the result deterministic.
func localizedText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var byLocale map[string]string
	if err := json.Unmarshal(raw, &byLocale); err != nil || len(byLocale) == 0 {
		return ""
	}
	if v, ok := byLocale["en-US"]; ok && v != "" {
		return v
	}
	locales := make([]string, 0, len(byLocale))
	for locale, v := range byLocale {
		if strings.TrimSpace(v) != "" {
			locales = append(locales, locale)
		}
	}
	if len(locales) == 0 {
		return ""
	}
	sort.Strings(locales)
	return byLocale[locales[0]]
}
