package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"github.com/ppiankov/projstat/internal/model"
)

// Bower reports package metadata from the bower CLI. The identifier is the
// bower package name. A machine without bower installed yields an empty
// report rather than an error.
type Bower struct {
	runner Runner
}

func (b *Bower) Kind() Kind { return KindBower }

type bowerInfo struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Homepage    string          `json:"homepage"`
	Description string          `json:"description"`
	License     json.RawMessage `json:"license"`
}

func (b *Bower) Fetch(ctx context.Context, identifier string, cfg *model.Config) (model.Attributes, error) {
	out, err := b.runner.Run(ctx, "bower", "info", identifier, "--json")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return model.Attributes{}, nil
		}
		return nil, err
	}

	// "bower info --json" emits either the package metadata directly or a
	// wrapper whose "latest" field holds it.
	var wrapper struct {
		Latest *bowerInfo `json:"latest"`
	}
	var info bowerInfo
	if err := json.Unmarshal(out, &wrapper); err == nil && wrapper.Latest != nil {
		info = *wrapper.Latest
	} else if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("decode bower info for %s: %w", identifier, err)
	}

	return model.Attributes{
		model.KeyName:        model.StringValue(info.Name),
		model.KeyVersion:     model.StringValue(info.Version),
		model.KeyHomepage:    model.StringValue(info.Homepage),
		model.KeyDescription: model.StringValue(info.Description),
		model.KeyLicense:     model.StringValue(bowerLicense(info.License)),
	}, nil
}

// bowerLicense handles both string and list-of-strings license fields.
func bowerLicense(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}
