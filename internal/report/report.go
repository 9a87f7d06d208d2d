// Package report renders fetched claim sets as text, with filtering,
// sorting and provenance options.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ppiankov/projstat/internal/model"
)

// Options selects and shapes the report.
type Options struct {
	// Query filters project keys by case-insensitive substring.
	Query string
	// SortKey orders projects by the claim for this attribute. Projects
	// missing the attribute sort first.
	SortKey string
	// List prints bare project keys (plus the sort claim when sorting).
	List bool
	// Short restricts the full report to the leading schema keys.
	Short bool
	// ShowSources appends provenance to every claim.
	ShowSources bool
	// Indent is the prefix width for claim lines. Zero means the default.
	Indent int
}

const defaultIndent = 2

// Filter returns the project keys from order whose key contains query
// (case-insensitive) and which are present in projects. Declared order is
// preserved.
func Filter(order []string, projects map[string]*model.ClaimSet, query string) []string {
	q := strings.ToLower(query)
	var keys []string
	for _, key := range order {
		if _, ok := projects[key]; !ok {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(key), q) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// Render writes the selected projects to w. An unknown sort key is an error
// before anything is written; an empty selection writes nothing and is not
// an error.
func Render(w io.Writer, projects map[string]*model.ClaimSet, order []string, opts Options) error {
	keys := Filter(order, projects, opts.Query)

	var sortKey model.Key
	if opts.SortKey != "" {
		sortKey = model.Key(opts.SortKey)
		if !model.ValidKey(sortKey) {
			return fmt.Errorf("unknown sort key %q", opts.SortKey)
		}
		sort.SliceStable(keys, func(i, j int) bool {
			return projects[keys[i]].Get(sortKey).Less(projects[keys[j]].Get(sortKey))
		})
	}

	indent := opts.Indent
	if indent == 0 {
		indent = defaultIndent
	}

	for _, key := range keys {
		switch {
		case opts.List && opts.SortKey != "":
			claim := projects[key].Get(sortKey).Format(false)
			if _, err := fmt.Fprintf(w, "%s %s\n", key, claim); err != nil {
				return err
			}
		case opts.List:
			if _, err := fmt.Fprintln(w, key); err != nil {
				return err
			}
		default:
			body := projects[key].Format(opts.Short, indent, opts.ShowSources)
			if _, err := fmt.Fprintf(w, "%s\n%s\n\n", key, body); err != nil {
				return err
			}
		}
	}

	return nil
}
