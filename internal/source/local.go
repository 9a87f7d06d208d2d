package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/projstat/internal/model"
)

// Local inspects a git checkout on disk by shelling out to git. The
// identifier is the path of the working tree.
type Local struct {
	runner Runner
}

func (l *Local) Kind() Kind { return KindLocal }

func (l *Local) Fetch(ctx context.Context, identifier string, cfg *model.Config) (model.Attributes, error) {
	git := func(args ...string) (string, error) {
		out, err := l.runner.Run(ctx, "git", append([]string{"-C", identifier}, args...)...)
		return string(out), err
	}

	revs, err := git("rev-list", "HEAD")
	if err != nil {
		return nil, err
	}
	revisions := splitLines(revs)

	files, err := git("ls-files")
	if err != nil {
		return nil, err
	}

	status, err := git("status")
	if err != nil {
		return nil, err
	}

	tags, err := git("tag")
	if err != nil {
		return nil, err
	}

	contributors, err := git("shortlog", "-s", "HEAD")
	if err != nil {
		return nil, err
	}

	attrs := model.Attributes{
		model.KeyName:               model.StringValue(baseName(identifier)),
		model.KeyFileCount:          model.IntValue(int64(len(splitLines(files)))),
		model.KeyCommitCount:        model.IntValue(int64(len(revisions))),
		model.KeyUnstagedChanges:    model.BoolValue(strings.Contains(status, "Changes not staged for commit")),
		model.KeyUncommittedChanges: model.BoolValue(strings.Contains(status, "Changes to be committed")),
		model.KeyUpToDate:           model.BoolValue(upToDate(status)),
		model.KeyVersion:            model.StringValue(latestTag(splitLines(tags))),
		model.KeyContributors:       model.IntValue(int64(len(splitLines(contributors)))),
	}

	if len(revisions) > 0 {
		root := revisions[len(revisions)-1]
		created, err := revTime(git, root)
		if err != nil {
			return nil, err
		}
		updated, err := revTime(git, "HEAD")
		if err != nil {
			return nil, err
		}
		attrs[model.KeyCreated] = model.TimeValue(created)
		attrs[model.KeyUpdated] = model.TimeValue(updated)
	}

	return attrs, nil
}

// revTime reads the author date of rev in git's ISO format (%ai).
func revTime(git func(...string) (string, error), rev string) (time.Time, error) {
	out, err := git("show", "-s", "--format=%ai", rev)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02 15:04:05 -0700", strings.TrimSpace(out))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse git date %q: %w", strings.TrimSpace(out), err)
	}
	return t, nil
}

// upToDate matches both the current and the pre-2.15 git phrasing.
func upToDate(status string) bool {
	return strings.Contains(status, "Your branch is up to date with") ||
		strings.Contains(status, "Your branch is up-to-date with")
}

func baseName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.Base(abs)
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
