package model

import "fmt"

// Key identifies one well-known project attribute.
type Key string

// The fixed attribute schema. Every adapter reports a subset of these keys;
// anything else is rejected by ClaimSet.Update.
const (
	KeyName               Key = "name"
	KeyDescription        Key = "description"
	KeyVersion            Key = "version"
	KeyHomepage           Key = "homepage"
	KeyCreated            Key = "created"
	KeyUpdated            Key = "updated"
	KeyLicense            Key = "license"
	KeyLanguage           Key = "language"
	KeyTests              Key = "tests"
	KeyCommitCount        Key = "commit_count"
	KeyFileCount          Key = "file_count"
	KeyUnstagedChanges    Key = "unstaged_changes"
	KeyUncommittedChanges Key = "uncommitted_changes"
	KeyUpToDate           Key = "up_to_date"
	KeyContributors       Key = "contributors"
	KeyDownloads          Key = "downloads"
	KeyOpenIssues         Key = "open_issues"
	KeyOpenPullRequests   Key = "open_pull_requests"
	KeyForksCount         Key = "forks_count"
	KeyStargazersCount    Key = "stargazers_count"
	KeySubscribersCount   Key = "subscribers_count"
	KeyWatchersCount      Key = "watchers_count"
	KeyCheesecakeIndex    Key = "cheesecake_index"
)

// keys holds the canonical display order. The first shortCount entries form
// the "short" report.
var keys = []Key{
	KeyName,
	KeyDescription,
	KeyVersion,
	KeyHomepage,
	KeyCreated,
	KeyUpdated,
	KeyLicense,
	KeyLanguage,
	KeyTests,
	KeyCommitCount,
	KeyFileCount,
	KeyUnstagedChanges,
	KeyUncommittedChanges,
	KeyUpToDate,
	KeyContributors,
	KeyDownloads,
	KeyOpenIssues,
	KeyOpenPullRequests,
	KeyForksCount,
	KeyStargazersCount,
	KeySubscribersCount,
	KeyWatchersCount,
	KeyCheesecakeIndex,
}

var validKeys = func() map[Key]struct{} {
	m := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}()

// Keys returns the attribute schema in canonical display order.
func Keys() []Key {
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// ValidKey reports whether k belongs to the attribute schema.
func ValidKey(k Key) bool {
	_, ok := validKeys[k]
	return ok
}

// SchemaError reports an attribute key outside the fixed schema.
type SchemaError struct {
	Key Key
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unknown attribute key %q", string(e.Key))
}
