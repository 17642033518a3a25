package manifest

import (
	"slices"
	"strings"
)

// Version constraint operators.
const (
	// OpExact pins a requirement to one version.
	OpExact = "=="
	// OpAtLeast sets a minimum version.
	OpAtLeast = ">="
)

// vcsSchemes is the fixed allow-list of version-control locator prefixes.
var vcsSchemes = []string{
	"git", "git+http", "git+ssh",
	"hg+http", "hg+https", "hg+static-http", "hg+ssh",
	"bzr+http", "bzr+https", "bzr+ssh", "bzr+sftp", "bzr+ftp", "bzr+lp",
	"svn", "svn+svn", "svn+http", "svn+https", "svn+ssh",
}

// Requirement is a single parsed dependency specifier.
type Requirement struct {
	// Params holds free-form flags attached to the entry, such as the
	// editable-install marker. Order is irrelevant and duplicates collapse.
	Params map[string]struct{}

	// Name is the canonical package identifier. Never empty once parsed.
	Name string

	// URL locates the source: equal to Name for plain index installs, a
	// full HTTP(S) URL, or a version-control locator. Never empty.
	URL string

	// Op is the version constraint operator, OpExact or OpAtLeast, or
	// empty when the requirement is unconstrained.
	Op string

	// Version is the constraint version. Set exactly when Op is set.
	Version string
}

// AddParam records a flag on the requirement.
func (r *Requirement) AddParam(flag string) {
	if r.Params == nil {
		r.Params = make(map[string]struct{})
	}
	r.Params[flag] = struct{}{}
}

// VCS reports whether the requirement's URL is a version-control locator,
// recognized by a fixed allow-list of scheme prefixes.
func (r *Requirement) VCS() bool {
	return isVCS(r.URL)
}

// String renders the requirement in the generated manifest form: each param
// followed by a space, then the URL, operator, and version concatenated.
// Params are rendered in sorted order so the result is deterministic.
func (r *Requirement) String() string {
	var b strings.Builder
	for _, p := range r.sortedParams() {
		b.WriteString(p)
		b.WriteByte(' ')
	}
	b.WriteString(r.URL)
	b.WriteString(r.Op)
	b.WriteString(r.Version)
	return b.String()
}

func (r *Requirement) sortedParams() []string {
	if len(r.Params) == 0 {
		return nil
	}
	params := make([]string, 0, len(r.Params))
	for p := range r.Params {
		params = append(params, p)
	}
	slices.Sort(params)
	return params
}

func isVCS(url string) bool {
	for _, scheme := range vcsSchemes {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}
