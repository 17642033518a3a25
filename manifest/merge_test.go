package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReq(name, url, op, version string, params ...string) *Requirement {
	r := &Requirement{Name: name, URL: url, Op: op, Version: version}
	for _, p := range params {
		r.AddParam(p)
	}
	return r
}

func TestMergePinWithMinimum(t *testing.T) {
	t.Parallel()

	a := newReq("flask", "flask", OpExact, "1.0")
	b := newReq("flask", "flask", OpAtLeast, "0.9")

	c, err := Merge(a, b)
	require.NoError(t, err)

	assert.Equal(t, "flask", c.Name)
	assert.Equal(t, "flask", c.URL)
	assert.Equal(t, OpExact, c.Op)
	assert.Equal(t, "1.0", c.Version)
}

func TestMergeCommutative(t *testing.T) {
	t.Parallel()

	pairs := [][2]*Requirement{
		{newReq("flask", "flask", OpExact, "1.0"), newReq("flask", "flask", OpAtLeast, "0.9")},
		{newReq("flask", "flask", OpAtLeast, "1.2"), newReq("flask", "flask", OpAtLeast, "1.10")},
		{newReq("flask", "flask", "", ""), newReq("flask", "flask", OpExact, "2.0")},
		{newReq("flask", "flask", "", "", "-e"), newReq("flask", "flask", "", "")},
	}
	for _, pair := range pairs {
		ab, err := Merge(pair[0], pair[1])
		require.NoError(t, err)
		ba, err := Merge(pair[1], pair[0])
		require.NoError(t, err)
		assert.Equal(t, ab, ba, "merge(%s, %s)", pair[0], pair[1])
	}
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()

	reqs := []*Requirement{
		newReq("flask", "flask", "", ""),
		newReq("flask", "flask", OpExact, "1.0"),
		newReq("flask", "flask", OpAtLeast, "0.9", "-e"),
		newReq("flask", "git+ssh://x/y#egg=flask", "", ""),
	}
	for _, r := range reqs {
		c, err := Merge(r, r)
		require.NoError(t, err)
		assert.Equal(t, r, c, "merge(%s, %s)", r, r)
	}
}

func TestMergeTakesNaturalHigherVersion(t *testing.T) {
	t.Parallel()

	a := newReq("flask", "flask", OpAtLeast, "1.9")
	b := newReq("flask", "flask", OpAtLeast, "1.10")

	c, err := Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, OpAtLeast, c.Op)
	assert.Equal(t, "1.10", c.Version)
}

func TestMergeConflictingPins(t *testing.T) {
	t.Parallel()

	a := newReq("flask", "flask", OpExact, "1.0")
	b := newReq("flask", "flask", OpExact, "2.0")

	_, err := Merge(a, b)
	require.ErrorIs(t, err, ErrConflictingVersion)
}

func TestMergePinBelowMinimum(t *testing.T) {
	t.Parallel()

	a := newReq("flask", "flask", OpExact, "1.0")
	b := newReq("flask", "flask", OpAtLeast, "2.0")

	_, err := Merge(a, b)
	require.ErrorIs(t, err, ErrConflictingVersion)
}

func TestMergeUnconstrainedSideCopiesOther(t *testing.T) {
	t.Parallel()

	a := newReq("flask", "flask", "", "")
	b := newReq("flask", "flask", OpExact, "2.0")

	c, err := Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, OpExact, c.Op)
	assert.Equal(t, "2.0", c.Version)

	c, err = Merge(b, a)
	require.NoError(t, err)
	assert.Equal(t, OpExact, c.Op)
	assert.Equal(t, "2.0", c.Version)
}

func TestMergeNoOperators(t *testing.T) {
	t.Parallel()

	c, err := Merge(newReq("flask", "flask", "", ""), newReq("flask", "flask", "", ""))
	require.NoError(t, err)
	assert.Empty(t, c.Op)
	assert.Empty(t, c.Version)
}

func TestMergeSameVCS(t *testing.T) {
	t.Parallel()

	a := newReq("flask", "git+ssh://x/y#egg=flask", "", "")
	b := newReq("flask", "git+ssh://x/y#egg=flask", "", "")

	c, err := Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, "git+ssh://x/y#egg=flask", c.URL)
	assert.Empty(t, c.Op)
}

func TestMergeDifferentVCS(t *testing.T) {
	t.Parallel()

	a := newReq("flask", "git+ssh://x/y#egg=flask", "", "")
	b := newReq("flask", "git+ssh://other/y#egg=flask", "", "")

	_, err := Merge(a, b)
	require.ErrorIs(t, err, ErrConflictingSource)
}

func TestMergeVCSWinsOverIndex(t *testing.T) {
	t.Parallel()

	vcs := newReq("flask", "git+ssh://x/y#egg=flask", "", "")
	plain := newReq("flask", "flask", "", "")

	c, err := Merge(plain, vcs)
	require.NoError(t, err)
	assert.Equal(t, vcs.URL, c.URL)

	c, err = Merge(vcs, plain)
	require.NoError(t, err)
	assert.Equal(t, vcs.URL, c.URL)
}

func TestMergeVCSRejectsVersionConstraint(t *testing.T) {
	t.Parallel()

	vcs := newReq("flask", "git+ssh://x/y#egg=flask", "", "")
	pinned := newReq("flask", "flask", OpExact, "1.0")

	_, err := Merge(vcs, pinned)
	require.ErrorIs(t, err, ErrConflictingVersion)

	_, err = Merge(pinned, vcs)
	require.ErrorIs(t, err, ErrConflictingVersion)
}

func TestMergeUnionsParams(t *testing.T) {
	t.Parallel()

	a := newReq("flask", "flask", "", "", "-e")
	b := newReq("flask", "flask", "", "", "-e", "--no-deps")

	c, err := Merge(a, b)
	require.NoError(t, err)
	assert.Len(t, c.Params, 2)
	assert.Contains(t, c.Params, "-e")
	assert.Contains(t, c.Params, "--no-deps")
}

func TestMergeDifferentNames(t *testing.T) {
	t.Parallel()

	_, err := Merge(newReq("flask", "flask", "", ""), newReq("django", "django", "", ""))
	require.Error(t, err)
}
