// Package goldie compares test output with golden files under testdata.
package goldie

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func New(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
		goldie.WithDiffEngine(goldie.ClassicDiff),
	)
}

// Assert compares actual with testdata/<name>.golden. Line endings are normalized, golden
// files checked out on windows still match. Run the test with -update to rewrite the file.
func Assert(t *testing.T, name string, actual []byte) {
	t.Helper()
	New(t).Assert(t, name, bytes.ReplaceAll(actual, []byte("\r\n"), []byte("\n")))
}
