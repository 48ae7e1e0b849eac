package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/teranos/derive/annotation"
	"github.com/teranos/derive/config"
	"github.com/teranos/derive/derivegen"
	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})
	err := RootCmd.Execute()
	return out.String(), err
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Get().Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestInitWritesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "init")
	require.NoError(t, err)

	loaded, err := config.LoadFromFile(config.FileName)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Output, loaded.Output)
	assert.Equal(t, config.Default().Debug.Bound, loaded.Debug.Bound)

	_, err = execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Contains(t, errors.FlattenHints(err), "--force")
}

func TestSummarize(t *testing.T) {
	attr := &annotation.AttributeError{Owner: "Args", Msg: `expected '+builder:each="..."'`}
	err := summarize(multierr.Combine(attr, errors.New("boom")))
	assert.True(t, errors.Is(err, errors.ErrAttribute))
	assert.Equal(t, "1 of 2 error(s) are annotation errors", err.Error())

	err = summarize(errors.New("boom"))
	assert.False(t, errors.Is(err, errors.ErrAttribute))
	assert.Equal(t, "1 error(s) during generation", err.Error())
}

func TestWatchDirs(t *testing.T) {
	a := filepath.Join(os.TempDir(), "a")
	b := filepath.Join(os.TempDir(), "b")
	files := []*derivegen.File{
		{Source: filepath.Join(b, "x.go")},
		{Source: filepath.Join(a, "y.go")},
		{Source: filepath.Join(b, "z.go")},
	}
	assert.Equal(t, []string{a, b}, watchDirs(files))
}

func TestRelative(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	assert.Equal(t, filepath.Join("pkg", "a.go"), relative(filepath.Join(dir, "pkg", "a.go")))
}
