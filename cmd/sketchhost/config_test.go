package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configDoc = `
sketch:
  dir: examples/blink
  dataDir: examples/blink/assets
  output: out
runner:
  interval: 33
  maxFrames: 100
upstream:
  owner: someone
  repo: somelib
  branch: develop
  token: arst
`

func TestParseConfig(t *testing.T) {
	c, err := parseConfig([]byte(configDoc))
	require.NoError(t, err)

	assert.Equal(t, "examples/blink", c.Sketch.Dir)
	assert.Equal(t, "examples/blink/assets", c.Sketch.DataDir)
	assert.Equal(t, "out", c.Sketch.Output)
	assert.Equal(t, 33, c.Runner.Interval)
	assert.Equal(t, 100, c.Runner.MaxFrames)
	assert.Equal(t, "someone", c.Upstream.Owner)
	assert.Equal(t, "develop", c.Upstream.Branch)
	assert.Equal(t, "arst", c.Upstream.Token)
}

func TestParseConfigDefaults(t *testing.T) {
	c, err := parseConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, defaultInterval, c.Runner.Interval)
	assert.Equal(t, 0, c.Runner.MaxFrames)
	assert.Equal(t, "src", c.Sketch.Dir)
	assert.Equal(t, filepath.Join("src", "data"), c.Sketch.DataDir)
	assert.Equal(t, defaultOutputDir, c.Sketch.Output)
	assert.Equal(t, "FastLED", c.Upstream.Owner)
	assert.Equal(t, "FastLED", c.Upstream.Repo)
	assert.Equal(t, "master", c.Upstream.Branch)
}

func TestParseConfigDataDirFollowsSketchDir(t *testing.T) {
	c, err := parseConfig([]byte("sketch:\n  dir: demo\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("demo", "data"), c.Sketch.DataDir)
}

func TestParseConfigNegativeInterval(t *testing.T) {
	_, err := parseConfig([]byte("runner:\n  interval: -5\n"))
	assert.Error(t, err)
}

func TestParseConfigNegativeFrameBudget(t *testing.T) {
	_, err := parseConfig([]byte("runner:\n  maxFrames: -1\n"))
	assert.Error(t, err)
}

func TestParseConfigGarbage(t *testing.T) {
	_, err := parseConfig([]byte("}not yaml{"))
	assert.Error(t, err)
}
