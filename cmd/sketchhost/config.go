package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledsim/sketchhost/internal/paths"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultInterval  = 16 // milliseconds, roughly 60 frames per second
	defaultOutputDir = "fastled_js"
)

type Config struct {
	Sketch struct {
		Dir     string `yaml:"dir"`
		DataDir string `yaml:"dataDir"`
		Output  string `yaml:"output"`
	} `yaml:"sketch"`
	Runner struct {
		Interval  int `yaml:"interval"`
		MaxFrames int `yaml:"maxFrames"`
	} `yaml:"runner"`
	Upstream struct {
		Owner  string `yaml:"owner"`
		Repo   string `yaml:"repo"`
		Branch string `yaml:"branch"`
		Token  string `yaml:"token"`
	} `yaml:"upstream"`
}

func parseConfig(content []byte) (*Config, error) {
	c := &Config{}
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, err
	}

	if c.Runner.Interval < 0 {
		return nil, fmt.Errorf("runner interval cannot be negative")
	}
	if c.Runner.Interval == 0 {
		c.Runner.Interval = defaultInterval
	}
	if c.Runner.MaxFrames < 0 {
		return nil, fmt.Errorf("frame budget cannot be negative")
	}

	if c.Sketch.Dir == "" {
		c.Sketch.Dir = paths.SketchRoot()
	}
	if c.Sketch.DataDir == "" {
		c.Sketch.DataDir = filepath.Join(c.Sketch.Dir, "data")
	}
	if c.Sketch.Output == "" {
		c.Sketch.Output = defaultOutputDir
	}

	if c.Upstream.Owner == "" {
		c.Upstream.Owner = "FastLED"
	}
	if c.Upstream.Repo == "" {
		c.Upstream.Repo = "FastLED"
	}
	if c.Upstream.Branch == "" {
		c.Upstream.Branch = "master"
	}

	return c, nil
}

func readConfig(file string) (*Config, error) {
	content, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		log.Debugf("No config at %s. Using defaults.", file)
		return parseConfig(nil)
	}
	if err != nil {
		return nil, err
	}
	return parseConfig(content)
}
