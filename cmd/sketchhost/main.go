package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ledsim/sketchhost/internal/manifest"
	"github.com/ledsim/sketchhost/internal/module"
	"github.com/ledsim/sketchhost/internal/paths"
	"github.com/ledsim/sketchhost/internal/runner"
	"github.com/ledsim/sketchhost/internal/sketchsync"
	"github.com/ledsim/sketchhost/internal/upstream"
	log "github.com/sirupsen/logrus"
)

type colorFormatter struct {
	log.TextFormatter
}

func (f *colorFormatter) Format(entry *log.Entry) ([]byte, error) {
	var levelColor int
	switch entry.Level {
	case log.DebugLevel, log.TraceLevel:
		levelColor = 90 // dark grey
	case log.WarnLevel:
		levelColor = 33 // yellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		levelColor = 91 // bright red
	default:
		levelColor = 39 // default
	}
	return []byte(fmt.Sprintf("\x1b[%dm%s\x1b[0m\n", levelColor, entry.Message)), nil
}

func main() {
	log.SetFormatter(&colorFormatter{})

	if err := RootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func runSketch(configFile string) error {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	conf, err := readConfig(configFile)
	if err != nil {
		return err
	}

	changed, err := sketchsync.Sync(conf.Sketch.Dir, filepath.Join(paths.BuildRoot(), "src"))
	if err != nil {
		return err
	}
	if changed {
		log.Info("Sketch sources changed since last run.")
	}

	outDir := filepath.Join(conf.Sketch.Dir, conf.Sketch.Output)
	m, err := manifest.Build(conf.Sketch.DataDir, outDir)
	if err != nil {
		return err
	}
	if _, err := m.Write(outDir); err != nil {
		return err
	}
	payload, err := m.JSON()
	if err != nil {
		return err
	}

	hooks, err := module.Resolve(module.Exports())
	if err != nil {
		return err
	}

	r := runner.New(
		runner.NewConsoleDisplay(),
		time.Duration(conf.Runner.Interval)*time.Millisecond,
		conf.Runner.MaxFrames,
	)

	go func() {
		for e := range r.Frames() {
			log.Debugf("Frame %d finished with code %d", e.Frame, e.Code)
		}
	}()

	go func() {
		<-signalChan
		log.Info("Shutting down...")
		r.Close()
	}()

	if err := r.Run(hooks, string(payload)); err != nil {
		return err
	}

	log.Info("Done...")
	return nil
}

func updateLibrary(configFile string) error {
	conf, err := readConfig(configFile)
	if err != nil {
		return err
	}
	up := conf.Upstream

	tracker := upstream.NewTracker(up.Token)
	sha, err := tracker.HeadCommit(context.Background(), up.Owner, up.Repo, up.Branch)
	if err != nil {
		log.Warnf("Could not resolve upstream head: %v", err)
	} else {
		log.Infof("Upstream %s/%s:%s is at %s", up.Owner, up.Repo, up.Branch, sha)
	}

	installer := upstream.Installer{Root: paths.LibraryRoot()}
	if err := installer.Fetch(context.Background(), up.Owner, up.Repo, up.Branch); err != nil {
		return err
	}

	if !installer.Installed() {
		return fmt.Errorf("archive did not contain a library source tree")
	}
	return nil
}
