package upstream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/go-github/v32/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const MinRatePercentage = 20

var ErrRateLimited = errors.New("rate limiting safety margin has been hit")

// ChangeEvent is emitted when the head of a watched branch moves.
type ChangeEvent struct {
	Owner  string
	Repo   string
	Branch string
	SHA    string
}

// Tracker polls GitHub for new commits on the upstream library branch.
type Tracker struct {
	client     *github.Client
	rate       *github.Rate
	killSwitch chan struct{}
	changes    chan ChangeEvent
	stopper    sync.Once
}

// NewTracker creates a tracker. An empty token means anonymous API access,
// which is fine for the default polling cadence.
func NewTracker(token string) *Tracker {
	var client *github.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		client = github.NewClient(oauth2.NewClient(context.Background(), ts))
	} else {
		client = github.NewClient(nil)
	}

	return NewTrackerWithClient(client)
}

// NewTrackerWithClient creates a tracker around a pre-built API client.
func NewTrackerWithClient(client *github.Client) *Tracker {
	log.Debug("Initializing the tracker...")
	t := Tracker{client: client}
	t.changes = make(chan ChangeEvent, 10)
	t.killSwitch = make(chan struct{})

	return &t
}

func (t *Tracker) Changes() <-chan ChangeEvent {
	return t.changes
}

func (t *Tracker) Close() error {
	t.stopper.Do(func() {
		close(t.killSwitch)
	})
	return nil
}

// CheckRate refuses further API calls when less than MinRatePercentage of
// the request budget remains for the current window.
func (t *Tracker) CheckRate() error {
	if t.rate == nil {
		log.Debug("No requests have been made.")
		return nil
	}
	if t.rate.Reset.Before(time.Now()) {
		log.Debug("Rate limit has reset.")
		return nil
	}

	percent := t.rate.Remaining * 100 / t.rate.Limit
	if percent > MinRatePercentage {
		return nil
	}
	return ErrRateLimited
}

// HeadCommit returns the SHA at the tip of the branch.
func (t *Tracker) HeadCommit(ctx context.Context, owner, repo, branch string) (string, error) {
	if err := t.CheckRate(); err != nil {
		return "", err
	}

	branchInfo, res, err := t.client.Repositories.GetBranch(ctx, owner, repo, branch)
	if err != nil {
		return "", err
	}
	t.rate = &res.Rate

	return branchInfo.GetCommit().GetSHA(), nil
}

// AddWatch starts polling the branch head and reports moves on the change
// channel. The initial head is fetched synchronously so a broken repo name
// fails fast.
func (t *Tracker) AddWatch(owner, repo, branch string, interval time.Duration) error {
	sha, err := t.HeadCommit(context.Background(), owner, repo, branch)
	if err != nil {
		return err
	}

	go func() {
		log.Infof("Starting to watch %s/%s:%s starting from %s", owner, repo, branch, sha)
		tick := time.NewTicker(interval)
		defer tick.Stop()

		for {
			select {
			case <-tick.C:
				// fall out of the select and do the work.
			case _, open := <-t.killSwitch:
				if !open {
					log.Debugf("Kill switch flipped. Stopping watch of %s/%s", owner, repo)
					return
				}
			}

			newSha, err := t.HeadCommit(context.Background(), owner, repo, branch)
			if err != nil {
				log.Warnf("error when watching %s/%s: %v", owner, repo, err)
				continue
			}

			if newSha != sha {
				log.Debugf("%s/%s:%s has new commit: %s (old: %s)", owner, repo, branch, newSha, sha)
				sha = newSha
				t.changes <- ChangeEvent{
					Owner:  owner,
					Repo:   repo,
					Branch: branch,
					SHA:    sha,
				}
			}
		}
	}()

	return nil
}
