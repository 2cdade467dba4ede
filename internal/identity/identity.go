// Package identity issues and persists the opaque user identifier that
// partitions both the local and the remote store. The identifier is a
// best-effort unique token, not a verified account.
package identity

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	idFile   = "user_id"
	lockFile = "user_id.lock"
)

// Provider manages the persisted user identifier in a data directory.
type Provider struct {
	dir     string
	poll    time.Duration
	timeout time.Duration
	log     *zap.Logger
}

// New constructs a Provider. poll and timeout tune the advisory lock
// taken while creating a fresh identifier.
func New(dir string, poll, timeout time.Duration, log *zap.Logger) *Provider {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Provider{dir: dir, poll: poll, timeout: timeout, log: log}
}

// Get returns the persisted identifier without creating one. Storage
// unavailability degrades to a silent miss.
func (p *Provider) Get() (string, bool) {
	b, err := os.ReadFile(filepath.Join(p.dir, idFile))
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(string(b))
	return id, id != ""
}

// GetOrCreate returns the persisted identifier, synthesizing and
// persisting a new one on first call. Concurrent processes sharing the
// data directory are guarded by an advisory lock file with a bounded
// polling wait; after the timeout creation proceeds anyway (a harmless
// duplicate identity beats a deadlock).
func (p *Provider) GetOrCreate() string {
	if id, ok := p.Get(); ok {
		return id
	}

	acquired := p.acquireLock()
	if acquired {
		defer p.releaseLock()
	}

	// Another process may have won the race while we waited.
	if id, ok := p.Get(); ok {
		return id
	}

	id := newUserID()
	if err := os.MkdirAll(p.dir, 0o700); err != nil {
		p.log.Warn("identity dir unavailable, id not persisted", zap.Error(err))
		return id
	}
	if err := os.WriteFile(filepath.Join(p.dir, idFile), []byte(id), 0o600); err != nil {
		p.log.Warn("persist user id failed", zap.Error(err))
		return id
	}
	p.log.Info("created user id", zap.String("userID", id))
	return id
}

// Clear removes the persisted identifier (manual reset path).
func (p *Provider) Clear() error {
	err := os.Remove(filepath.Join(p.dir, idFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (p *Provider) acquireLock() bool {
	_ = os.MkdirAll(p.dir, 0o700)
	path := filepath.Join(p.dir, lockFile)
	deadline := time.Now().Add(p.timeout)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_ = f.Close()
			return true
		}
		if time.Now().After(deadline) {
			p.log.Warn("identity lock wait timed out, proceeding without it")
			return false
		}
		time.Sleep(p.poll)
	}
}

func (p *Provider) releaseLock() {
	_ = os.Remove(filepath.Join(p.dir, lockFile))
}

// newUserID combines the current instant with a random suffix.
// Collisions are accepted, not eliminated.
func newUserID() string {
	return fmt.Sprintf("%d_%d", time.Now().UnixMilli(), rand.IntN(100000))
}
