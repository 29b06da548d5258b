// Package notify tells the mod loader that the active-links root changed.
//
// The loader watches its folder for marker files. SignalNotifier writes a
// millisecond timestamp into .reload_signal and .mod_timestamp, and drops a
// short-lived mod_reload_trigger.ini that forces a config reload. The trigger
// file is removed again after a TTL.
package notify

import (
	"bytes"
	_ "embed"
	"path/filepath"
	"strconv"
	"sync"
	"text/template"
	"time"

	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/logging"
	"github.com/arthur-debert/modlink/pkg/types"
	"github.com/rs/zerolog"
)

// Marker file names written into the active-links root
const (
	SignalFile    = ".reload_signal"
	TimestampFile = ".mod_timestamp"
	TriggerFile   = "mod_reload_trigger.ini"
)

//go:embed trigger.ini.tmpl
var triggerSource string

var triggerTemplate = template.Must(template.New("trigger").Parse(triggerSource))

// Notifier signals that the set of active mods changed
type Notifier interface {
	Notify(activeRoot string) error
}

// Noop is a Notifier that does nothing
type Noop struct{}

// Notify implements Notifier
func (Noop) Notify(string) error { return nil }

// SignalNotifier writes marker files for the loader to pick up
type SignalNotifier struct {
	fs     types.FS
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu      sync.Mutex
	pending sync.WaitGroup
	timers  map[string]*time.Timer
}

// NewSignalNotifier creates a notifier whose trigger file lives for ttl.
// A ttl of zero or less skips the trigger file.
func NewSignalNotifier(fsys types.FS, ttl time.Duration) *SignalNotifier {
	return &SignalNotifier{
		fs:     fsys,
		ttl:    ttl,
		now:    time.Now,
		logger: logging.GetLogger("notify"),
		timers: map[string]*time.Timer{},
	}
}

// Notify writes the marker files into activeRoot and schedules removal of
// the trigger file. A second call before the TTL expires restarts the clock.
func (n *SignalNotifier) Notify(activeRoot string) error {
	if activeRoot == "" {
		return errors.New(errors.ErrPathsNotConfigured, "active folder is not configured")
	}
	info, err := n.fs.Stat(activeRoot)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNotify, "cannot signal reload in %s", activeRoot)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrNotify, "cannot signal reload, %s is not a folder", activeRoot)
	}

	now := n.now()
	stamp := []byte(strconv.FormatInt(now.UnixMilli(), 10))
	for _, name := range []string{SignalFile, TimestampFile} {
		path := filepath.Join(activeRoot, name)
		if err := n.fs.WriteFile(path, stamp, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrNotify, "cannot write %s", path)
		}
	}
	n.logger.Info().Str("root", activeRoot).Str("timestamp", string(stamp)).Msg("Wrote reload signal")

	if n.ttl <= 0 {
		return nil
	}
	return n.writeTrigger(activeRoot, now)
}

func (n *SignalNotifier) writeTrigger(activeRoot string, now time.Time) error {
	var buf bytes.Buffer
	err := triggerTemplate.Execute(&buf, struct {
		Created   string
		Timestamp int64
	}{
		Created:   now.Format("2006-01-02 15:04:05"),
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render reload trigger")
	}

	path := filepath.Join(activeRoot, TriggerFile)
	if err := n.fs.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrNotify, "cannot write %s", path)
	}

	n.schedule(path)
	return nil
}

// schedule arranges for path to be removed after the TTL, replacing any
// earlier timer for the same file
func (n *SignalNotifier) schedule(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if old, ok := n.timers[path]; ok && old.Stop() {
		n.pending.Done()
	}

	n.pending.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(n.ttl, func() {
		defer n.pending.Done()
		n.mu.Lock()
		current := n.timers[path] == timer
		if current {
			delete(n.timers, path)
		}
		n.mu.Unlock()

		// superseded by a newer trigger or flushed
		if !current {
			return
		}
		if err := n.fs.Remove(path); err != nil {
			n.logger.Debug().Err(err).Str("path", path).Msg("Reload trigger already gone")
			return
		}
		n.logger.Debug().Str("path", path).Msg("Removed reload trigger")
	})
	n.timers[path] = timer
}

// Wait blocks until every scheduled trigger removal has run
func (n *SignalNotifier) Wait() {
	n.pending.Wait()
}

// Flush removes pending trigger files now instead of waiting for the TTL
func (n *SignalNotifier) Flush() {
	n.mu.Lock()
	paths := make([]string, 0, len(n.timers))
	for path, timer := range n.timers {
		if timer.Stop() {
			n.pending.Done()
		}
		paths = append(paths, path)
		delete(n.timers, path)
	}
	n.mu.Unlock()

	for _, path := range paths {
		if err := n.fs.Remove(path); err != nil {
			n.logger.Debug().Err(err).Str("path", path).Msg("Reload trigger already gone")
		}
	}
}
