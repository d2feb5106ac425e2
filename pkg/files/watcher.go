package files

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"jasper-launcher/pkg/log"
)

const defaultInterval = 2 * time.Second

// FileWatcher polls a file and calls onChange when its modification time or
// size changes.
type FileWatcher struct {
	filePath string
	interval time.Duration
	onChange func(string)

	mu      sync.Mutex
	lastMod time.Time
	size    int64
	stopCh  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(filePath string, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		filePath: filePath,
		interval: defaultInterval,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
}

// SetInterval sets the polling interval. It must be called before Start.
func (w *FileWatcher) SetInterval(interval time.Duration) {
	if interval > 0 {
		w.interval = interval
	}
}

// Start records the current state of the file and begins polling.
func (w *FileWatcher) Start(ctx context.Context) error {
	info, err := os.Stat(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", w.filePath, err)
	}
	w.mu.Lock()
	w.lastMod = info.ModTime()
	w.size = info.Size()
	w.mu.Unlock()

	w.wg.Add(1)
	go w.watchLoop(ctx)
	log.Debug("File watcher started", "path", w.filePath, "interval", w.interval)
	return nil
}

// Stop stops polling and waits for an in-flight callback to return.
func (w *FileWatcher) Stop() {
	w.once.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// GetFilePath returns the path of the file being watched
func (w *FileWatcher) GetFilePath() string {
	return w.filePath
}

func (w *FileWatcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.checkForChanges()
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

func (w *FileWatcher) checkForChanges() {
	info, err := os.Stat(w.filePath)
	if err != nil {
		log.Debug("Watched file unavailable", "path", w.filePath, "error", err)
		return
	}

	w.mu.Lock()
	changed := !info.ModTime().Equal(w.lastMod) || info.Size() != w.size
	w.lastMod = info.ModTime()
	w.size = info.Size()
	w.mu.Unlock()

	if changed && w.onChange != nil {
		log.Debug("Watched file changed", "path", w.filePath)
		w.onChange(w.filePath)
	}
}
