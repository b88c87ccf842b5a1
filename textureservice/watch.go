package textureservice

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/poppolopoppo/texturepipeline/texcore"
)

// SourceWatcher watches a directory tree for texture-source file
// changes and invokes a callback per changed path. It maintains its
// fsnotify watch list recursively: walk once at startup to seed the
// watch list, then add newly created directories as they appear.
type SourceWatcher struct {
	watcher *fsnotify.Watcher
	onEvent func(path string)

	mu   sync.Mutex
	done chan struct{}
}

// WatchSource starts watching root recursively, invoking onEvent for
// every create or write event on a file extension known to the
// service (i.e. an extension some registered image-format codec
// claims). Call Close to stop watching.
func (s *Service) WatchSource(root string, onEvent func(path string)) (*SourceWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	sw := &SourceWatcher{watcher: fsWatch, onEvent: onEvent, done: make(chan struct{})}

	if err := sw.watchRecursive(root); err != nil {
		fsWatch.Close()
		return nil, err
	}
	go sw.run(s)
	return sw, nil
}

func (sw *SourceWatcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return sw.watcher.Add(path)
		}
		return nil
	})
}

func (sw *SourceWatcher) run(s *Service) {
	for {
		select {
		case e, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if info, err := os.Stat(e.Name); err == nil && info.IsDir() && e.Op&fsnotify.Create != 0 {
				sw.watchRecursive(e.Name)
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if _, err := s.ImageFormatByExtension(filepath.Ext(e.Name)); err != nil {
				continue
			}
			sw.onEvent(e.Name)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			texcore.LogError("texture source watch: %v", err)

		case <-sw.done:
			return
		}
	}
}

// Close stops the watcher and releases its underlying fsnotify handle.
func (sw *SourceWatcher) Close() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	select {
	case <-sw.done:
	default:
		close(sw.done)
	}
	return sw.watcher.Close()
}
