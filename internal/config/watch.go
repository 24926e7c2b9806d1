// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration file when it changes.
type Watcher struct {
	w       *fsnotify.Watcher
	path    string
	changes chan *Config
	errs    chan error
	done    chan struct{}
}

// Watch starts watching the configuration file at path.
//
// The containing directory is watched, so the file may be replaced as well
// as rewritten.
func Watch(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	if err = fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	w := Watcher{
		w:       fw,
		path:    path,
		changes: make(chan *Config, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.watch()
	return &w, nil
}

func (w *Watcher) watch() {
	defer close(w.done)
	for {
		select {
		case evt, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.sendErr(err)
				continue
			}
			// only the latest config matters
			select {
			case <-w.changes:
			default:
			}
			w.changes <- cfg
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		}
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

// Changes returns the channel of reloaded configurations.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// Errors returns the channel of errors encountered while reloading.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching the file.
func (w *Watcher) Close() error {
	err := w.w.Close()
	<-w.done
	return err
}
