/*
 * Trackq is a headless music player and playback queue manager for local files.
 * Copyright (C) 2020 Tero Vierimaa
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package task provides a common base for background tasks that are started and stopped with application.
package task

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Tasker can be started and stopped.
type Tasker interface {
	Start() error
	Stop() error
}

// Task is a background worker loop that can be embedded in other structs. Set loop function
// with SetLoop before starting. The loop function must return promptly when StopChan closes.
type Task struct {
	// Name of the task, for logging
	Name string

	lock     sync.RWMutex
	running  bool
	chanStop chan bool
	loop     func()
}

// SetLoop sets the function that is run as the background loop.
func (t *Task) SetLoop(loop func()) {
	t.loop = loop
}

// StopChan returns a channel that closes when the task must stop.
func (t *Task) StopChan() chan bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.chanStop
}

func (t *Task) isRunning() bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.running
}

// Start starts the task loop in a new goroutine. Starting an already running task is an error.
func (t *Task) Start() error {
	if t.isRunning() {
		return fmt.Errorf("task %s already running", t.Name)
	}
	if t.loop == nil {
		return fmt.Errorf("task %s has no loop defined", t.Name)
	}
	t.lock.Lock()
	t.running = true
	t.chanStop = make(chan bool)
	t.lock.Unlock()
	logrus.Debugf("start task %s", t.Name)
	go t.run()
	return nil
}

func (t *Task) run() {
	t.loop()
	t.lock.Lock()
	t.running = false
	t.lock.Unlock()
	logrus.Debugf("task %s stopped", t.Name)
}

// Stop signals the task loop to stop. Stopping an already stopped task is an error.
func (t *Task) Stop() error {
	if !t.isRunning() {
		return fmt.Errorf("task %s not running", t.Name)
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	close(t.chanStop)
	return nil
}
