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

package player

import (
	"sync"

	"github.com/sirupsen/logrus"
	"tryffel.net/go/trackq/models"
)

// Controller implements interfaces.QueueController: it owns the play queue and the
// cursor to the currently playing element and translates user and playback events
// into cursor moves. Commands arrive from both user actions and audio callbacks,
// every public method runs as a whole under one lock. No I/O happens under the lock.
type Controller struct {
	lock sync.RWMutex

	queue   *Queue
	current ElementHandle
	shuffle bool
	repeat  models.RepeatMode

	queueChangedCallbacks []func(tracks []models.Track)
	trackChangedCallbacks []func(track *models.Track)
}

func NewController() *Controller {
	return &Controller{
		queue:   newQueue(),
		current: NoElement,
	}
}

// PlayNow seeds an empty queue with track and makes it current.
// On a non-empty queue this is a no-op: play-now never interrupts an ongoing queue.
func (c *Controller) PlayNow(track models.Track) {
	c.lock.Lock()
	if !c.queue.Empty() {
		c.lock.Unlock()
		logrus.Debugf("play now on non-empty queue, ignoring track %s", track.Id)
		return
	}
	c.current = c.queue.Append(track)
	tracks, current := c.snapshot()
	c.lock.Unlock()

	c.flushQueueChanged(tracks)
	c.flushTrackChanged(current)
}

// Enqueue adds track to the end of the queue. Duplicate ids are ignored.
// The first track added to an empty queue becomes current.
func (c *Controller) Enqueue(track models.Track) {
	c.lock.Lock()
	if c.queue.FindTrack(track.Id).Valid() {
		c.lock.Unlock()
		logrus.Debugf("track %s already queued", track.Id)
		return
	}
	h := c.queue.Append(track)
	first := c.queue.Size() == 1
	if first {
		c.current = h
	}
	tracks, current := c.snapshot()
	c.lock.Unlock()

	c.flushQueueChanged(tracks)
	if first {
		c.flushTrackChanged(current)
	}
}

// Dequeue removes the track with given id, unknown id is a no-op. If the removed
// element is current, the cursor moves before removal: with shuffle to a random
// other element, otherwise to the successor, wrapping from the tail to the head.
// Note the wrap: this intentionally differs from Advance, which stops at the tail
// unless repeat-all is set.
func (c *Controller) Dequeue(id models.Id) {
	c.lock.Lock()
	h := c.queue.FindTrack(id)
	if !h.Valid() {
		c.lock.Unlock()
		logrus.Debugf("dequeue unknown track %s", id)
		return
	}

	wasCurrent := h == c.current
	if wasCurrent {
		var replacement ElementHandle
		if c.shuffle {
			replacement = c.queue.RandomExcluding(c.current)
		} else {
			replacement = c.queue.Next(c.current)
			if !replacement.Valid() {
				replacement = c.queue.Head()
			}
		}
		if replacement == h {
			// removing the only track
			replacement = NoElement
		}
		c.current = replacement
	}

	if err := c.queue.Remove(h); err != nil {
		logrus.Errorf("remove queue element: %v", err)
	}
	tracks, current := c.snapshot()
	c.lock.Unlock()

	c.flushQueueChanged(tracks)
	if wasCurrent {
		c.flushTrackChanged(current)
	}
}

// Reorder moves track dragged immediately before track target, or to the end of
// the queue if target is empty. Unresolved ids and dragging onto itself are no-ops.
func (c *Controller) Reorder(dragged models.Id, target models.Id) {
	c.lock.Lock()
	src := c.queue.FindTrack(dragged)
	if !src.Valid() {
		c.lock.Unlock()
		logrus.Debugf("reorder unknown track %s", dragged)
		return
	}
	before := NoElement
	if target != "" {
		before = c.queue.FindTrack(target)
		if !before.Valid() {
			c.lock.Unlock()
			logrus.Debugf("reorder unknown target track %s", target)
			return
		}
		if src == before {
			c.lock.Unlock()
			return
		}
	}
	if err := c.queue.Relocate(src, before); err != nil {
		logrus.Errorf("relocate queue element: %v", err)
	}
	tracks, _ := c.snapshot()
	c.lock.Unlock()

	c.flushQueueChanged(tracks)
}

// Advance moves the cursor to the next track: with shuffle a random other track,
// otherwise the successor. At the tail repeat-all wraps to the head, any other
// repeat mode stops playback. Repeat-one does not replay here, replaying on track
// completion belongs to the audio layer.
func (c *Controller) Advance() {
	c.lock.Lock()
	if !c.current.Valid() {
		c.lock.Unlock()
		return
	}
	if c.shuffle {
		c.current = c.queue.RandomExcluding(c.current)
	} else {
		next := c.queue.Next(c.current)
		if next.Valid() {
			c.current = next
		} else if c.repeat == models.RepeatAll {
			c.current = c.queue.Head()
		} else {
			c.current = NoElement
		}
	}
	_, current := c.snapshot()
	c.lock.Unlock()

	c.flushTrackChanged(current)
}

// Retreat moves the cursor to the previous track: with shuffle a random other
// track, otherwise the predecessor. At the head this is a no-op, there is no
// backwards wrap.
func (c *Controller) Retreat() {
	c.lock.Lock()
	if !c.current.Valid() {
		c.lock.Unlock()
		return
	}
	if c.shuffle {
		c.current = c.queue.RandomExcluding(c.current)
	} else {
		prev := c.queue.Prev(c.current)
		if !prev.Valid() {
			c.lock.Unlock()
			return
		}
		c.current = prev
	}
	_, current := c.snapshot()
	c.lock.Unlock()

	c.flushTrackChanged(current)
}

func (c *Controller) ToggleShuffle() {
	c.lock.Lock()
	c.shuffle = !c.shuffle
	enabled := c.shuffle
	c.lock.Unlock()
	if enabled {
		logrus.Info("Enable shuffle")
	} else {
		logrus.Info("Disable shuffle")
	}
}

// CycleRepeat advances repeat mode None -> All -> One -> None.
func (c *Controller) CycleRepeat() {
	c.lock.Lock()
	c.repeat = c.repeat.Next()
	mode := c.repeat
	c.lock.Unlock()
	logrus.Infof("Repeat mode: %s", mode)
}

// Clear discards the whole queue and clears the cursor.
func (c *Controller) Clear() {
	c.lock.Lock()
	c.queue = newQueue()
	c.current = NoElement
	c.lock.Unlock()

	c.flushQueueChanged([]models.Track{})
	c.flushTrackChanged(nil)
}

// Load replaces the queue with tracks in given order and sets the cursor to the
// first one. Duplicate ids within the input are collapsed to the first occurrence.
func (c *Controller) Load(tracks []models.Track) {
	c.lock.Lock()
	c.queue = newQueue()
	for _, track := range tracks {
		c.queue.Append(track)
	}
	c.current = c.queue.Head()
	queued, current := c.snapshot()
	c.lock.Unlock()

	c.flushQueueChanged(queued)
	c.flushTrackChanged(current)
}

// GetQueue returns a snapshot of queued tracks in play order.
func (c *Controller) GetQueue() []models.Track {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.queue.Tracks()
}

// CurrentTrack returns the track the cursor points to, nil if none.
func (c *Controller) CurrentTrack() *models.Track {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.queue.Track(c.current)
}

func (c *Controller) EmptyQueue() bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.queue.Empty()
}

func (c *Controller) ShuffleEnabled() bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.shuffle
}

func (c *Controller) RepeatMode() models.RepeatMode {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.repeat
}

// AddQueueChangedCallback sets function that is called every time queue changes.
func (c *Controller) AddQueueChangedCallback(cb func(tracks []models.Track)) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.queueChangedCallbacks = append(c.queueChangedCallbacks, cb)
}

// AddTrackChangedCallback sets function that is called every time the current track changes.
func (c *Controller) AddTrackChangedCallback(cb func(track *models.Track)) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.trackChangedCallbacks = append(c.trackChangedCallbacks, cb)
}

// snapshot gathers queue contents and current track. Caller must hold the lock.
func (c *Controller) snapshot() ([]models.Track, *models.Track) {
	return c.queue.Tracks(), c.queue.Track(c.current)
}

// callbacks are invoked outside the lock so that they may call back into Controller
func (c *Controller) flushQueueChanged(tracks []models.Track) {
	for _, cb := range c.queueChangedCallbacks {
		cb(tracks)
	}
}

func (c *Controller) flushTrackChanged(track *models.Track) {
	for _, cb := range c.trackChangedCallbacks {
		cb(track)
	}
}
