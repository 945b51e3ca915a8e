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

// Package interfaces contains interfaces that multiple packages use and communicate with.
package interfaces

import (
	"tryffel.net/go/trackq/models"
)

// QueueController mutates the play queue and the currently-playing cursor.
// Commands with invalid input (unknown track ids, duplicate adds, reorder onto
// itself) are silent no-ops, never errors: concurrent user and playback events
// make stale commands an expected condition.
// If no queueChangedCallback is set, no queue updates will be returned.
type QueueController interface {
	Queuer

	// PlayNow seeds an empty queue with track and starts playing it.
	// If the queue is not empty, does nothing.
	PlayNow(track models.Track)
	// Enqueue adds track to the end of the queue. If a track with the same id
	// is already queued, does nothing. First track added to an empty queue
	// becomes the current track.
	Enqueue(track models.Track)
	// Dequeue removes the track with given id. Removing the current track moves
	// the cursor: with shuffle to a random other track, otherwise to the next
	// track, wrapping to the head from the tail.
	Dequeue(id models.Id)
	// Reorder moves the dragged track immediately before the target track.
	// Zero-value target id moves it to the end of the queue. If either id
	// does not resolve, or both resolve to the same track, does nothing.
	Reorder(dragged models.Id, target models.Id)
	// Advance moves the cursor forward: with shuffle to a random other track,
	// otherwise to the successor. At the tail, RepeatAll wraps to the head and
	// other repeat modes stop (cursor cleared). See Player for how RepeatOne
	// interacts with track completion.
	Advance()
	// Retreat moves the cursor backward: with shuffle to a random other track,
	// otherwise to the predecessor. At the head does nothing, previous never wraps.
	Retreat()

	ToggleShuffle()
	// CycleRepeat advances repeat mode None -> All -> One -> None.
	CycleRepeat()

	// Clear empties the queue and clears the cursor.
	Clear()
	// Load replaces the whole queue with tracks, in given order, and sets the
	// cursor to the first one. Used for restoring saved playlists.
	Load(tracks []models.Track)

	// AddQueueChangedCallback sets function that is called every time queue changes.
	AddQueueChangedCallback(func(content []models.Track))
	// AddTrackChangedCallback sets function that is called every time the
	// current track changes. Nil track means playback stopped.
	AddTrackChangedCallback(func(track *models.Track))
}

// Queuer contains read-only methods for the play queue.
type Queuer interface {
	// GetQueue returns a snapshot of queued tracks in play order.
	GetQueue() []models.Track
	// CurrentTrack returns the track the cursor points to, nil if none.
	CurrentTrack() *models.Track
	EmptyQueue() bool
	ShuffleEnabled() bool
	RepeatMode() models.RepeatMode
}

// MediaLibrary provides tracks from some backing store, e.g. local files.
type MediaLibrary interface {
	// GetTracks returns all known tracks.
	GetTracks() []models.Track
	// GetTrack returns a track by id, nil if the id is unknown.
	GetTrack(id models.Id) *models.Track
}
