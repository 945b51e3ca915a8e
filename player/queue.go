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

// Package player contains all logic for trackq: the play queue, the playing-track cursor
// and its state machine, and low-level audio.
package player

import (
	"errors"
	"math/rand"
	"time"

	"tryffel.net/go/trackq/models"
)

// ErrInvalidHandle is returned when a structural operation gets a handle that does not
// belong to this queue or whose element has been removed. This is a programming error
// on the caller's side, queue links are never modified on invalid input.
var ErrInvalidHandle = errors.New("invalid queue element handle")

// ElementHandle is an opaque, stable reference to one queued element. A handle stays
// valid until its element is removed from the queue, surviving reorders of any element.
// The zero value means 'no element' and doubles as the end marker for Relocate.
type ElementHandle struct {
	slot int
	gen  uint64
}

// NoElement is the zero handle.
var NoElement = ElementHandle{}

// Valid returns true if the handle refers to some element. It may still be stale,
// operations verify that against the queue itself.
func (h ElementHandle) Valid() bool {
	return h.gen != 0
}

const noSlot = -1

// element is a single arena slot. Links are slot indices instead of pointers,
// noSlot marks the ends. gen is 0 while the slot is on the free list.
type element struct {
	track models.Track
	prev  int
	next  int
	gen   uint64
}

// Queue is an ordered collection of unique tracks. Elements live in a growable
// arena and are addressed with generation-checked handles, so a handle to a
// removed element fails closed instead of touching a recycled slot.
// Queue is not safe for concurrent use, Controller serializes access to it.
type Queue struct {
	elements []element
	freeList []int
	head     int
	tail     int
	size     int
	nextGen  uint64

	rnd *rand.Rand
}

func newQueue() *Queue {
	return &Queue{
		head:    noSlot,
		tail:    noSlot,
		nextGen: 1,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Empty returns true if queue has no tracks.
func (q *Queue) Empty() bool {
	return q.size == 0
}

// Size returns the number of queued tracks.
func (q *Queue) Size() int {
	return q.size
}

// lookup resolves a handle to its arena slot.
func (q *Queue) lookup(h ElementHandle) (*element, error) {
	if !h.Valid() || h.slot < 0 || h.slot >= len(q.elements) {
		return nil, ErrInvalidHandle
	}
	elem := &q.elements[h.slot]
	if elem.gen != h.gen {
		return nil, ErrInvalidHandle
	}
	return elem, nil
}

func (q *Queue) alloc(track models.Track) int {
	var slot int
	if n := len(q.freeList); n > 0 {
		slot = q.freeList[n-1]
		q.freeList = q.freeList[:n-1]
	} else {
		q.elements = append(q.elements, element{})
		slot = len(q.elements) - 1
	}
	q.elements[slot] = element{track: track, prev: noSlot, next: noSlot, gen: q.nextGen}
	q.nextGen++
	return slot
}

// Append adds track to the end of the queue and returns a handle to the new element.
// If a track with the same id is already queued, the queue is unchanged and the
// existing element's handle is returned.
func (q *Queue) Append(track models.Track) ElementHandle {
	if existing := q.FindTrack(track.Id); existing.Valid() {
		return existing
	}

	slot := q.alloc(track)
	if q.tail == noSlot {
		q.head = slot
		q.tail = slot
	} else {
		q.elements[q.tail].next = slot
		q.elements[slot].prev = q.tail
		q.tail = slot
	}
	q.size++
	return ElementHandle{slot: slot, gen: q.elements[slot].gen}
}

// unlink detaches slot from its neighbors and repairs their links.
func (q *Queue) unlink(slot int) {
	elem := &q.elements[slot]
	if elem.prev != noSlot {
		q.elements[elem.prev].next = elem.next
	} else {
		q.head = elem.next
	}
	if elem.next != noSlot {
		q.elements[elem.next].prev = elem.prev
	} else {
		q.tail = elem.prev
	}
	elem.prev = noSlot
	elem.next = noSlot
}

// Remove detaches the element and invalidates its handle. The slot is recycled
// with a new generation, so the removed handle can never resolve again.
func (q *Queue) Remove(h ElementHandle) error {
	if _, err := q.lookup(h); err != nil {
		return err
	}
	q.unlink(h.slot)
	q.elements[h.slot].gen = 0
	q.elements[h.slot].track = models.Track{}
	q.freeList = append(q.freeList, h.slot)
	q.size--
	return nil
}

// Relocate moves element src immediately before element before. NoElement as
// before moves src to the end of the queue. Relocating an element before itself
// is a no-op. Links stay consistent through the move.
func (q *Queue) Relocate(src ElementHandle, before ElementHandle) error {
	if _, err := q.lookup(src); err != nil {
		return err
	}
	if before == NoElement {
		if q.tail == src.slot {
			return nil
		}
		q.unlink(src.slot)
		q.elements[q.tail].next = src.slot
		q.elements[src.slot].prev = q.tail
		q.tail = src.slot
		return nil
	}

	target, err := q.lookup(before)
	if err != nil {
		return err
	}
	if src == before {
		return nil
	}
	if target.prev == src.slot {
		// already in place
		return nil
	}

	q.unlink(src.slot)
	// unlink may have changed target's prev link, re-read it
	target = &q.elements[before.slot]
	elem := &q.elements[src.slot]
	elem.next = before.slot
	elem.prev = target.prev
	if target.prev != noSlot {
		q.elements[target.prev].next = src.slot
	} else {
		q.head = src.slot
	}
	target.prev = src.slot
	return nil
}

// FindTrack returns a handle to the element holding the track with given id,
// NoElement if the id is not queued. Linear scan, ids are unique.
func (q *Queue) FindTrack(id models.Id) ElementHandle {
	for slot := q.head; slot != noSlot; slot = q.elements[slot].next {
		if q.elements[slot].track.Id == id {
			return ElementHandle{slot: slot, gen: q.elements[slot].gen}
		}
	}
	return NoElement
}

// Tracks returns a fresh snapshot of tracks in play order.
func (q *Queue) Tracks() []models.Track {
	tracks := make([]models.Track, 0, q.size)
	for slot := q.head; slot != noSlot; slot = q.elements[slot].next {
		tracks = append(tracks, q.elements[slot].track)
	}
	return tracks
}

// RandomExcluding returns a uniformly random element other than excluded.
// Returns NoElement if the queue is empty or the only element is the excluded one.
// Excluded may be NoElement to pick over the whole queue.
func (q *Queue) RandomExcluding(excluded ElementHandle) ElementHandle {
	candidates := make([]ElementHandle, 0, q.size)
	for slot := q.head; slot != noSlot; slot = q.elements[slot].next {
		h := ElementHandle{slot: slot, gen: q.elements[slot].gen}
		if h != excluded {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		return NoElement
	}
	return candidates[q.rnd.Intn(len(candidates))]
}

// Head returns a handle to the first element, NoElement if the queue is empty.
func (q *Queue) Head() ElementHandle {
	if q.head == noSlot {
		return NoElement
	}
	return ElementHandle{slot: q.head, gen: q.elements[q.head].gen}
}

// Next returns the successor of h, NoElement at the tail or on an invalid handle.
func (q *Queue) Next(h ElementHandle) ElementHandle {
	elem, err := q.lookup(h)
	if err != nil || elem.next == noSlot {
		return NoElement
	}
	return ElementHandle{slot: elem.next, gen: q.elements[elem.next].gen}
}

// Prev returns the predecessor of h, NoElement at the head or on an invalid handle.
func (q *Queue) Prev(h ElementHandle) ElementHandle {
	elem, err := q.lookup(h)
	if err != nil || elem.prev == noSlot {
		return NoElement
	}
	return ElementHandle{slot: elem.prev, gen: q.elements[elem.prev].gen}
}

// Track returns the track held by element h, nil on an invalid handle.
func (q *Queue) Track(h ElementHandle) *models.Track {
	elem, err := q.lookup(h)
	if err != nil {
		return nil
	}
	track := elem.track
	return &track
}
