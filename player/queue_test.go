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
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tryffel.net/go/trackq/models"
)

func testTrack(id string) models.Track {
	return models.Track{Id: models.Id(id), Title: "track " + id}
}

// checkInvariants walks the queue both ways and verifies the structural
// invariants: single head and tail, size matches walk length, prev/next links
// are mutually consistent and track ids are unique.
func checkInvariants(t *testing.T, q *Queue) {
	t.Helper()

	if q.size == 0 {
		require.Equal(t, noSlot, q.head, "empty queue has head")
		require.Equal(t, noSlot, q.tail, "empty queue has tail")
		return
	}

	require.NotEqual(t, noSlot, q.head)
	require.NotEqual(t, noSlot, q.tail)
	require.Equal(t, noSlot, q.elements[q.head].prev, "head has a predecessor")
	require.Equal(t, noSlot, q.elements[q.tail].next, "tail has a successor")

	seen := map[models.Id]bool{}
	count := 0
	last := noSlot
	for slot := q.head; slot != noSlot; slot = q.elements[slot].next {
		elem := &q.elements[slot]
		require.NotZero(t, elem.gen, "walk reached a free slot")
		require.Equal(t, last, elem.prev, "prev link inconsistent at slot %d", slot)
		require.False(t, seen[elem.track.Id], "duplicate track id %s", elem.track.Id)
		seen[elem.track.Id] = true
		last = slot
		count++
		require.LessOrEqual(t, count, q.size, "walk longer than size, loop in links")
	}
	require.Equal(t, q.tail, last)
	require.Equal(t, q.size, count, "size does not match walk length")
}

func queueIds(q *Queue) []string {
	tracks := q.Tracks()
	ids := make([]string, len(tracks))
	for i, track := range tracks {
		ids[i] = string(track.Id)
	}
	return ids
}

func TestQueueAppend(t *testing.T) {
	q := newQueue()
	assert.True(t, q.Empty())

	a := q.Append(testTrack("a"))
	assert.True(t, a.Valid())
	assert.False(t, q.Empty())
	checkInvariants(t, q)

	b := q.Append(testTrack("b"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, q.Size())
	assert.Equal(t, []string{"a", "b"}, queueIds(q))
	checkInvariants(t, q)

	// duplicate id returns the existing element, queue unchanged
	again := q.Append(testTrack("a"))
	assert.Equal(t, a, again)
	assert.Equal(t, 2, q.Size())
	checkInvariants(t, q)
}

func TestQueueRemove(t *testing.T) {
	q := newQueue()
	a := q.Append(testTrack("a"))
	b := q.Append(testTrack("b"))
	c := q.Append(testTrack("c"))

	// middle
	require.NoError(t, q.Remove(b))
	assert.Equal(t, []string{"a", "c"}, queueIds(q))
	checkInvariants(t, q)

	// removed handle is stale now
	assert.Equal(t, ErrInvalidHandle, q.Remove(b))
	assert.Nil(t, q.Track(b))
	checkInvariants(t, q)

	// head, then tail
	require.NoError(t, q.Remove(a))
	checkInvariants(t, q)
	require.NoError(t, q.Remove(c))
	checkInvariants(t, q)
	assert.True(t, q.Empty())

	// zero handle
	assert.Equal(t, ErrInvalidHandle, q.Remove(NoElement))
}

func TestQueueStaleHandleAfterSlotReuse(t *testing.T) {
	q := newQueue()
	a := q.Append(testTrack("a"))
	require.NoError(t, q.Remove(a))

	// new element may land in the recycled slot, old handle must stay invalid
	b := q.Append(testTrack("b"))
	assert.Nil(t, q.Track(a))
	assert.Equal(t, ErrInvalidHandle, q.Remove(a))
	assert.Equal(t, "b", string(q.Track(b).Id))
	checkInvariants(t, q)
}

func TestQueueRelocate(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		before string // empty means end marker
		want   []string
	}{
		{"to middle", "a", "c", []string{"b", "a", "c", "d"}},
		{"to head", "c", "a", []string{"c", "a", "b", "d"}},
		{"to end", "b", "", []string{"a", "c", "d", "b"}},
		{"tail to end", "d", "", []string{"a", "b", "c", "d"}},
		{"before itself", "b", "b", []string{"a", "b", "c", "d"}},
		{"already in place", "a", "b", []string{"a", "b", "c", "d"}},
		{"adjacent swap", "b", "a", []string{"b", "a", "c", "d"}},
		{"head before tail", "a", "d", []string{"b", "c", "a", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQueue()
			handles := map[string]ElementHandle{}
			for _, id := range []string{"a", "b", "c", "d"} {
				handles[id] = q.Append(testTrack(id))
			}
			before := NoElement
			if tt.before != "" {
				before = handles[tt.before]
			}
			require.NoError(t, q.Relocate(handles[tt.src], before))
			assert.Equal(t, tt.want, queueIds(q))
			checkInvariants(t, q)

			// handles stay valid through reorder
			for id, h := range handles {
				require.NotNil(t, q.Track(h))
				assert.Equal(t, id, string(q.Track(h).Id))
			}
		})
	}
}

func TestQueueRelocateInvalidHandle(t *testing.T) {
	q := newQueue()
	a := q.Append(testTrack("a"))
	b := q.Append(testTrack("b"))
	require.NoError(t, q.Remove(b))

	assert.Equal(t, ErrInvalidHandle, q.Relocate(b, NoElement))
	assert.Equal(t, ErrInvalidHandle, q.Relocate(a, b))
	assert.Equal(t, []string{"a"}, queueIds(q))
	checkInvariants(t, q)
}

func TestQueueFindTrack(t *testing.T) {
	q := newQueue()
	q.Append(testTrack("a"))
	b := q.Append(testTrack("b"))

	assert.Equal(t, b, q.FindTrack("b"))
	assert.Equal(t, NoElement, q.FindTrack("x"))
}

func TestQueueTracksSnapshot(t *testing.T) {
	q := newQueue()
	q.Append(testTrack("a"))
	first := q.Tracks()
	q.Append(testTrack("b"))

	// snapshot is produced fresh on every call and older ones don't mutate
	assert.Equal(t, 1, len(first))
	assert.Equal(t, 2, len(q.Tracks()))
}

func TestQueueRandomExcluding(t *testing.T) {
	q := newQueue()
	q.rnd = rand.New(rand.NewSource(1))

	// empty queue
	assert.Equal(t, NoElement, q.RandomExcluding(NoElement))

	a := q.Append(testTrack("a"))
	// single element which is excluded
	assert.Equal(t, NoElement, q.RandomExcluding(a))
	// single element, nothing excluded
	assert.Equal(t, a, q.RandomExcluding(NoElement))

	b := q.Append(testTrack("b"))
	// two elements: always the other one
	for i := 0; i < 50; i++ {
		assert.Equal(t, b, q.RandomExcluding(a))
		assert.Equal(t, a, q.RandomExcluding(b))
	}

	for i := 0; i < 8; i++ {
		q.Append(testTrack(fmt.Sprintf("t%d", i)))
	}
	// excluded element is never picked
	for i := 0; i < 200; i++ {
		assert.NotEqual(t, a, q.RandomExcluding(a))
	}
}

func TestQueueNextPrev(t *testing.T) {
	q := newQueue()
	a := q.Append(testTrack("a"))
	b := q.Append(testTrack("b"))

	assert.Equal(t, b, q.Next(a))
	assert.Equal(t, NoElement, q.Next(b))
	assert.Equal(t, a, q.Prev(b))
	assert.Equal(t, NoElement, q.Prev(a))
	assert.Equal(t, a, q.Head())

	require.NoError(t, q.Remove(a))
	assert.Equal(t, NoElement, q.Next(a))
	assert.Equal(t, b, q.Head())
}

// invariants hold through a randomized add/remove/relocate sequence
func TestQueueInvariantsRandomOps(t *testing.T) {
	q := newQueue()
	q.rnd = rand.New(rand.NewSource(7))
	rnd := rand.New(rand.NewSource(11))
	handles := make([]ElementHandle, 0)
	next := 0

	for i := 0; i < 500; i++ {
		switch op := rnd.Intn(3); {
		case op == 0 || len(handles) == 0:
			h := q.Append(testTrack(fmt.Sprintf("t%d", next)))
			next++
			handles = append(handles, h)
		case op == 1:
			idx := rnd.Intn(len(handles))
			require.NoError(t, q.Remove(handles[idx]))
			handles = append(handles[:idx], handles[idx+1:]...)
		default:
			src := handles[rnd.Intn(len(handles))]
			before := NoElement
			if rnd.Intn(4) > 0 {
				before = handles[rnd.Intn(len(handles))]
			}
			require.NoError(t, q.Relocate(src, before))
		}
		checkInvariants(t, q)
	}
}
