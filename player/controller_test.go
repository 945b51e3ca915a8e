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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tryffel.net/go/trackq/models"
)

func newTestController(ids ...string) *Controller {
	c := NewController()
	for _, id := range ids {
		c.Enqueue(testTrack(id))
	}
	c.queue.rnd = rand.New(rand.NewSource(3))
	return c
}

func controllerIds(c *Controller) []string {
	tracks := c.GetQueue()
	ids := make([]string, len(tracks))
	for i, track := range tracks {
		ids[i] = string(track.Id)
	}
	return ids
}

func currentId(t *testing.T, c *Controller) string {
	t.Helper()
	track := c.CurrentTrack()
	if track == nil {
		return ""
	}
	return string(track.Id)
}

func TestControllerEnqueue(t *testing.T) {
	c := NewController()
	assert.True(t, c.EmptyQueue())
	assert.Nil(t, c.CurrentTrack())

	// first track becomes current
	c.Enqueue(testTrack("a"))
	assert.Equal(t, "a", currentId(t, c))

	c.Enqueue(testTrack("b"))
	assert.Equal(t, "a", currentId(t, c))
	assert.Equal(t, []string{"a", "b"}, controllerIds(c))

	// duplicate id is ignored
	c.Enqueue(testTrack("a"))
	assert.Equal(t, []string{"a", "b"}, controllerIds(c))
}

func TestControllerPlayNow(t *testing.T) {
	c := NewController()
	c.PlayNow(testTrack("x"))
	assert.Equal(t, []string{"x"}, controllerIds(c))
	assert.Equal(t, "x", currentId(t, c))

	// play now never interrupts a non-empty queue
	c.PlayNow(testTrack("y"))
	assert.Equal(t, []string{"x"}, controllerIds(c))
	assert.Equal(t, "x", currentId(t, c))
}

func TestControllerAdvance(t *testing.T) {
	c := newTestController("a", "b", "c")

	c.Advance()
	assert.Equal(t, "b", currentId(t, c))
	c.Advance()
	assert.Equal(t, "c", currentId(t, c))

	// tail with repeat none: stop
	c.Advance()
	assert.Equal(t, "", currentId(t, c))

	// advancing with no current track is a no-op
	c.Advance()
	assert.Equal(t, "", currentId(t, c))
}

func TestControllerAdvanceRepeat(t *testing.T) {
	tests := []struct {
		name string
		mode models.RepeatMode
		want string
	}{
		{"repeat all wraps to head", models.RepeatAll, "a"},
		{"repeat none stops", models.RepeatNone, ""},
		{"repeat one stops on skip", models.RepeatOne, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController("a", "b", "c")
			for c.RepeatMode() != tt.mode {
				c.CycleRepeat()
			}
			c.Advance()
			c.Advance()
			require.Equal(t, "c", currentId(t, c))

			c.Advance()
			assert.Equal(t, tt.want, currentId(t, c))
		})
	}
}

func TestControllerAdvanceShuffle(t *testing.T) {
	c := newTestController("a", "b")
	c.ToggleShuffle()
	require.True(t, c.ShuffleEnabled())

	// with two tracks shuffle always lands on the other one
	want := "b"
	for i := 0; i < 20; i++ {
		c.Advance()
		assert.Equal(t, want, currentId(t, c))
		if want == "b" {
			want = "a"
		} else {
			want = "b"
		}
	}
}

func TestControllerRetreatShuffle(t *testing.T) {
	c := newTestController("a", "b")
	c.ToggleShuffle()
	require.True(t, c.ShuffleEnabled())

	// with two tracks shuffle always lands on the other one
	want := "b"
	for i := 0; i < 20; i++ {
		c.Retreat()
		assert.Equal(t, want, currentId(t, c))
		if want == "b" {
			want = "a"
		} else {
			want = "b"
		}
	}
}

func TestControllerRetreat(t *testing.T) {
	c := newTestController("a", "b")
	c.Advance()
	require.Equal(t, "b", currentId(t, c))

	c.Retreat()
	assert.Equal(t, "a", currentId(t, c))

	// previous never wraps
	c.Retreat()
	assert.Equal(t, "a", currentId(t, c))

	// no current track: no-op
	empty := NewController()
	empty.Retreat()
	assert.Nil(t, empty.CurrentTrack())
}

func TestControllerDequeue(t *testing.T) {
	t.Run("non-current track", func(t *testing.T) {
		c := newTestController("a", "b", "c")
		c.Dequeue("b")
		assert.Equal(t, []string{"a", "c"}, controllerIds(c))
		assert.Equal(t, "a", currentId(t, c))
	})

	t.Run("unknown id", func(t *testing.T) {
		c := newTestController("a")
		c.Dequeue("x")
		assert.Equal(t, []string{"a"}, controllerIds(c))
	})

	t.Run("current with successor", func(t *testing.T) {
		c := newTestController("a", "b", "c")
		c.Dequeue("a")
		assert.Equal(t, "b", currentId(t, c))
	})

	t.Run("current at tail wraps to head", func(t *testing.T) {
		// dequeue wraps where Advance would stop, the asymmetry is intended
		c := newTestController("a", "b", "c")
		c.Advance()
		c.Advance()
		require.Equal(t, "c", currentId(t, c))
		c.Dequeue("c")
		assert.Equal(t, "a", currentId(t, c))
	})

	t.Run("last track", func(t *testing.T) {
		c := newTestController("a")
		c.Dequeue("a")
		assert.True(t, c.EmptyQueue())
		assert.Nil(t, c.CurrentTrack())
	})

	t.Run("current with shuffle", func(t *testing.T) {
		c := newTestController("a", "b")
		c.ToggleShuffle()
		c.Dequeue("a")
		assert.Equal(t, "b", currentId(t, c))
	})
}

func TestControllerReorder(t *testing.T) {
	tests := []struct {
		name    string
		dragged string
		target  string
		want    []string
	}{
		{"before other", "c", "a", []string{"c", "a", "b"}},
		{"to end", "a", "", []string{"b", "c", "a"}},
		{"onto itself", "b", "b", []string{"a", "b", "c"}},
		{"unknown dragged", "x", "a", []string{"a", "b", "c"}},
		{"unknown target", "a", "x", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController("a", "b", "c")
			c.Reorder(models.Id(tt.dragged), models.Id(tt.target))
			assert.Equal(t, tt.want, controllerIds(c))
			// reorder never moves the cursor
			assert.Equal(t, "a", currentId(t, c))
		})
	}
}

func TestControllerClear(t *testing.T) {
	c := newTestController("a", "b")
	c.Clear()
	assert.True(t, c.EmptyQueue())
	assert.Nil(t, c.CurrentTrack())

	// queue is usable after clear
	c.Enqueue(testTrack("c"))
	assert.Equal(t, "c", currentId(t, c))
}

func TestControllerLoad(t *testing.T) {
	c := newTestController("old")
	c.Load([]models.Track{testTrack("a"), testTrack("b"), testTrack("a")})
	// duplicates collapse, cursor moves to new head
	assert.Equal(t, []string{"a", "b"}, controllerIds(c))
	assert.Equal(t, "a", currentId(t, c))

	c.Load(nil)
	assert.True(t, c.EmptyQueue())
	assert.Nil(t, c.CurrentTrack())
}

func TestControllerCycleRepeat(t *testing.T) {
	c := NewController()
	assert.Equal(t, models.RepeatNone, c.RepeatMode())
	c.CycleRepeat()
	assert.Equal(t, models.RepeatAll, c.RepeatMode())
	c.CycleRepeat()
	assert.Equal(t, models.RepeatOne, c.RepeatMode())
	c.CycleRepeat()
	assert.Equal(t, models.RepeatNone, c.RepeatMode())
}

func TestControllerCallbacks(t *testing.T) {
	c := NewController()

	var gotQueue []models.Track
	queueCalls := 0
	c.AddQueueChangedCallback(func(tracks []models.Track) {
		gotQueue = tracks
		queueCalls++
	})
	var gotTrack *models.Track
	trackCalls := 0
	c.AddTrackChangedCallback(func(track *models.Track) {
		gotTrack = track
		trackCalls++
	})

	c.Enqueue(testTrack("a"))
	assert.Equal(t, 1, queueCalls)
	assert.Equal(t, 1, trackCalls)
	require.NotNil(t, gotTrack)
	assert.Equal(t, "a", string(gotTrack.Id))

	// second enqueue changes the queue but not the current track
	c.Enqueue(testTrack("b"))
	assert.Equal(t, 2, queueCalls)
	assert.Equal(t, 1, trackCalls)
	assert.Equal(t, 2, len(gotQueue))

	c.Advance()
	assert.Equal(t, 2, trackCalls)
	assert.Equal(t, "b", string(gotTrack.Id))

	c.Clear()
	assert.Equal(t, 3, queueCalls)
	assert.Equal(t, 3, trackCalls)
	assert.Nil(t, gotTrack)

	// callback may call back into controller without deadlocking
	c.AddQueueChangedCallback(func([]models.Track) {
		_ = c.CurrentTrack()
	})
	c.Enqueue(testTrack("c"))
}
