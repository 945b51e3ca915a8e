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

package models

// AudioState is audio player state, playing song, stopped
type AudioState int

const (
	// AudioStateStopped, no audio to play
	AudioStateStopped AudioState = iota
	// AudioStatePlaying, playing song
	AudioStatePlaying
)

// AudioAction is an action for audio player, set volume, go to next
type AudioAction int

const (
	// AudioActionTimeUpdate means timed update and no actual action has been taken
	AudioActionTimeUpdate AudioAction = iota
	// AudioActionStop stops playing or paused player
	AudioActionStop
	// AudioActionPlay starts stopped player
	AudioActionPlay
	// AudioActionPlayPause toggles play/pause
	AudioActionPlayPause
	// AudioActionNext plays next song from queue
	AudioActionNext
	// AudioActionPrevious plays previous song from queue
	AudioActionPrevious
	// AudioActionSeek seeks song
	AudioActionSeek
	// AudioActionSetVolume sets volume
	AudioActionSetVolume

	AudioActionShuffleChanged

	AudioActionRepeatChanged
)

// AudioTick is alias for millisecond
type AudioTick int

func (a AudioTick) Seconds() int {
	return int(a / 1000)
}

func (a AudioTick) MilliSeconds() int {
	return int(a)
}

func (a AudioTick) MicroSeconds() int {
	return int(a) * 1000
}

// AudioVolume is volume level in [0,100]
type AudioVolume int

const (
	AudioVolumeMax = 100
	AudioVolumeMin = 0
)

// InRange returns true if volume is in allowed range
func (a AudioVolume) InRange() bool {
	return a >= AudioVolumeMin && a <= AudioVolumeMax
}

// Add adds value to volume. Negative values are allowed. Always returns volume that's in allowed range.
func (a AudioVolume) Add(vol int) AudioVolume {
	result := a + AudioVolume(vol)
	if result < AudioVolumeMin {
		return AudioVolumeMin
	}
	if result > AudioVolumeMax {
		return AudioVolumeMax
	}
	return result
}

// RepeatMode defines what happens when the end of the queue is reached.
type RepeatMode int

const (
	// RepeatNone stops playback after the last track
	RepeatNone RepeatMode = iota
	// RepeatAll wraps back to the first track after the last one
	RepeatAll
	// RepeatOne replays the current track. This is enforced by the audio engine
	// on track completion, not by the queue controller.
	RepeatOne
)

func (r RepeatMode) String() string {
	switch r {
	case RepeatNone:
		return "None"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// Next cycles None -> All -> One -> None.
func (r RepeatMode) Next() RepeatMode {
	if r == RepeatOne {
		return RepeatNone
	}
	return r + 1
}

// AudioStatus contains audio player status
type AudioStatus struct {
	State  AudioState
	Action AudioAction

	Track *Track

	SongPast AudioTick
	Volume   AudioVolume
	Muted    bool
	Paused   bool
	Shuffle  bool
	Repeat   RepeatMode
}

func (a *AudioStatus) Clear() {
	a.Track = nil
	a.SongPast = 0
}
