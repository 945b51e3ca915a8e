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

package interfaces

import "tryffel.net/go/trackq/models"

// Player controls media playback. Current status is sent to StatusCallback, if set. Multiple status callbacks
// can be set.
//
// The player owns the repeat-one contract: when a track completes naturally and
// repeat mode is RepeatOne, the player replays the same track in place and does
// not touch the queue cursor. In every other case (other repeat modes, or the
// user explicitly skipping) track completion maps to QueueController.Advance.
// The queue controller itself never inspects RepeatOne on Advance.
type Player interface {
	//PlayPause toggles pause
	PlayPause()
	//Pause pauses media that's currently playing. If none, do nothing.
	Pause()
	//Continue continues currently paused media.
	Continue()
	//StopMedia stops playing media.
	StopMedia()
	//Next plays currently next item in queue. If there's no next song available, this method does nothing.
	Next()
	//Previous plays previous song in queue. If there's no previous song, this method does nothing.
	Previous()
	//Seek seeks forward given ticks
	Seek(ticks models.AudioTick)
	//AddStatusCallback adds callback that get's called every time status has changed,
	//including playback progress
	AddStatusCallback(func(status models.AudioStatus))
	//SetVolume sets volume to given level in range of [0,100]
	SetVolume(volume models.AudioVolume)
	// SetMute mutes or un-mutes audio
	SetMute(muted bool)
	// ToggleMute toggles current mute.
	ToggleMute()
}
