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
	"time"

	"github.com/sirupsen/logrus"
	"tryffel.net/go/trackq/models"
	"tryffel.net/go/trackq/task"
)

// Player wraps the queue controller and the audio backend and implements
// interfaces.QueueController and interfaces.Player. It owns the track-completion
// policy: on natural end of track with repeat-one the same track is replayed in
// place and the queue cursor is not moved, in every other case completion maps to
// Controller.Advance. User skips always advance, regardless of repeat mode.
type Player struct {
	task.Task
	*Audio
	*Controller

	songComplete chan bool
	trackChanged chan *models.Track
}

// NewPlayer initializes the player. This also initializes faiface.Speaker, which
// should be initialized only once.
func NewPlayer() (*Player, error) {
	p := &Player{
		songComplete: make(chan bool, 3),
		trackChanged: make(chan *models.Track, 3),
	}
	p.Name = "Player"
	p.Task.SetLoop(p.loop)

	p.Audio = newAudio()
	p.Controller = NewController()

	err := initAudio()
	if err != nil {
		return p, fmt.Errorf("init audio backend: %v", err)
	}

	p.Audio.songCompleteFunc = p.songCompleted
	p.Controller.AddTrackChangedCallback(p.currentTrackChanged)
	return p, nil
}

// notify song has completed
func (p *Player) songCompleted() {
	p.songComplete <- true
}

// queue cursor moved, schedule playback change
func (p *Player) currentTrackChanged(track *models.Track) {
	p.trackChanged <- track
}

func (p *Player) loop() {
	// interval to refresh status. This is the interval the status will be updated.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.StopChan():
			p.Audio.StopMedia()
			return
		case <-p.songComplete:
			logrus.Debug("song complete")
			if p.Controller.RepeatMode() == models.RepeatOne {
				// repeat-one: replay the same track, cursor stays put
				current := p.Controller.CurrentTrack()
				if current != nil {
					err := p.Audio.playTrack(*current)
					if err != nil {
						logrus.Errorf("replay track: %v", err)
					}
				}
			} else {
				p.Controller.Advance()
			}
		case track := <-p.trackChanged:
			if track == nil {
				p.Audio.StopMedia()
			} else {
				err := p.Audio.playTrack(*track)
				if err != nil {
					logrus.Errorf("play track: %v", err)
					// skip unplayable track
					p.Controller.Dequeue(track.Id)
				}
			}
		case <-ticker.C:
			p.Audio.updateStatus()
		}
	}
}

// Next skips to the next track in queue. A skip always moves the cursor, also
// with repeat-one.
func (p *Player) Next() {
	p.Controller.Advance()
	p.Audio.Next()
}

// Previous plays previous track in queue. At the head of the queue, do nothing.
func (p *Player) Previous() {
	p.Controller.Retreat()
	p.Audio.Previous()
}

// ToggleShuffle toggles shuffle and pushes the new state to status listeners.
func (p *Player) ToggleShuffle() {
	p.Controller.ToggleShuffle()
	p.Audio.setShuffle(p.Controller.ShuffleEnabled())
}

// CycleRepeat cycles repeat mode and pushes the new state to status listeners.
func (p *Player) CycleRepeat() {
	p.Controller.CycleRepeat()
	p.Audio.setRepeat(p.Controller.RepeatMode())
}
