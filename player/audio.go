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
	"io"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/sirupsen/logrus"
	"tryffel.net/go/trackq/config"
	"tryffel.net/go/trackq/interfaces"
	"tryffel.net/go/trackq/models"
)

// Audio plays local audio files and implements interfaces.Player
type Audio struct {
	status models.AudioStatus

	// todo: we need multiple streamers to allow seamlessly running next song
	streamer beep.StreamSeekCloser

	// ctrl allows pause
	ctrl *beep.Ctrl
	// volume
	volume *effects.Volume
	// mixer allows adding multiple streams sequentially
	mixer *beep.Mixer

	songCompleteFunc func()

	statusCallbacks []func(status models.AudioStatus)

	currentSampleRate int
}

func newAudio() *Audio {
	a := &Audio{
		ctrl: &beep.Ctrl{
			Streamer: nil,
			Paused:   false,
		},
		volume: &effects.Volume{
			Streamer: nil,
			Base:     config.AudioVolumeLogBase,
			Volume:   config.AudioMaxVolumedB,
			Silent:   false,
		},
		mixer:           &beep.Mixer{},
		statusCallbacks: make([]func(status models.AudioStatus), 0),
	}
	a.ctrl.Streamer = a.mixer
	a.volume.Streamer = a.ctrl
	a.status.Volume = models.AudioVolumeMax

	a.currentSampleRate = config.AudioSamplingRate
	return a
}

// initAudio initializes faiface.Speaker, which should be initialized only once.
func initAudio() error {
	err := speaker.Init(config.AudioSamplingRate, config.AudioSamplingRate/1000*
		int(config.AudioBufferPeriod.Milliseconds()))
	if err != nil {
		return fmt.Errorf("init speaker: %v", err)
	}
	return nil
}

func (a *Audio) getStatus() models.AudioStatus {
	speaker.Lock()
	defer speaker.Unlock()
	return a.status
}

// PlayPause toggles pause.
func (a *Audio) PlayPause() {
	speaker.Lock()
	if a.ctrl == nil {
		speaker.Unlock()
		return
	}
	state := !a.ctrl.Paused
	if state {
		logrus.Info("Pause")
	} else {
		logrus.Info("Continue")
	}
	a.ctrl.Paused = state
	a.status.Paused = state
	a.status.Action = models.AudioActionPlayPause
	speaker.Unlock()
	go a.flushStatus()
}

// Pause pauses audio. If audio is already paused, do nothing.
func (a *Audio) Pause() {
	logrus.Info("Pause audio")
	speaker.Lock()
	if a.ctrl == nil {
		speaker.Unlock()
		return
	}
	a.ctrl.Paused = true
	a.status.Paused = true
	a.status.Action = models.AudioActionPlayPause
	speaker.Unlock()
	go a.flushStatus()
}

// Continue continues paused audio. If audio is already playing, do nothing.
func (a *Audio) Continue() {
	logrus.Info("Continue audio")
	speaker.Lock()
	if a.ctrl == nil {
		speaker.Unlock()
		return
	}
	a.ctrl.Paused = false
	a.status.Paused = false
	a.status.Action = models.AudioActionPlayPause
	speaker.Unlock()
	go a.flushStatus()
}

// StopMedia stops music. If there is no audio to play, do nothing.
func (a *Audio) StopMedia() {
	logrus.Info("Stop audio")
	speaker.Lock()
	a.status.State = models.AudioStateStopped
	a.status.Action = models.AudioActionStop
	a.status.Clear()
	a.ctrl.Paused = false
	a.status.Paused = false
	speaker.Unlock()
	speaker.Clear()

	speaker.Lock()
	err := a.closeOldStream()
	speaker.Unlock()
	if err != nil {
		logrus.Errorf("stop: %v", err)
	}
	go a.flushStatus()
}

// Next reports moving to next track. Track selection is done by Player.
func (a *Audio) Next() {
	logrus.Info("Next song")
	speaker.Lock()
	a.status.Action = models.AudioActionNext
	speaker.Unlock()
	go a.flushStatus()
}

// Previous reports moving to previous track. Track selection is done by Player.
func (a *Audio) Previous() {
	logrus.Info("Previous song")
	speaker.Lock()
	a.status.Action = models.AudioActionPrevious
	speaker.Unlock()
	go a.flushStatus()
}

// Seek seeks given ticks forward. Negative ticks seek backwards. If there is no audio, do nothing.
func (a *Audio) Seek(ticks models.AudioTick) {
	speaker.Lock()
	if a.streamer == nil || a.currentSampleRate == 0 {
		speaker.Unlock()
		return
	}
	sampleRate := beep.SampleRate(a.currentSampleRate)
	newPos := a.streamer.Position() + sampleRate.N(time.Duration(ticks.MilliSeconds())*time.Millisecond)
	if newPos < 0 {
		newPos = 0
	}
	if newPos >= a.streamer.Len() {
		newPos = a.streamer.Len() - 1
	}
	err := a.streamer.Seek(newPos)
	a.status.Action = models.AudioActionSeek
	speaker.Unlock()
	if err != nil {
		logrus.Errorf("seek audio stream: %v", err)
	}
	go a.flushStatus()
}

// AddStatusCallback adds a callback that gets called every time audio status is changed, or after certain time.
func (a *Audio) AddStatusCallback(cb func(status models.AudioStatus)) {
	a.statusCallbacks = append(a.statusCallbacks, cb)
}

// SetVolume sets volume to given level.
func (a *Audio) SetVolume(volume models.AudioVolume) {
	decibels := float64(volumeTodB(int(volume)))
	logrus.Debugf("Set volume to %d %s -> %.2f Db", volume, "%", decibels)
	speaker.Lock()

	// settings volume to 0 does not mute audio, set silent to true
	if decibels <= config.AudioMinVolumedB {
		a.volume.Silent = true
		a.volume.Volume = config.AudioMinVolumedB
		a.status.Volume = models.AudioVolumeMin
	} else if decibels >= config.AudioMaxVolumedB {
		a.volume.Volume = config.AudioMaxVolumedB
		a.volume.Silent = false
		a.status.Volume = models.AudioVolumeMax
	} else {
		a.volume.Silent = false
		a.volume.Volume = decibels
		a.status.Volume = volume
	}
	a.status.Action = models.AudioActionSetVolume
	speaker.Unlock()
	go a.flushStatus()
}

// SetMute mutes and un-mutes audio
func (a *Audio) SetMute(muted bool) {
	if muted {
		logrus.Info("Mute audio")
	} else {
		logrus.Info("Unmute audio")
	}
	speaker.Lock()
	if a.ctrl == nil {
		speaker.Unlock()
		return
	}
	a.volume.Silent = muted
	a.status.Muted = muted
	speaker.Unlock()
	go a.flushStatus()
}

func (a *Audio) ToggleMute() {
	logrus.Info("Toggle mute")
	speaker.Lock()
	muted := a.status.Muted
	speaker.Unlock()
	a.SetMute(!muted)
}

func (a *Audio) setShuffle(enabled bool) {
	speaker.Lock()
	a.status.Shuffle = enabled
	a.status.Action = models.AudioActionShuffleChanged
	speaker.Unlock()
	go a.flushStatus()
}

func (a *Audio) setRepeat(mode models.RepeatMode) {
	speaker.Lock()
	a.status.Repeat = mode
	a.status.Action = models.AudioActionRepeatChanged
	speaker.Unlock()
	go a.flushStatus()
}

func (a *Audio) streamCompleted() {
	logrus.Debug("audio stream complete")
	err := a.closeOldStream()
	if err != nil {
		logrus.Errorf("complete stream: %v", err)
	}
	if a.songCompleteFunc != nil {
		a.songCompleteFunc()
	}
}

func (a *Audio) closeOldStream() error {
	// don't use locking here, since speaker calls streamCompleted, which calls this to close reader
	var err error
	if a.streamer != nil {
		streamErr := a.streamer.Err()
		if streamErr != nil && streamErr != io.EOF {
			logrus.Errorf("streamer error: %v", streamErr)
			err = streamErr
		}
		closeErr := a.streamer.Close()
		if closeErr != nil && closeErr != io.EOF {
			if err == nil {
				err = fmt.Errorf("close streamer: %v", closeErr)
			}
		}
		a.streamer = nil
	}
	return err
}

// gather latest status and flush it to callbacks
func (a *Audio) updateStatus() {
	past := a.getPastTicks()
	speaker.Lock()
	a.status.SongPast = past
	a.status.Action = models.AudioActionTimeUpdate
	speaker.Unlock()
	a.flushStatus()
}

func (a *Audio) flushStatus() {
	status := a.getStatus()
	for _, v := range a.statusCallbacks {
		v(status)
	}
}

// playTrack opens and decodes a local file and starts playing it, replacing any
// previously playing track.
func (a *Audio) playTrack(track models.Track) error {
	format, err := interfaces.FileToAudioFormat(track.File)
	if err != nil {
		return err
	}

	reader, err := os.Open(track.File)
	if err != nil {
		return fmt.Errorf("open audio file: %v", err)
	}

	var songFormat beep.Format
	var streamer beep.StreamSeekCloser
	switch format {
	case interfaces.AudioFormatMp3:
		streamer, songFormat, err = mp3.Decode(reader)
	case interfaces.AudioFormatFlac:
		streamer, songFormat, err = flac.Decode(reader)
	case interfaces.AudioFormatWav:
		streamer, songFormat, err = wav.Decode(reader)
	case interfaces.AudioFormatOgg:
		streamer, songFormat, err = vorbis.Decode(reader)
	default:
		reader.Close()
		return fmt.Errorf("unknown audio format: %s", format)
	}
	if err != nil {
		reader.Close()
		return fmt.Errorf("decode audio stream: %v", err)
	}

	logrus.Debugf("Track %s samplerate: %d Hz", track.Id, songFormat.SampleRate.N(time.Second))
	sampleRate := songFormat.SampleRate
	if a.currentSampleRate != sampleRate.N(time.Second) {
		logrus.Debugf("Set samplerate to %d Hz", sampleRate.N(time.Second))
		// re-initializing speaker may cause a small gap or click in playback
		speaker.Clear()
		err = speaker.Init(sampleRate, sampleRate.N(time.Second)/1000*
			int(config.AudioBufferPeriod.Milliseconds()))
		if err != nil {
			logrus.Errorf("Update sample rate (%d -> %d): %v", a.currentSampleRate, sampleRate.N(time.Second), err)
		} else {
			a.currentSampleRate = sampleRate.N(time.Second)
		}
	}

	var finalStreamer beep.Streamer = streamer
	if songFormat.SampleRate != beep.SampleRate(a.currentSampleRate) {
		logrus.Warningf("Resampling stream from %d Hz to %d Hz", songFormat.SampleRate.N(time.Second), a.currentSampleRate)
		finalStreamer = beep.Resample(4, songFormat.SampleRate, beep.SampleRate(a.currentSampleRate), streamer)
	}

	stream := beep.Seq(finalStreamer, beep.Callback(a.streamCompleted))
	speaker.Clear()
	speaker.Lock()
	old := a.streamer
	a.mixer.Clear()
	a.streamer = streamer
	a.mixer.Add(stream)
	a.ctrl.Paused = false
	a.status.Paused = false
	speaker.Unlock()

	// close the old stream after unlocking to avoid deadlock with speaker callbacks
	if old != nil {
		closeErr := old.Close()
		if closeErr != nil && closeErr != io.EOF {
			logrus.Errorf("failed to close old stream: %v", closeErr)
		}
	}

	speaker.Play(a.volume)
	speaker.Lock()
	a.status.Track = &track
	a.status.State = models.AudioStatePlaying
	a.status.Action = models.AudioActionPlay
	speaker.Unlock()
	a.flushStatus()
	return nil
}

// linear scaling with a & b coefficients
var volumeTodBA = float32(config.AudioMaxVolumedB-config.AudioMinVolumedB) /
	(config.AudioMaxVolume - config.AudioMinVolume)
var volumeTodBB = float32(config.AudioMinVolumedB - config.AudioMinVolume)

// Transform volume to db
func volumeTodB(volume int) float32 {
	return volumeTodBA*float32(volume) + volumeTodBB
}

// how many ticks current track has played
func (a *Audio) getPastTicks() models.AudioTick {
	speaker.Lock()
	defer speaker.Unlock()
	if a.streamer == nil || a.currentSampleRate == 0 {
		return 0
	}
	position := a.streamer.Position()
	if position < 0 {
		return 0
	}
	duration := time.Duration(position) * time.Second / time.Duration(a.currentSampleRate)
	return models.AudioTick(duration.Milliseconds())
}
