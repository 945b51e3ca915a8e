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

package config

import "time"

const (
	AppName      = "Trackq"
	AppNameLower = "trackq"
	Version      = "0.3.0"
)

// audio configuration
const (
	AudioSamplingRate = 44100

	// Volume range in decibels
	AudioMinVolumedB = -6
	AudioMaxVolumedB = 0

	AudioVolumeLogBase = 2

	AudioMinVolume = 0
	AudioMaxVolume = 100
)

// AudioBufferPeriod is the length of the speaker buffer. Tradeoff between
// latency on pause/volume changes and glitch-free playback.
var AudioBufferPeriod = time.Millisecond * 150

// ConfigFile is the file that was used for reading configuration, set during startup.
var ConfigFile string

// LogFile is the file logrus writes to, set during startup. Empty if logging to stderr.
var LogFile string
