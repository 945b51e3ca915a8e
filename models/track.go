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

// Package models contains data types that are passed between packages: tracks and audio player status.
package models

// Id is a unique identifier for a track. Ids are stable across library rescans.
type Id string

func (i Id) String() string {
	return string(i)
}

// Track is a single playable item. Queue and player only rely on Id,
// all other fields are metadata that is passed through as-is.
type Track struct {
	Id     Id
	Title  string
	Artist string
	Album  string
	Year   int
	// Duration in seconds
	Duration int
	// ArtworkFile is a path to cover art, empty if none was found
	ArtworkFile string
	// File is an absolute path to the audio file
	File string
}
