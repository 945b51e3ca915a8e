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

// Package library scans a local directory for audio files and turns them into tracks.
// Metadata is derived from the artist/album/title directory convention. Track ids are
// deterministic over the file path, so saved playlists stay valid across rescans.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"tryffel.net/go/trackq/interfaces"
	"tryffel.net/go/trackq/models"
)

// namespace for track ids, generated once for this application
var trackIdNamespace = uuid.MustParse("8e7f9a52-5b7e-46a2-9c00-5f4f370e2b97")

// TrackId returns the stable id for an audio file path.
func TrackId(file string) models.Id {
	return models.Id(uuid.NewSHA1(trackIdNamespace, []byte(file)).String())
}

var artworkNames = []string{"cover.jpg", "cover.png", "folder.jpg", "folder.png"}

// Library implements interfaces.MediaLibrary over a directory tree.
type Library struct {
	lock sync.RWMutex

	root    string
	tracks  []models.Track
	trackId map[models.Id]int
}

func NewLibrary(root string) (*Library, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("music directory: %v", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("music directory %s is not a directory", root)
	}
	l := &Library{
		root:    root,
		trackId: map[models.Id]int{},
	}
	return l, nil
}

// Scan walks the library directory and rebuilds the track list. Unknown file
// types are skipped. Returns the number of tracks found.
func (l *Library) Scan() (int, error) {
	tracks := make([]models.Track, 0)
	err := filepath.Walk(l.root, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			logrus.Warningf("scan %s: %v", file, err)
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if _, err := interfaces.FileToAudioFormat(file); err != nil {
			return nil
		}
		tracks = append(tracks, l.trackFromFile(file))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan library: %v", err)
	}

	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Artist != tracks[j].Artist {
			return tracks[i].Artist < tracks[j].Artist
		}
		if tracks[i].Album != tracks[j].Album {
			return tracks[i].Album < tracks[j].Album
		}
		return tracks[i].Title < tracks[j].Title
	})

	l.lock.Lock()
	l.tracks = tracks
	l.trackId = make(map[models.Id]int, len(tracks))
	for i, track := range tracks {
		l.trackId[track.Id] = i
	}
	l.lock.Unlock()

	logrus.Infof("Found %d tracks in %s", len(tracks), l.root)
	return len(tracks), nil
}

// trackFromFile derives track metadata from the file path. Files laid out as
// artist/album/title get artist and album filled, flatter layouts only a title.
func (l *Library) trackFromFile(file string) models.Track {
	track := models.Track{
		Id:    TrackId(file),
		Title: titleFromFile(file),
		File:  file,
	}

	rel, err := filepath.Rel(l.root, file)
	if err == nil {
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) >= 3 {
			track.Artist = parts[len(parts)-3]
			track.Album = parts[len(parts)-2]
		} else if len(parts) == 2 {
			track.Artist = parts[0]
		}
	}

	dir := filepath.Dir(file)
	for _, name := range artworkNames {
		artwork := filepath.Join(dir, name)
		if _, err := os.Stat(artwork); err == nil {
			track.ArtworkFile = artwork
			break
		}
	}
	return track
}

func titleFromFile(file string) string {
	name := filepath.Base(file)
	if index := strings.LastIndex(name, "."); index > 0 {
		name = name[:index]
	}
	// strip leading track number, e.g. '01 - '
	name = strings.TrimLeft(name, "0123456789")
	name = strings.TrimLeft(name, " -._")
	if name == "" {
		name = filepath.Base(file)
	}
	return name
}

// GetTracks returns all known tracks.
func (l *Library) GetTracks() []models.Track {
	l.lock.RLock()
	defer l.lock.RUnlock()
	tracks := make([]models.Track, len(l.tracks))
	copy(tracks, l.tracks)
	return tracks
}

// GetTrack returns a track by id, nil if the id is unknown.
func (l *Library) GetTrack(id models.Id) *models.Track {
	l.lock.RLock()
	defer l.lock.RUnlock()
	index, ok := l.trackId[id]
	if !ok {
		return nil
	}
	track := l.tracks[index]
	return &track
}
