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

// Package storage persists named playlists as ordered lists of track ids.
// Resolving ids back to tracks is done against the library, unknown ids are
// skipped so that playlists survive removed files.
package storage

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"tryffel.net/go/trackq/interfaces"
	"tryffel.net/go/trackq/models"
)

// Playlist is a saved, ordered list of track ids.
type Playlist struct {
	Name     string      `json:"name"`
	TrackIds []models.Id `json:"track_ids"`
	SavedAt  time.Time   `json:"saved_at"`
}

// Playlists stores playlists as json files in a single directory.
type Playlists struct {
	dir string
}

func NewPlaylists(dir string) (*Playlists, error) {
	err := os.MkdirAll(dir, 0760)
	if err != nil {
		return nil, fmt.Errorf("create playlist dir: %v", err)
	}
	return &Playlists{dir: dir}, nil
}

func (p *Playlists) file(name string) string {
	return path.Join(p.dir, name+".json")
}

// Save stores tracks as a named playlist, overwriting an existing playlist
// with the same name. Only track ids are persisted.
func (p *Playlists) Save(name string, tracks []models.Track) error {
	if name == "" {
		return fmt.Errorf("empty playlist name")
	}
	playlist := Playlist{
		Name:     name,
		TrackIds: make([]models.Id, len(tracks)),
		SavedAt:  time.Now(),
	}
	for i, track := range tracks {
		playlist.TrackIds[i] = track.Id
	}

	data, err := json.MarshalIndent(&playlist, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal playlist: %v", err)
	}
	err = ioutil.WriteFile(p.file(name), data, 0640)
	if err != nil {
		return fmt.Errorf("write playlist file: %v", err)
	}
	logrus.Infof("Saved playlist %s with %d tracks", name, len(tracks))
	return nil
}

// Load reads a named playlist and resolves its ids against the library, in
// saved order. Ids the library doesn't know are dropped with a warning.
func (p *Playlists) Load(name string, library interfaces.MediaLibrary) ([]models.Track, error) {
	data, err := ioutil.ReadFile(p.file(name))
	if err != nil {
		return nil, fmt.Errorf("read playlist file: %v", err)
	}
	playlist := Playlist{}
	err = json.Unmarshal(data, &playlist)
	if err != nil {
		return nil, fmt.Errorf("parse playlist file: %v", err)
	}

	tracks := make([]models.Track, 0, len(playlist.TrackIds))
	for _, id := range playlist.TrackIds {
		track := library.GetTrack(id)
		if track == nil {
			logrus.Warningf("playlist %s: track %s not in library, skipping", name, id)
			continue
		}
		tracks = append(tracks, *track)
	}
	return tracks, nil
}

// List returns names of all saved playlists, sorted.
func (p *Playlists) List() ([]string, error) {
	files, err := ioutil.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("read playlist dir: %v", err)
	}
	names := make([]string, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(file.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a named playlist. Unknown name is an error.
func (p *Playlists) Delete(name string) error {
	err := os.Remove(p.file(name))
	if err != nil {
		return fmt.Errorf("delete playlist: %v", err)
	}
	return nil
}

// ExportM3U writes tracks as an extended m3u file for use in other players.
func ExportM3U(file string, tracks []models.Track) error {
	builder := strings.Builder{}
	builder.WriteString("#EXTM3U\n")
	for _, track := range tracks {
		title := track.Title
		if track.Artist != "" {
			title = track.Artist + " - " + title
		}
		builder.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", track.Duration, title))
		builder.WriteString(track.File)
		builder.WriteString("\n")
	}
	err := ioutil.WriteFile(file, []byte(builder.String()), 0640)
	if err != nil {
		return fmt.Errorf("write m3u file: %v", err)
	}
	return nil
}
