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

package storage

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tryffel.net/go/trackq/models"
)

type fakeLibrary struct {
	tracks map[models.Id]models.Track
}

func (f *fakeLibrary) GetTracks() []models.Track {
	tracks := make([]models.Track, 0, len(f.tracks))
	for _, track := range f.tracks {
		tracks = append(tracks, track)
	}
	return tracks
}

func (f *fakeLibrary) GetTrack(id models.Id) *models.Track {
	track, ok := f.tracks[id]
	if !ok {
		return nil
	}
	return &track
}

func tempPlaylists(t *testing.T) (*Playlists, string) {
	t.Helper()
	dir, err := ioutil.TempDir("", "trackq-playlists")
	require.NoError(t, err)
	p, err := NewPlaylists(dir)
	require.NoError(t, err)
	return p, dir
}

func TestPlaylistsSaveLoad(t *testing.T) {
	p, dir := tempPlaylists(t)
	defer os.RemoveAll(dir)

	tracks := []models.Track{
		{Id: "a", Title: "A"},
		{Id: "b", Title: "B"},
		{Id: "c", Title: "C"},
	}
	require.NoError(t, p.Save("evening", tracks))

	library := &fakeLibrary{tracks: map[models.Id]models.Track{
		"a": tracks[0],
		"c": tracks[2],
	}}

	// order preserved, ids missing from library dropped
	loaded, err := p.Load("evening", library)
	require.NoError(t, err)
	require.Equal(t, 2, len(loaded))
	assert.Equal(t, models.Id("a"), loaded[0].Id)
	assert.Equal(t, models.Id("c"), loaded[1].Id)

	_, err = p.Load("missing", library)
	assert.Error(t, err)
}

func TestPlaylistsListDelete(t *testing.T) {
	p, dir := tempPlaylists(t)
	defer os.RemoveAll(dir)

	require.NoError(t, p.Save("b", nil))
	require.NoError(t, p.Save("a", nil))

	names, err := p.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, p.Delete("a"))
	names, err = p.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	assert.Error(t, p.Delete("a"))
}

func TestPlaylistsEmptyName(t *testing.T) {
	p, dir := tempPlaylists(t)
	defer os.RemoveAll(dir)
	assert.Error(t, p.Save("", nil))
}

func TestExportM3U(t *testing.T) {
	dir, err := ioutil.TempDir("", "trackq-m3u")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := path.Join(dir, "queue.m3u")
	tracks := []models.Track{
		{Id: "a", Title: "Song", Artist: "Artist", Duration: 120, File: "/music/a.mp3"},
		{Id: "b", Title: "Untagged", File: "/music/b.mp3"},
	}
	require.NoError(t, ExportM3U(file, tracks))

	data, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n#EXTINF:120,Artist - Song\n/music/a.mp3\n#EXTINF:0,Untagged\n/music/b.mp3\n", string(data))
}
