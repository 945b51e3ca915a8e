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

package library

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, file := range files {
		full := filepath.Join(root, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0760))
		require.NoError(t, ioutil.WriteFile(full, []byte("x"), 0640))
	}
}

func TestLibraryScan(t *testing.T) {
	root, err := ioutil.TempDir("", "trackq-library")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	writeFiles(t, root,
		"Artist/Album/01 - First.mp3",
		"Artist/Album/02 - Second.flac",
		"Artist/Album/cover.jpg",
		"Artist/loose.ogg",
		"top.wav",
		"Artist/Album/notes.txt",
	)

	l, err := NewLibrary(root)
	require.NoError(t, err)
	count, err := l.Scan()
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	tracks := l.GetTracks()
	require.Equal(t, 4, len(tracks))

	byTitle := map[string]int{}
	for i, track := range tracks {
		byTitle[track.Title] = i
	}

	first := tracks[byTitle["First"]]
	assert.Equal(t, "Artist", first.Artist)
	assert.Equal(t, "Album", first.Album)
	assert.Equal(t, filepath.Join(root, "Artist", "Album", "cover.jpg"), first.ArtworkFile)

	loose := tracks[byTitle["loose"]]
	assert.Equal(t, "Artist", loose.Artist)
	assert.Equal(t, "", loose.Album)

	top := tracks[byTitle["top"]]
	assert.Equal(t, "", top.Artist)
}

func TestLibraryStableIds(t *testing.T) {
	root, err := ioutil.TempDir("", "trackq-library")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	writeFiles(t, root, "a.mp3", "b.mp3")

	l, err := NewLibrary(root)
	require.NoError(t, err)
	_, err = l.Scan()
	require.NoError(t, err)

	before := l.GetTracks()
	_, err = l.Scan()
	require.NoError(t, err)
	after := l.GetTracks()

	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].Id, after[i].Id)
	}

	// lookup by id
	track := l.GetTrack(before[0].Id)
	require.NotNil(t, track)
	assert.Equal(t, before[0].File, track.File)
	assert.Nil(t, l.GetTrack("unknown"))
}

func TestTitleFromFile(t *testing.T) {
	tests := []struct {
		file  string
		title string
	}{
		{"01 - Song.mp3", "Song"},
		{"02. Another.flac", "Another"},
		{"Song.ogg", "Song"},
		{"99.mp3", "99.mp3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.title, titleFromFile(tt.file), tt.file)
	}
}
