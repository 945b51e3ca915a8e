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

// Package mpris exposes the player on the session dbus with the
// org.mpris.MediaPlayer2 interface, so desktop environments and media keys
// can control playback.
package mpris

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"
	"github.com/godbus/dbus/prop"
	"github.com/sirupsen/logrus"
	"tryffel.net/go/trackq/config"
	"tryffel.net/go/trackq/interfaces"
	"tryffel.net/go/trackq/models"
)

const (
	busName    = "org.mpris.MediaPlayer2." + config.AppNameLower
	objectPath = "/org/mpris/MediaPlayer2"

	rootInterface   = "org.mpris.MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"
)

// Mpris connects the player to the session dbus.
type Mpris struct {
	conn   *dbus.Conn
	props  *prop.Properties
	player interfaces.Player
}

// root implements the org.mpris.MediaPlayer2 interface. Trackq is headless so
// Raise does nothing.
type root struct{}

func (r *root) Raise() *dbus.Error { return nil }
func (r *root) Quit() *dbus.Error  { return nil }

// mediaPlayer implements org.mpris.MediaPlayer2.Player methods.
type mediaPlayer struct {
	player interfaces.Player
}

func (m *mediaPlayer) Next() *dbus.Error {
	m.player.Next()
	return nil
}

func (m *mediaPlayer) Previous() *dbus.Error {
	m.player.Previous()
	return nil
}

func (m *mediaPlayer) Pause() *dbus.Error {
	m.player.Pause()
	return nil
}

func (m *mediaPlayer) PlayPause() *dbus.Error {
	m.player.PlayPause()
	return nil
}

func (m *mediaPlayer) Play() *dbus.Error {
	m.player.Continue()
	return nil
}

func (m *mediaPlayer) Stop() *dbus.Error {
	m.player.StopMedia()
	return nil
}

// NewMpris connects to session bus and claims the player name. Status is kept
// current by subscribing to player status callbacks.
func NewMpris(player interfaces.Player) (*Mpris, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session dbus: %v", err)
	}

	reply, err := conn.RequestName(busName, dbus.NameFlagReplaceExisting)
	if err != nil {
		return nil, fmt.Errorf("request dbus name: %v", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, fmt.Errorf("dbus name %s already taken", busName)
	}

	m := &Mpris{
		conn:   conn,
		player: player,
	}

	err = conn.Export(&root{}, objectPath, rootInterface)
	if err != nil {
		return nil, fmt.Errorf("export dbus root: %v", err)
	}
	err = conn.Export(&mediaPlayer{player: player}, objectPath, playerInterface)
	if err != nil {
		return nil, fmt.Errorf("export dbus player: %v", err)
	}

	propMap := map[string]map[string]*prop.Prop{
		rootInterface: {
			"Identity":            {Value: config.AppName, Writable: false, Emit: prop.EmitTrue},
			"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitTrue},
			"CanQuit":             {Value: false, Writable: false, Emit: prop.EmitTrue},
			"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitTrue},
			"SupportedUriSchemes": {Value: []string{"file"}, Writable: false, Emit: prop.EmitTrue},
			"SupportedMimeTypes":  {Value: []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, Writable: false, Emit: prop.EmitTrue},
		},
		playerInterface: {
			"PlaybackStatus": {Value: "Stopped", Writable: false, Emit: prop.EmitTrue},
			"LoopStatus":     {Value: "None", Writable: false, Emit: prop.EmitTrue},
			"Shuffle":        {Value: false, Writable: false, Emit: prop.EmitTrue},
			"Metadata":       {Value: map[string]dbus.Variant{}, Writable: false, Emit: prop.EmitTrue},
			"Volume":         {Value: float64(1), Writable: false, Emit: prop.EmitTrue},
			"CanGoNext":      {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanGoPrevious":  {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanPlay":        {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanPause":       {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanSeek":        {Value: false, Writable: false, Emit: prop.EmitTrue},
			"CanControl":     {Value: true, Writable: false, Emit: prop.EmitTrue},
		},
	}
	m.props = prop.New(conn, objectPath, propMap)

	node := &introspect.Node{
		Name: objectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{Name: rootInterface},
			{Name: playerInterface},
		},
	}
	err = conn.Export(introspect.NewIntrospectable(node), objectPath,
		"org.freedesktop.DBus.Introspectable")
	if err != nil {
		return nil, fmt.Errorf("export dbus introspection: %v", err)
	}

	player.AddStatusCallback(m.statusChanged)
	logrus.Infof("Mpris initialized as %s", busName)
	return m, nil
}

// Close releases the dbus name.
func (m *Mpris) Close() error {
	_, err := m.conn.ReleaseName(busName)
	if err != nil {
		return fmt.Errorf("release dbus name: %v", err)
	}
	return m.conn.Close()
}

func (m *Mpris) statusChanged(status models.AudioStatus) {
	playback := "Stopped"
	if status.State == models.AudioStatePlaying {
		if status.Paused {
			playback = "Paused"
		} else {
			playback = "Playing"
		}
	}
	m.props.SetMust(playerInterface, "PlaybackStatus", playback)
	m.props.SetMust(playerInterface, "Shuffle", status.Shuffle)
	m.props.SetMust(playerInterface, "LoopStatus", loopStatus(status.Repeat))
	m.props.SetMust(playerInterface, "Volume", float64(status.Volume)/models.AudioVolumeMax)
	m.props.SetMust(playerInterface, "Metadata", metadata(status.Track))
}

func loopStatus(mode models.RepeatMode) string {
	switch mode {
	case models.RepeatAll:
		return "Playlist"
	case models.RepeatOne:
		return "Track"
	default:
		return "None"
	}
}

func metadata(track *models.Track) map[string]dbus.Variant {
	meta := map[string]dbus.Variant{}
	if track == nil {
		return meta
	}
	// object paths may not contain '-'
	pathId := strings.Replace(track.Id.String(), "-", "_", -1)
	meta["mpris:trackid"] = dbus.MakeVariant(dbus.ObjectPath("/tryffel/trackq/track/" + pathId))
	meta["xesam:title"] = dbus.MakeVariant(track.Title)
	if track.Artist != "" {
		meta["xesam:artist"] = dbus.MakeVariant([]string{track.Artist})
	}
	if track.Album != "" {
		meta["xesam:album"] = dbus.MakeVariant(track.Album)
	}
	if track.Duration > 0 {
		// mpris length is in microseconds
		meta["mpris:length"] = dbus.MakeVariant(int64(track.Duration) * 1000000)
	}
	if track.ArtworkFile != "" {
		meta["mpris:artUrl"] = dbus.MakeVariant("file://" + track.ArtworkFile)
	}
	return meta
}
