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

// Package remote exposes the player over a websocket so that UIs and scripts can
// issue queue commands and follow playback state. One json message per command,
// state snapshots are pushed to every connected client whenever queue, current
// track or audio status change.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"tryffel.net/go/trackq/config"
	"tryffel.net/go/trackq/interfaces"
	"tryffel.net/go/trackq/models"
	"tryffel.net/go/trackq/storage"
)

// Command is a single remote command. Unknown track ids degrade to no-ops just
// like local commands do.
type Command struct {
	Command  string    `json:"command"`
	TrackId  models.Id `json:"track_id,omitempty"`
	TargetId models.Id `json:"target_id,omitempty"`
	Volume   int       `json:"volume,omitempty"`
	Ticks    int       `json:"ticks,omitempty"`
	// Name is a playlist name for playlist commands
	Name string `json:"name,omitempty"`
}

type trackJson struct {
	Id     models.Id `json:"id"`
	Title  string    `json:"title"`
	Artist string    `json:"artist,omitempty"`
	Album  string    `json:"album,omitempty"`
	// duration in seconds
	Duration int `json:"duration,omitempty"`
}

// State is pushed to clients on every change. DeviceId identifies this
// player instance, so a client controlling multiple players can tell them apart.
type State struct {
	Type     string      `json:"type"`
	DeviceId string      `json:"device_id"`
	Queue    []trackJson `json:"queue"`
	Current  *trackJson  `json:"current"`
	Shuffle  bool        `json:"shuffle"`
	Repeat   string      `json:"repeat"`
	Paused   bool        `json:"paused"`
	Volume   int         `json:"volume"`
}

func toTrackJson(track models.Track) trackJson {
	return trackJson{
		Id:       track.Id,
		Title:    track.Title,
		Artist:   track.Artist,
		Album:    track.Album,
		Duration: track.Duration,
	}
}

// Server is the websocket remote control endpoint.
type Server struct {
	addr      string
	deviceId  string
	queue     interfaces.QueueController
	player    interfaces.Player
	library   interfaces.MediaLibrary
	playlists *storage.Playlists

	upgrader websocket.Upgrader
	server   *http.Server

	lock    sync.Mutex
	clients map[*websocket.Conn]bool
	paused  bool
	volume  int

	// serializes writes, gorilla connections allow only one concurrent writer
	writeLock sync.Mutex
}

func NewServer(addr string, queue interfaces.QueueController, player interfaces.Player,
	library interfaces.MediaLibrary, playlists *storage.Playlists) *Server {
	s := &Server{
		addr:      addr,
		deviceId:  config.GetDeviceID(),
		queue:     queue,
		player:    player,
		library:   library,
		playlists: playlists,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: map[*websocket.Conn]bool{},
		volume:  models.AudioVolumeMax,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	s.server = &http.Server{Addr: addr, Handler: mux}

	queue.AddQueueChangedCallback(func([]models.Track) { s.pushState() })
	queue.AddTrackChangedCallback(func(*models.Track) { s.pushState() })
	player.AddStatusCallback(s.audioStatusChanged)
	return s
}

// Start starts serving in the background.
func (s *Server) Start() error {
	logrus.Infof("Remote control listening on ws://%s/ws", s.addr)
	go func() {
		err := s.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.Errorf("remote control server: %v", err)
		}
	}()
	return nil
}

// Stop disconnects all clients and stops the server.
func (s *Server) Stop() error {
	s.lock.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = map[*websocket.Conn]bool{}
	s.lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown remote control server: %v", err)
	}
	return nil
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("websocket upgrade: %v", err)
		return
	}
	logrus.Infof("Remote client connected: %s", conn.RemoteAddr())

	s.lock.Lock()
	s.clients[conn] = true
	s.lock.Unlock()

	// send initial state
	s.send(conn, s.state())

	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	defer func() {
		s.lock.Lock()
		delete(s.clients, conn)
		s.lock.Unlock()
		conn.Close()
		logrus.Infof("Remote client disconnected: %s", conn.RemoteAddr())
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Warningf("read remote command: %v", err)
			}
			return
		}
		cmd := Command{}
		err = json.Unmarshal(data, &cmd)
		if err != nil {
			logrus.Warningf("invalid remote command: %v", err)
			continue
		}
		s.handleCommand(conn, cmd)
	}
}

func (s *Server) handleCommand(conn *websocket.Conn, cmd Command) {
	logrus.Debugf("remote command: %s", cmd.Command)
	switch cmd.Command {
	case "play_now":
		if track := s.library.GetTrack(cmd.TrackId); track != nil {
			s.queue.PlayNow(*track)
		}
	case "enqueue":
		if track := s.library.GetTrack(cmd.TrackId); track != nil {
			s.queue.Enqueue(*track)
		}
	case "dequeue":
		s.queue.Dequeue(cmd.TrackId)
	case "reorder":
		s.queue.Reorder(cmd.TrackId, cmd.TargetId)
	case "next":
		s.player.Next()
	case "previous":
		s.player.Previous()
	case "play_pause":
		s.player.PlayPause()
	case "stop":
		s.player.StopMedia()
	case "seek":
		s.player.Seek(models.AudioTick(cmd.Ticks))
	case "shuffle":
		s.queue.ToggleShuffle()
	case "repeat":
		s.queue.CycleRepeat()
	case "clear":
		s.queue.Clear()
	case "volume":
		s.player.SetVolume(models.AudioVolume(cmd.Volume))
	case "status":
		s.send(conn, s.state())
	case "library":
		s.sendLibrary(conn)
	case "save_playlist":
		err := s.playlists.Save(cmd.Name, s.queue.GetQueue())
		if err != nil {
			logrus.Errorf("save playlist: %v", err)
		}
	case "load_playlist":
		tracks, err := s.playlists.Load(cmd.Name, s.library)
		if err != nil {
			logrus.Errorf("load playlist: %v", err)
			return
		}
		s.queue.Load(tracks)
	case "list_playlists":
		s.sendPlaylists(conn)
	default:
		logrus.Warningf("unknown remote command: %s", cmd.Command)
	}
}

func (s *Server) sendLibrary(conn *websocket.Conn) {
	tracks := s.library.GetTracks()
	list := make([]trackJson, len(tracks))
	for i, track := range tracks {
		list[i] = toTrackJson(track)
	}
	msg := struct {
		Type   string      `json:"type"`
		Tracks []trackJson `json:"tracks"`
	}{Type: "library", Tracks: list}
	s.send(conn, msg)
}

func (s *Server) sendPlaylists(conn *websocket.Conn) {
	names, err := s.playlists.List()
	if err != nil {
		logrus.Errorf("list playlists: %v", err)
		return
	}
	msg := struct {
		Type      string   `json:"type"`
		Playlists []string `json:"playlists"`
	}{Type: "playlists", Playlists: names}
	s.send(conn, msg)
}

func (s *Server) state() State {
	tracks := s.queue.GetQueue()
	state := State{
		Type:     "status",
		DeviceId: s.deviceId,
		Queue:    make([]trackJson, len(tracks)),
		Shuffle:  s.queue.ShuffleEnabled(),
		Repeat:   s.queue.RepeatMode().String(),
	}
	for i, track := range tracks {
		state.Queue[i] = toTrackJson(track)
	}
	if current := s.queue.CurrentTrack(); current != nil {
		c := toTrackJson(*current)
		state.Current = &c
	}
	s.lock.Lock()
	state.Paused = s.paused
	state.Volume = s.volume
	s.lock.Unlock()
	return state
}

func (s *Server) audioStatusChanged(status models.AudioStatus) {
	s.lock.Lock()
	changed := s.paused != status.Paused || s.volume != int(status.Volume)
	s.paused = status.Paused
	s.volume = int(status.Volume)
	s.lock.Unlock()
	if changed {
		s.pushState()
	}
}

func (s *Server) pushState() {
	state := s.state()
	s.lock.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.lock.Unlock()
	for _, conn := range conns {
		s.send(conn, state)
	}
}

func (s *Server) send(conn *websocket.Conn, msg interface{}) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	err := conn.WriteJSON(msg)
	if err != nil {
		logrus.Warningf("write to remote client: %v", err)
	}
}
