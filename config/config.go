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

// Package config contains application-wide configurations and constants. Parts of configuration are user-editable
// and per-instance and needs to be persisted. Others are static and meant for tuning the application.
// It also contains some helper methods to read and write config files and create directories when needed.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/crypto/ssh/terminal"
)

// AppConfig is a configuration loaded during startup
var AppConfig *Config

var configIsEmpty bool

type Config struct {
	Player   Player `yaml:"player"`
	ClientID string `yaml:"client_id"`
}

type Player struct {
	// LibraryDir is the root directory to scan for audio files.
	LibraryDir  string `yaml:"library_dir"`
	PlaylistDir string `yaml:"playlist_dir"`

	LogFile          string `yaml:"log_file"`
	LogLevel         string `yaml:"log_level"`
	AudioBufferingMs int    `yaml:"audio_buffering_ms"`

	EnableRemoteControl bool   `yaml:"enable_remote_control"`
	RemoteControlAddr   string `yaml:"remote_control_addr"`
	EnableMpris         bool   `yaml:"enable_mpris"`
}

func (p *Player) sanitize() {
	if p.LogFile == "" {
		dir := os.TempDir()
		p.LogFile = path.Join(dir, AppNameLower+".log")
	}
	if p.LogLevel == "" {
		p.LogLevel = logrus.WarnLevel.String()
	}

	if p.AudioBufferingMs == 0 {
		p.AudioBufferingMs = 150
	}
	if p.RemoteControlAddr == "" {
		p.RemoteControlAddr = "127.0.0.1:9010"
	}

	if p.PlaylistDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			logrus.Fatalf("cannot set playlist directory, please set manually: 'config.player.playlist_dir'")
		}
		p.PlaylistDir = path.Join(configDir, AppNameLower, "playlists")
	}
}

// initialize new config with some sensible values
func (c *Config) initNewConfig() {
	c.Player.sanitize()
	c.Player.EnableRemoteControl = true
	c.Player.EnableMpris = true
	c.Player.LogLevel = logrus.InfoLevel.String()

	tempDir := os.TempDir()
	c.Player.LogFile = path.Join(tempDir, AppNameLower+".log")
}

// can config file be considered empty / not configured
func (c *Config) isEmptyConfig() bool {
	return c.Player.LibraryDir == ""
}

// ReadUserInput reads value from stdin. Name is printed like 'Enter <name>'.
// Errors if stdin is not an interactive terminal.
func ReadUserInput(name string) (string, error) {
	// needs cast for windows
	if !terminal.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("stdin is not a terminal")
	}
	fmt.Print("Enter ", name, ": ")
	reader := bufio.NewReader(os.Stdin)
	val, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read user input: %v", err)
	}
	val = strings.Trim(val, "\n\r")
	return val, nil
}

// ConfigFromViper reads full application configuration from viper.
func ConfigFromViper() error {
	AppConfig = &Config{
		Player: Player{
			LibraryDir:          viper.GetString("player.library_dir"),
			PlaylistDir:         viper.GetString("player.playlist_dir"),
			LogFile:             viper.GetString("player.logfile"),
			LogLevel:            viper.GetString("player.loglevel"),
			AudioBufferingMs:    viper.GetInt("player.audio_buffering_ms"),
			EnableRemoteControl: viper.GetBool("player.enable_remote_control"),
			RemoteControlAddr:   viper.GetString("player.remote_control_addr"),
			EnableMpris:         viper.GetBool("player.enable_mpris"),
		},
		ClientID: viper.GetString("client_id"),
	}

	if AppConfig.isEmptyConfig() {
		configIsEmpty = true
		setDefaults()
	} else {
		AppConfig.Player.sanitize()
	}
	AudioBufferPeriod = time.Millisecond * time.Duration(AppConfig.Player.AudioBufferingMs)
	return nil
}

func SaveConfig() error {
	UpdateViper()
	err := viper.WriteConfig()
	if err != nil {
		return fmt.Errorf("save config file: %v", err)
	}
	return nil
}

func setDefaults() {
	if configIsEmpty {
		AppConfig.initNewConfig()
		err := SaveConfig()
		if err != nil {
			logrus.Errorf("save config file: %v", err)
		}
	}
}

// set AppConfig. This is needed for testing.
func configFrom(conf *Config) {
	AppConfig = conf
}

func UpdateViper() {
	viper.Set("player.library_dir", AppConfig.Player.LibraryDir)
	viper.Set("player.playlist_dir", AppConfig.Player.PlaylistDir)
	viper.Set("player.logfile", AppConfig.Player.LogFile)
	viper.Set("player.loglevel", AppConfig.Player.LogLevel)
	viper.Set("player.audio_buffering_ms", AppConfig.Player.AudioBufferingMs)
	viper.Set("player.enable_remote_control", AppConfig.Player.EnableRemoteControl)
	viper.Set("player.remote_control_addr", AppConfig.Player.RemoteControlAddr)
	viper.Set("player.enable_mpris", AppConfig.Player.EnableMpris)
	viper.Set("client_id", AppConfig.ClientID)
}

// NewConfigFile creates the config directory and an empty config file, if they don't exist yet.
func NewConfigFile(file string) error {
	if file == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("cannot determine config directory: %v", err)
		}
		dir := path.Join(configDir, AppNameLower)
		err = os.MkdirAll(dir, 0760)
		if err != nil {
			return fmt.Errorf("create config dir: %v", err)
		}
		file = path.Join(dir, AppNameLower+".yaml")
	} else {
		err := os.MkdirAll(path.Dir(file), 0760)
		if err != nil {
			return fmt.Errorf("create config dir: %v", err)
		}
	}

	fd, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("create config file: %v", err)
	}
	return fd.Close()
}

// GetClientID retrieves the unique client ID for this instance.
// If an ID doesn't exist in the config, it generates a new UUID,
// saves it to the config, and returns it.
func GetClientID() (string, error) {
	if AppConfig.ClientID != "" {
		return AppConfig.ClientID, nil
	}

	newID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate client UUID: %w", err)
	}

	AppConfig.ClientID = newID.String()
	logrus.Infof("Generated new Client ID: %s", AppConfig.ClientID)

	err = SaveConfig()
	if err != nil {
		// ID is generated but not persisted yet, it gets saved on the next successful save
		logrus.Errorf("Failed to save config after generating Client ID: %v", err)
	}

	return AppConfig.ClientID, nil
}

// GetDeviceID returns an identifier unique to this machine and application.
// Falls back to client id if the machine id is not available.
func GetDeviceID() string {
	id, err := machineid.ProtectedID(AppNameLower)
	if err != nil {
		logrus.Warningf("read machine id: %v", err)
		id, _ = GetClientID()
	}
	return id
}
