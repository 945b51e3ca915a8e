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

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"tryffel.net/go/trackq/config"
	"tryffel.net/go/trackq/library"
	"tryffel.net/go/trackq/mpris"
	"tryffel.net/go/trackq/player"
	"tryffel.net/go/trackq/remote"
	"tryffel.net/go/trackq/storage"
	"tryffel.net/go/trackq/task"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use: config.AppNameLower,
	Long: `Trackq is a headless music player for local files. It manages a play queue
with shuffle and repeat and is controlled over websocket and mpris.

`,

	Run: func(cmd *cobra.Command, args []string) {
		initConfig()
		err := initApplication()
		if err != nil {
			logrus.Fatalf("Failed to initialize application: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file")
}

func initConfig() {
	// default config dir is ~/.config/trackq
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := os.UserConfigDir()
		if err != nil {
			logrus.Errorf("cannot determine config directory: %v", err)
			configDir = ""
		} else {
			configDir = path.Join(configDir, config.AppNameLower)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigFile(path.Join(configDir, config.AppNameLower+".yaml"))
	}

	// env variables
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvPrefix(config.AppNameLower)
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = config.NewConfigFile(cfgFile)
			if err != nil {
				logrus.Fatalf("create config file: %v", err)
			}
		} else {
			logrus.Fatalf("read config file: %v", err)
		}
	}

	err := config.ConfigFromViper()
	if err != nil {
		logrus.Fatalf("read config file: %v", err)
	}

	ensureLibraryDir()

	err = config.SaveConfig()
	if err != nil {
		logrus.Fatalf("save config file: %v", err)
	}

	file := viper.ConfigFileUsed()
	config.ConfigFile = file
}

// ensureLibraryDir prompts for the music directory on first run.
func ensureLibraryDir() {
	if config.AppConfig.Player.LibraryDir != "" {
		return
	}
	dir, err := config.ReadUserInput("music directory")
	if err != nil {
		logrus.Fatalf("read music directory: %v", err)
	}
	if dir == "" {
		logrus.Fatal("music directory is required")
	}
	config.AppConfig.Player.LibraryDir = dir
}

// initLogging opens the configured log file and points logrus at it.
// Falls back to stderr if the file cannot be opened.
func initLogging() (*os.File, error) {
	level, err := logrus.ParseLevel(config.AppConfig.Player.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing log level '%s': %v. Defaulting to INFO.\n",
			config.AppConfig.Player.LogLevel, err)
		level = logrus.InfoLevel
	}

	logrus.SetLevel(level)
	format := &prefixed.TextFormatter{
		ForceColors:     false,
		ForceFormatting: true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	}
	logrus.SetFormatter(format)

	file, err := os.OpenFile(config.AppConfig.Player.LogFile,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		logrus.SetOutput(os.Stderr)
		config.LogFile = ""
		logrus.Errorf("open log file: %v, logging to stderr", err)
		return nil, nil
	}
	logrus.SetOutput(file)
	config.LogFile = config.AppConfig.Player.LogFile
	return file, nil
}

type app struct {
	library   *library.Library
	playlists *storage.Playlists
	player    *player.Player
	remote    *remote.Server
	mpris     *mpris.Mpris

	logfile *os.File
}

func initApplication() error {
	logfile, err := initLogging()
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	a := &app{logfile: logfile}

	logrus.Infof("############# %s v%s ############", config.AppName, config.Version)

	err = a.initApp()
	if err != nil {
		logrus.Errorf("init application: %v", err)
		return fmt.Errorf("init application: %w", err)
	}

	err = config.SaveConfig()
	if err != nil {
		logrus.Warningf("save config file: %v", err)
	}

	a.run()
	return nil
}

func (a *app) initApp() error {
	var err error
	logrus.Info("Initializing library...")
	a.library, err = library.NewLibrary(config.AppConfig.Player.LibraryDir)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	count, err := a.library.Scan()
	if err != nil {
		return fmt.Errorf("scan library: %w", err)
	}
	if count == 0 {
		logrus.Warningf("No audio files found in %s", config.AppConfig.Player.LibraryDir)
	}

	a.playlists, err = storage.NewPlaylists(config.AppConfig.Player.PlaylistDir)
	if err != nil {
		return fmt.Errorf("open playlists: %w", err)
	}

	logrus.Info("Initializing player...")
	a.player, err = player.NewPlayer()
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}

	if config.AppConfig.Player.EnableRemoteControl {
		a.remote = remote.NewServer(config.AppConfig.Player.RemoteControlAddr,
			a.player, a.player, a.library, a.playlists)
	}

	if config.AppConfig.Player.EnableMpris {
		a.mpris, err = mpris.NewMpris(a.player)
		if err != nil {
			// mpris is best-effort, e.g. no session bus on a server
			logrus.Warningf("mpris disabled: %v", err)
			a.mpris = nil
		}
	}
	return nil
}

func (a *app) run() {
	tasks := []task.Tasker{task.Tasker(a.player)}
	if a.remote != nil {
		tasks = append(tasks, a.remote)
	}
	for _, t := range tasks {
		err := t.Start()
		if err != nil {
			logrus.Fatalf("Failed to start task (%T): %v", t, err)
		}
	}
	logrus.Info("Application started successfully. Running headless.")
	logrus.Info("Press Ctrl+C to exit.")

	a.stopOnSignal()
}

func (a *app) stopOnSignal() {
	sigChan := catchSignals()
	sig := <-sigChan
	logrus.Infof("Received signal: %s. Shutting down...", sig)
	err := a.stop()
	if err != nil {
		logrus.Errorf("Error during application stop: %v", err)
	} else {
		logrus.Info("Application stopped successfully.")
	}
}

func (a *app) stop() error {
	tasks := []task.Tasker{task.Tasker(a.player)}
	if a.remote != nil {
		tasks = append(tasks, a.remote)
	}
	var firstErr error

	if a.mpris != nil {
		err := a.mpris.Close()
		if err != nil {
			logrus.Errorf("close mpris: %v", err)
		}
	}

	// stop in reverse order of start
	for i := len(tasks) - 1; i >= 0; i-- {
		err := tasks[i].Stop()
		if err != nil {
			logrus.Errorf("Error stopping task (%T): %v", tasks[i], err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if a.logfile != nil {
		_ = a.logfile.Close()
	}
	return firstErr
}

func catchSignals() chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c,
		syscall.SIGINT,
		syscall.SIGTERM)
	return c
}
