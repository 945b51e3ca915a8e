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
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "list-env",
	Short: "List env variables",
	Long: `Any configuration variable can be set with environment variables. This way it is
possible to run Trackq without persisting a config file (with e.g. Docker).
Trackq will still create a config file, nevertheless.

# Config overrides
TRACKQ_PLAYER_LIBRARY_DIR
TRACKQ_PLAYER_PLAYLIST_DIR
TRACKQ_PLAYER_LOGFILE
TRACKQ_PLAYER_LOGLEVEL
TRACKQ_PLAYER_AUDIO_BUFFERING_MS
TRACKQ_PLAYER_ENABLE_REMOTE_CONTROL
TRACKQ_PLAYER_REMOTE_CONTROL_ADDR
TRACKQ_PLAYER_ENABLE_MPRIS

`,
}

func init() {
	rootCmd.AddCommand(envCmd)

}
