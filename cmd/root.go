package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aurex",
	Short: "Lock-free SPSC audio playback engine",
	Long: `aurex - a producer/consumer audio player built around a lock-free SPSC
(Single-Producer Single-Consumer) FIFO between a decoder worker and a
real-time PortAudio callback.

Features:
  - Lock-free SPSC FIFO with zero-copy audio processing
  - Producer/consumer architecture for real-time streaming
  - Support for MP3, FLAC, WAV, Opus, and Vorbis audio formats
  - Configurable buffer sizes and audio devices
  - Sample rate transformation via a high-quality polyphase resampler

Commands:
  - play: Play a single audio file with real-time monitoring
  - playlist: Play multiple audio files sequentially
  - transform: Convert audio files to different sample rates and WAV format`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
