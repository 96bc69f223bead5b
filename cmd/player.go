package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/libaurex/aurex/pkg/device"
	"github.com/libaurex/aurex/pkg/engine"
	"github.com/libaurex/aurex/pkg/quality"

	"github.com/drgolem/go-portaudio/portaudio"
	"github.com/spf13/cobra"
)

const (
	version = "1.0.0"
)

var (
	deviceIdx   int
	paFrames    int
	showVersion bool
	verbose     bool
	qualityFlag string
	volumeFlag  float32
)

// playerCmd represents the player command
var playerCmd = &cobra.Command{
	Use:   "play <audio_file>",
	Short: "Play audio files (MP3, FLAC, WAV, Opus, Vorbis)",
	Long: `Play a single audio file using the lock-free producer/consumer engine.

Examples:
  # Play an MP3 file
  aurex play music.mp3

  # Play a FLAC file with a specific device
  aurex play --device 0 music.flac

  # Play at a lower resampling quality (cheaper, lower latency)
  aurex play --quality low music.opus

Supported Formats:
  MP3:    .mp3 (16-bit lossy)
  FLAC:   .flac, .fla (16/24/32-bit lossless)
  WAV:    .wav (8/16/24/32-bit PCM)
  Opus:   .opus
  Vorbis: .ogg

Status Reporting:
  Playback status is displayed every 2 seconds showing the file name, the
  engine state, elapsed time and total duration.`,
	Args: cobra.ExactArgs(1),
	Run:  runPlayer,
}

func init() {
	rootCmd.AddCommand(playerCmd)

	playerCmd.Flags().IntVarP(&deviceIdx, "device", "d", 1, "Audio output device index")
	playerCmd.Flags().IntVarP(&paFrames, "frames", "f", 512, "Audio frames per buffer")
	playerCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	playerCmd.Flags().StringVarP(&qualityFlag, "quality", "q", "high", "Resampling quality: quick, low, medium, high, very_high")
	playerCmd.Flags().Float32Var(&volumeFlag, "volume", 1.0, "Initial playback volume (0.0-1.0)")
	playerCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}

func parseQuality(s string) quality.ResamplingQuality {
	switch s {
	case "quick":
		return quality.Quick
	case "low":
		return quality.Low
	case "medium":
		return quality.Medium
	case "very_high":
		return quality.VeryHigh
	default:
		return quality.High
	}
}

func runPlayer(cmd *cobra.Command, args []string) {
	if showVersion {
		fmt.Printf("aurex v%s\n", version)
		fmt.Println("Built with:")
		fmt.Println("  - Lock-free SPSC FIFO")
		fmt.Println("  - Producer/consumer architecture")
		fmt.Println("  - Zero-copy audio streaming")
		fmt.Println("  - PortAudio for cross-platform audio")
		os.Exit(0)
	}

	fileName := args[0]

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if _, err := os.Stat(fileName); os.IsNotExist(err) {
		slog.Error("File not found", "path", fileName)
		os.Exit(1)
	}

	slog.Info("Initializing PortAudio")
	if err := portaudio.Initialize(); err != nil {
		slog.Error("Failed to initialize PortAudio", "error", err)
		slog.Error("Hint: Make sure PortAudio is installed on your system")
		os.Exit(1)
	}
	defer portaudio.Terminate()

	slog.Info("PortAudio initialized", "version", portaudio.GetVersion())
	slog.Info("Audio configuration",
		"device_index", deviceIdx,
		"frames_per_buffer", paFrames,
		"quality", qualityFlag)

	mediaEnd := make(chan struct{}, 1)
	eng := engine.New(engine.Config{
		Quality: parseQuality(qualityFlag),
		Device: device.Config{
			DeviceIndex:     deviceIdx,
			Rate:            48000,
			FramesPerBuffer: paFrames,
		},
		OnEvent: func(sig engine.Signal, _ *engine.Engine) {
			if sig == engine.SignalMediaEnd {
				select {
				case mediaEnd <- struct{}{}:
				default:
				}
			}
		},
	})
	defer eng.Close()

	eng.SetVolume(volumeFlag)

	slog.Info("Opening audio file", "path", fileName)
	if err := eng.Load(fileName); err != nil {
		slog.Error("Failed to open file", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Starting playback")
	if err := eng.Play(); err != nil {
		slog.Error("Failed to start playback", "error", err)
		os.Exit(1)
	}

	statusDone := make(chan struct{})
	go monitorEngine(eng, statusDone)

	select {
	case <-mediaEnd:
		slog.Info("Playback completed successfully")
	case sig := <-sigChan:
		slog.Info("Signal received, stopping playback", "signal", sig)
	}

	close(statusDone)
	slog.Info("Exiting")
}

// monitorEngine logs progress and duration for eng every 2 seconds, in the
// same cadence the teacher's player used for ringbuffer status.
func monitorEngine(eng *engine.Engine, done chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			status := eng.GetPlaybackStatus()

			durationStr := "unknown"
			if status.TotalSamples > 0 {
				durationStr = fmt.Sprintf("%.1fs", float64(status.TotalSamples)/float64(status.SampleRate))
			}

			slog.Info("Playback status",
				"file", status.FileName,
				"state", eng.State(),
				"elapsed", fmt.Sprintf("%.1fs", float64(status.PlayedSamples)/float64(status.SampleRate)),
				"duration", durationStr)
		case <-done:
			return
		}
	}
}
