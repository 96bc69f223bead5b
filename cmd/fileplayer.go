package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/libaurex/aurex/pkg/device"
	"github.com/libaurex/aurex/pkg/engine"

	"github.com/drgolem/go-portaudio/portaudio"
	"github.com/spf13/cobra"
)

var (
	// Flags for playlist command
	playlistDeviceIdx int
	playlistPAFrames  int
	playlistQuality   string
	playlistVerbose   bool
)

// playlistCmd represents the playlist command
var playlistCmd = &cobra.Command{
	Use:   "playlist <audio_file> [audio_file...]",
	Short: "Play multiple audio files sequentially",
	Long: `Play a list of audio files one after another through a single engine
instance, reusing the same decoder worker, FIFO, and audio device across
tracks (engine.Load is legal from any state).

Examples:
  # Play multiple files
  aurex playlist song1.mp3 song2.flac song3.wav

  # Play all MP3 files in current directory
  aurex playlist *.mp3

  # Use specific device with verbose output
  aurex playlist -d 0 -v music/*.flac

Supported Formats:
  MP3:    .mp3 (16-bit lossy)
  FLAC:   .flac, .fla (16/24/32-bit lossless)
  WAV:    .wav (8/16/24/32-bit PCM)
  Opus:   .opus
  Vorbis: .ogg`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPlaylist,
}

func init() {
	rootCmd.AddCommand(playlistCmd)

	playlistCmd.Flags().IntVarP(&playlistDeviceIdx, "device", "d", 1, "Audio output device index")
	playlistCmd.Flags().IntVarP(&playlistPAFrames, "paframes", "p", 512, "PortAudio frames per buffer")
	playlistCmd.Flags().StringVarP(&playlistQuality, "quality", "q", "high", "Resampling quality: quick, low, medium, high, very_high")
	playlistCmd.Flags().BoolVarP(&playlistVerbose, "verbose", "v", false, "Verbose output (debug logging)")
}

func runPlaylist(cmd *cobra.Command, args []string) {
	logLevel := slog.LevelInfo
	if playlistVerbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	files := args

	slog.Info("Initializing PortAudio")
	if err := portaudio.Initialize(); err != nil {
		slog.Error("Failed to initialize PortAudio", "error", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()

	slog.Info("PortAudio initialized", "version", portaudio.GetVersion())
	slog.Info("Configuration",
		"device_index", playlistDeviceIdx,
		"pa_frames_per_buffer", playlistPAFrames,
		"quality", playlistQuality,
		"file_count", len(files))

	mediaEnd := make(chan struct{}, 1)
	eng := engine.New(engine.Config{
		Quality: parseQuality(playlistQuality),
		Device: device.Config{
			DeviceIndex:     playlistDeviceIdx,
			Rate:            48000,
			FramesPerBuffer: playlistPAFrames,
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

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	interrupted := false

	for i, fileName := range files {
		if interrupted {
			break
		}

		slog.Info("Playing file", "index", i+1, "total", len(files), "file", fileName)

		if err := eng.Load(fileName); err != nil {
			slog.Error("Failed to open file", "file", fileName, "error", err)
			continue
		}

		if err := eng.Play(); err != nil {
			slog.Error("Failed to start playback", "file", fileName, "error", err)
			continue
		}

		statusDone := make(chan struct{})
		go monitorEngine(eng, statusDone)

		select {
		case <-mediaEnd:
			slog.Info("File completed", "file", fileName)
		case sig := <-sigChan:
			slog.Info("Signal received, stopping", "signal", sig)
			interrupted = true
			if err := eng.Clear(); err != nil {
				slog.Error("Failed to clear engine", "error", err)
			}
		}
		close(statusDone)
	}

	if interrupted {
		slog.Info("Playback interrupted")
	} else {
		slog.Info("All files completed", "total", len(files))
	}

	slog.Info("Exiting")
}
