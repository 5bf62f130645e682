package config

const (
	defaultRecordingsSubdir = "INPUT/raw_recordings"
	defaultScenesSubdir     = "OUTPUT/scenes"
	defaultVoiceoverSubdir  = "OUTPUT/voiceover"
	defaultOutputSubpath    = "OUTPUT/final_video/Final_Demo_Video.mp4"

	defaultStagingDir  = "~/.local/share/demobuilder/staging"
	defaultLogDir      = "~/.local/share/demobuilder/logs"
	defaultHistoryPath = "~/.local/share/demobuilder/history.db"

	defaultVideoWidth       = 1920
	defaultVideoHeight      = 1080
	defaultVideoPixelFormat = "yuv420p"
	defaultVideoCodec       = "libx264"
	defaultVideoPreset      = "medium"
	defaultVideoCRF         = 23
	defaultFallbackFPS      = 10

	defaultAudioCodec   = "aac"
	defaultAudioBitrate = "192k"

	defaultMinNarrationBytes = 100

	defaultCaptionFont       = "Montserrat Bold"
	defaultCaptionFontSize   = 48
	defaultWordsPerCue       = 8
	defaultSecondsPerCue     = 4.0
	defaultTranscribeTimeout = 300

	defaultNarrationGainDB = -6
	defaultMusicGainDB     = -20
	defaultFadeInSeconds   = 2.0
	defaultFadeOutSeconds  = 3.0

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults. Asset
// directories left empty are derived from the project root during normalize.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectRoot: ".",
			StagingDir:  defaultStagingDir,
			LogDir:      defaultLogDir,
		},
		Video: Video{
			Width:       defaultVideoWidth,
			Height:      defaultVideoHeight,
			PixelFormat: defaultVideoPixelFormat,
			Codec:       defaultVideoCodec,
			Preset:      defaultVideoPreset,
			CRF:         defaultVideoCRF,
			FallbackFPS: defaultFallbackFPS,
		},
		Audio: Audio{
			Codec:   defaultAudioCodec,
			Bitrate: defaultAudioBitrate,
		},
		Assets: Assets{
			MinNarrationBytes: defaultMinNarrationBytes,
		},
		Captions: Captions{
			Font:              defaultCaptionFont,
			FontSize:          defaultCaptionFontSize,
			WordsPerCue:       defaultWordsPerCue,
			SecondsPerCue:     defaultSecondsPerCue,
			Transcriber:       "whisper",
			TranscribeTimeout: defaultTranscribeTimeout,
		},
		Music: Music{
			NarrationGainDB: defaultNarrationGainDB,
			MusicGainDB:     defaultMusicGainDB,
			FadeInSeconds:   defaultFadeInSeconds,
			FadeOutSeconds:  defaultFadeOutSeconds,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Assembly:       true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
