package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Config describes the recording.
type Config struct {
	Width      int
	Height     int
	FPS        int
	OutputFile string
	// Codec is "h264" (default) or "hevc".
	Codec string
	// FFmpegPath overrides the ffmpeg executable looked up in PATH.
	FFmpegPath string
	// HardwareAccel selects the platform's hardware encoder instead of libx264/libx265.
	HardwareAccel bool
	// ErrorOutput receives ffmpeg's own log. Defaults to os.Stderr.
	ErrorOutput io.Writer
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", c.FPS)
	}
	if c.OutputFile == "" {
		return errors.New("no output file")
	}
	switch c.Codec {
	case "", "h264", "hevc":
	default:
		return fmt.Errorf("unsupported codec %q", c.Codec)
	}
	return nil
}

// FrameSize is the byte length of one RGBA8 frame.
func (c Config) FrameSize() int {
	return c.Width * c.Height * 4
}

// Encoder feeds raw RGBA frames to an ffmpeg process through a pipe.
type Encoder struct {
	cfg    Config
	pipe   *io.PipeWriter
	errc   chan error
	frames int
	closed bool
}

// getArgs builds the ffmpeg input and output arguments. Frames arrive bottom-up
// as GL reads them, so the output is flipped.
func getArgs(cfg Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"framerate": cfg.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"c:v":     videoCodec(cfg.Codec, cfg.HardwareAccel, runtime.GOOS),
	}
	if cfg.Codec == "hevc" && strings.HasSuffix(cfg.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

func videoCodec(codec string, hardware bool, goos string) string {
	hevc := codec == "hevc"
	if hardware {
		switch goos {
		case "linux", "windows":
			if hevc {
				return "hevc_nvenc"
			}
			return "h264_nvenc"
		case "darwin":
			if hevc {
				return "hevc_videotoolbox"
			}
			return "h264_videotoolbox"
		}
	}
	if hevc {
		return "libx265"
	}
	return "libx264"
}

func command(cfg Config, input io.Reader) *ffmpeg.Stream {
	inputArgs, outputArgs := getArgs(cfg)
	errOut := cfg.ErrorOutput
	if errOut == nil {
		errOut = os.Stderr
	}
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.OutputFile, outputArgs).
		OverWriteOutput().
		WithInput(input).
		WithErrorOutput(errOut)
	if cfg.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(cfg.FFmpegPath)
	}
	return cmd
}

// New starts ffmpeg. Frames are written with WriteFrame; Close finishes the file.
func New(cfg Config) (*Encoder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pipeReader, pipeWriter := io.Pipe()
	cmd := command(cfg, pipeReader)

	e := &Encoder{
		cfg:  cfg,
		pipe: pipeWriter,
		errc: make(chan error, 1),
	}
	go func() {
		err := cmd.Run()
		// Unblock WriteFrame if ffmpeg went away early.
		if err != nil {
			pipeReader.CloseWithError(fmt.Errorf("ffmpeg exited: %w", err))
		} else {
			pipeReader.CloseWithError(io.ErrClosedPipe)
		}
		e.errc <- err
	}()

	log.Printf("Recording %dx%d@%d to %s", cfg.Width, cfg.Height, cfg.FPS, cfg.OutputFile)
	return e, nil
}

// WriteFrame sends one RGBA8 frame of exactly FrameSize bytes.
func (e *Encoder) WriteFrame(pixels []byte) error {
	if e.closed {
		return errors.New("encoder is closed")
	}
	if len(pixels) != e.cfg.FrameSize() {
		return fmt.Errorf("frame is %d bytes, want %d", len(pixels), e.cfg.FrameSize())
	}
	if _, err := e.pipe.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame %d to ffmpeg: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Frames is the number of frames written.
func (e *Encoder) Frames() int { return e.frames }

// Close ends the stream and waits for ffmpeg to finish writing the file.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.pipe.Close()
	if err := <-e.errc; err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	log.Printf("Wrote %d frames to %s", e.frames, e.cfg.OutputFile)
	return nil
}
