package preview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/parallaxus/internal/system"
)

// WriteFrames renders every frame to dir/frame_NNNNN.png using at most
// opts.Workers goroutines.
func WriteFrames(ctx context.Context, dir string, frames []Frame, opts Options) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create preview dir: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	pool := system.NewImagePool()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, f := range frames {
		if gctx.Err() != nil {
			break
		}
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img := Render(f, pool, opts)
			defer pool.Put(img)

			path := filepath.Join(dir, fmt.Sprintf("frame_%05d.png", f.Index))
			return writePNG(path, img)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// EncodeVideo pipes every rendered frame to ffmpeg as raw RGBA
func EncodeVideo(ctx context.Context, frames []Frame, videoPath string, fps int, encoderName string, quality int, opts Options) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}

	pool := system.NewImagePool()
	first := Render(frames[0], pool, opts)
	size := first.Bounds().Size()

	args := buildFFmpegArgs(size.X, size.Y, videoPath, fps, encoderName, quality)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	writeErr := writeRawRGBA(stdin, first, size)
	pool.Put(first)
	for _, f := range frames[1:] {
		if writeErr != nil {
			break
		}
		img := Render(f, pool, opts)
		writeErr = writeRawRGBA(stdin, img, size)
		pool.Put(img)
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, out.String())
	}
	if writeErr != nil {
		return fmt.Errorf("write raw error: %w", writeErr)
	}
	return nil
}

func buildFFmpegArgs(inputW, inputH int, videoPath string, fps int, encoderName string, quality int) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", inputW, inputH),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	}

	switch encoderName {
	case "h264_videotoolbox":
		bitrate := quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", quality), "-preset", "medium")
	}

	args = append(args, videoPath)
	return args
}

// writeRawRGBA writes img as tightly packed RGBA rows of the given size.
// Frames of another size (after a resize event) are scaled to fit.
func writeRawRGBA(w io.Writer, img *image.RGBA, size image.Point) error {
	bounds := img.Bounds()
	if bounds.Size() != size || img.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		fitted := image.NewRGBA(image.Rectangle{Max: size})
		draw.ApproxBiLinear.Scale(fitted, fitted.Bounds(), img, bounds, draw.Src, nil)
		img = fitted
	}
	_, err := w.Write(img.Pix)
	return err
}
