// Command cimbar-decode recovers a file from an encoded CimBar sequence
// read from disk: either an animated GIF holding one frame per barcode
// page, or a directory of still frame images (PNG/JPEG), named so that
// lexical order is scan order.
//
// Usage:
//
//	cimbar-decode [options] <input.gif | input-dir>
package main

import (
	"flag"
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/filepayload"
	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/livescanner"
	"github.com/cocosip/cimbar-decode/locator"
	"github.com/cocosip/cimbar-decode/pipeline"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cimbar-decode: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("cimbar-decode", flag.ContinueOnError)
	passphrase := fs.String("pass", "", "decryption passphrase")
	output := fs.String("o", "", "output path (default: the recovered filename in the current directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("missing input: <input.gif | input-dir>\nUsage: cimbar-decode [options] <input.gif | input-dir>")
	}
	input := fs.Arg(0)

	frames, err := loadFrames(input)
	if err != nil {
		return fmt.Errorf("loading frames: %w", err)
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames found in %s", input)
	}

	result, err := scanFrames(frames)
	if err != nil {
		return fmt.Errorf("scanning frames: %w", err)
	}

	decoded, err := filepayload.Decode(result.Bytes, *passphrase)
	if err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}

	out := *output
	if out == "" {
		out = decoded.Filename
		if out == "" {
			out = "cimbar-decoded.bin"
		}
	}
	if err := os.WriteFile(out, decoded.FileData, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", out, len(decoded.FileData))
	return nil
}

// loadFrames reads input as either a GIF file or a directory of still
// frame images, in either case returning one RGBImage per page in scan
// order.
func loadFrames(input string) ([]*imaging.RGBImage, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return loadFrameDir(input)
	}
	return loadGIF(input)
}

func loadGIF(path string) ([]*imaging.RGBImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return imaging.DecodeFramesBytes(imaging.StdGifDecoder{}, data)
}

func loadFrameDir(dir string) ([]*imaging.RGBImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	frames := make([]*imaging.RGBImage, 0, len(names))
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		frames = append(frames, imaging.FromStdImage(img))
	}
	return frames, nil
}

// scanFrames runs every frame through FrameLocator and FramePipeline, feeds
// each successfully decoded frame into a LiveScanner session, and returns
// the assembled byte stream once the chain is complete.
func scanFrames(frames []*imaging.RGBImage) (*livescanner.ScanResult, error) {
	cfg := cimbar.NewSourceTuningConfig()
	scanner := livescanner.New()

	var lastErr error
	for i, frame := range frames {
		loc, err := locator.Locate(frame)
		if err != nil {
			lastErr = err
			continue
		}
		decoded, err := pipeline.Decode(frame, loc, cfg, 0)
		if err != nil {
			lastErr = err
			continue
		}
		progress := scanner.ProcessDecodedData(decoded.Bytes, decoded.FrameSize)
		fmt.Fprintf(os.Stderr, "frame %d: %d/%d frames, frame0 known=%v\n", i, progress.FramesSeen, progress.TotalFrames, progress.HaveFrame0)
		if progress.Complete {
			break
		}
	}

	result, err := scanner.Assemble()
	if err != nil {
		if lastErr != nil {
			return nil, fmt.Errorf("%w (last frame error: %v)", err, lastErr)
		}
		return nil, err
	}
	return result, nil
}
