// Command cimbar-scan is a terminal UI that replays a directory of frame
// images (or a GIF) through FrameLocator, FramePipeline, and LiveScanner,
// rendering scan progress live: frames seen, chain length, whether frame
// zero has been found, and the eventual outcome. It exists as a visual
// counterpart to cimbar-decode, for watching a scan session unfold frame
// by frame rather than waiting for a final result.
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
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/filepayload"
	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/livescanner"
	"github.com/cocosip/cimbar-decode/locator"
	"github.com/cocosip/cimbar-decode/pipeline"
)

// frameInterval paces automatic advancement so the progress display is
// actually readable; space or 'n' advances immediately regardless.
const frameInterval = 400 * time.Millisecond

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cimbar-scan: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("cimbar-scan", flag.ContinueOnError)
	passphrase := fs.String("pass", "", "decryption passphrase, used once the chain completes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("missing input: <input.gif | input-dir>\nUsage: cimbar-scan [options] <input.gif | input-dir>")
	}

	frames, err := loadFrames(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading frames: %w", err)
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames found in %s", fs.Arg(0))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	defer screen.Fini()

	ui := newScanUI(screen, frames, *passphrase)
	return ui.run()
}

type logLine struct {
	text  string
	style tcell.Style
}

// scanUI drives LiveScanner across frames one at a time, rendering its
// ScanProgress after each step. It holds no state LiveScanner doesn't
// already track; everything here is presentation.
type scanUI struct {
	screen     tcell.Screen
	frames     []*imaging.RGBImage
	passphrase string

	cfg     *cimbar.TuningConfig
	scanner *livescanner.ScanState

	index    int
	progress livescanner.ScanProgress
	log      []logLine
	done     bool
	result   *filepayload.DecodeResult
	failure  error
}

func newScanUI(screen tcell.Screen, frames []*imaging.RGBImage, passphrase string) *scanUI {
	return &scanUI{
		screen:     screen,
		frames:     frames,
		passphrase: passphrase,
		cfg:        cimbar.NewSourceTuningConfig(),
		scanner:    livescanner.New(),
	}
}

func (u *scanUI) run() error {
	u.render()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event)
	go func() {
		for {
			events <- u.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				u.screen.Sync()
				u.render()
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
					return nil
				case ev.Key() == tcell.KeyRune && (ev.Rune() == ' ' || ev.Rune() == 'n'):
					u.step()
					u.render()
				case ev.Key() == tcell.KeyCtrlR:
					u.reset()
					u.render()
				case ev.Rune() == 'c':
					u.copyResultFilename()
					u.render()
				}
			}
		case <-ticker.C:
			if !u.done {
				u.step()
				u.render()
			}
		}
	}
}

// step advances the scan by exactly one frame, mirroring the frame-at-a-
// time structure of the background worker model: locate, decode, feed to
// LiveScanner, and note the resulting progress.
func (u *scanUI) step() {
	if u.done || u.index >= len(u.frames) {
		u.done = true
		return
	}
	frame := u.frames[u.index]
	u.index++

	loc, err := locator.Locate(frame)
	if err != nil {
		u.appendLog(fmt.Sprintf("frame %d: no barcode found (%v)", u.index-1, err), tcell.ColorYellow)
		return
	}
	decoded, err := pipeline.Decode(frame, loc, u.cfg, 0)
	if err != nil {
		u.appendLog(fmt.Sprintf("frame %d: undecodable (%v)", u.index-1, err), tcell.ColorYellow)
		return
	}

	u.progress = u.scanner.ProcessDecodedData(decoded.Bytes, decoded.FrameSize)
	u.appendLog(fmt.Sprintf("frame %d: ok, %d/%d seen", u.index-1, u.progress.FramesSeen, u.progress.TotalFrames), tcell.ColorGreen)

	if u.progress.Complete {
		u.finish()
	}
}

func (u *scanUI) finish() {
	u.done = true
	assembled, err := u.scanner.Assemble()
	if err != nil {
		u.failure = err
		u.appendLog(fmt.Sprintf("assembly failed: %v", err), tcell.ColorRed)
		return
	}
	decoded, err := filepayload.Decode(assembled.Bytes, u.passphrase)
	if err != nil {
		u.failure = err
		u.appendLog(fmt.Sprintf("decryption failed: %v", err), tcell.ColorRed)
		return
	}
	u.result = decoded
	u.appendLog(fmt.Sprintf("recovered %q (%d bytes)", decoded.Filename, len(decoded.FileData)), tcell.ColorGreen)
}

// copyResultFilename puts the recovered filename on the system clipboard,
// so a user watching the scan doesn't have to retype it to retrieve the
// file cimbar-decode would write alongside it.
func (u *scanUI) copyResultFilename() {
	if u.result == nil {
		return
	}
	if err := clipboard.WriteAll(u.result.Filename); err != nil {
		u.appendLog(fmt.Sprintf("clipboard copy failed: %v", err), tcell.ColorYellow)
		return
	}
	u.appendLog(fmt.Sprintf("copied %q to clipboard", u.result.Filename), tcell.ColorGreen)
}

func (u *scanUI) reset() {
	u.scanner.Reset()
	u.index = 0
	u.progress = livescanner.ScanProgress{}
	u.done = false
	u.result = nil
	u.failure = nil
	u.log = nil
}

const maxLogLines = 20

func (u *scanUI) appendLog(text string, color tcell.Color) {
	u.log = append(u.log, logLine{text: text, style: tcell.StyleDefault.Foreground(color)})
	if len(u.log) > maxLogLines {
		u.log = u.log[len(u.log)-maxLogLines:]
	}
}

func (u *scanUI) render() {
	u.screen.Clear()
	u.drawText(0, 0, tcell.StyleDefault.Bold(true), "cimbar-scan")
	u.drawText(0, 1, tcell.StyleDefault, fmt.Sprintf("frames replayed: %d/%d", u.index, len(u.frames)))
	u.drawText(0, 2, tcell.StyleDefault, fmt.Sprintf("chain: %d/%d seen  frame0 known=%v  complete=%v",
		u.progress.FramesSeen, u.progress.TotalFrames, u.progress.HaveFrame0, u.progress.Complete))

	switch {
	case u.result != nil:
		u.drawText(0, 3, tcell.StyleDefault.Foreground(tcell.ColorGreen), fmt.Sprintf("recovered: %s", u.result.Filename))
	case u.failure != nil:
		u.drawText(0, 3, tcell.StyleDefault.Foreground(tcell.ColorRed), fmt.Sprintf("failed: %v", u.failure))
	default:
		u.drawText(0, 3, tcell.StyleDefault, "space/n: advance one frame   ctrl-r: reset   c: copy filename   q: quit")
	}

	for i, line := range u.log {
		u.drawText(0, 5+i, line.style, line.text)
	}

	u.screen.Show()
}

func (u *scanUI) drawText(x, y int, style tcell.Style, text string) {
	col := x
	for _, ch := range text {
		u.screen.SetContent(col, y, ch, nil, style)
		col++
	}
}

func loadFrames(input string) ([]*imaging.RGBImage, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return loadFrameDir(input)
	}
	data, err := os.ReadFile(input)
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
