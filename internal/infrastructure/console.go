package infrastructure

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/yourusername/yt-transfer/internal/domain"
)

// plainProgressStep is the percentage step between progress lines when the
// output is not a terminal
const plainProgressStep = 10

// ConsoleReporter prints transfer status for a human. On a terminal it
// draws a progress bar; otherwise it writes one line per progress step.
type ConsoleReporter struct {
	out         io.Writer
	audioFormat string
	interactive bool

	heading *color.Color
	label   *color.Color
	success *color.Color

	mu          sync.Mutex
	bar         *progressbar.ProgressBar
	lastPercent int
}

// NewConsoleReporter creates a reporter writing to out
func NewConsoleReporter(out io.Writer, audioFormat string) *ConsoleReporter {
	if audioFormat == "" {
		audioFormat = domain.DefaultAudioFormat
	}
	r := &ConsoleReporter{
		out:         out,
		audioFormat: audioFormat,
		interactive: IsTerminal(out),
		heading:     color.New(color.FgCyan, color.Bold),
		label:       color.New(color.Bold),
		success:     color.New(color.FgGreen, color.Bold),
		lastPercent: -1,
	}
	if !r.interactive {
		for _, c := range []*color.Color{r.heading, r.label, r.success} {
			c.DisableColor()
		}
	}
	return r
}

// Banner prints a title with an underline
func (r *ConsoleReporter) Banner(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, r.heading.Sprint(title))
	fmt.Fprintln(r.out, strings.Repeat("=", len([]rune(title))))
}

// FetchingInfo implements app.Reporter
func (r *ConsoleReporter) FetchingInfo(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, "Fetching video info...")
}

// VideoInfo implements app.Reporter
func (r *ConsoleReporter) VideoInfo(meta *domain.VideoMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s %s\n", r.label.Sprint("Title:"), meta.Title)
	fmt.Fprintf(r.out, "%s %s\n", r.label.Sprint("Uploader:"), meta.Uploader)
	fmt.Fprintf(r.out, "%s %s\n", r.label.Sprint("Duration:"), meta.FormattedDuration())
}

// DownloadStarting implements app.Reporter
func (r *ConsoleReporter) DownloadStarting(kind domain.MediaKind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastPercent = -1
	if kind == domain.MediaAudio {
		fmt.Fprintln(r.out, "Starting download and conversion...")
		return
	}
	fmt.Fprintln(r.out, "Starting download...")
}

// Progress implements app.Reporter
func (r *ConsoleReporter) Progress(kind domain.MediaKind, event domain.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Status {
	case domain.ProgressDownloading:
		if !event.HasTotal() {
			return
		}
		if r.interactive {
			r.drawBar(event)
			return
		}
		r.printStep(event)
	case domain.ProgressFinished:
		r.finishBar()
		r.lastPercent = -1
		if kind == domain.MediaAudio {
			fmt.Fprintf(r.out, "Converting to %s...\n", strings.ToUpper(r.audioFormat))
			return
		}
		fmt.Fprintln(r.out, "Download finished, finalizing...")
	}
}

// DownloadFinished implements app.Reporter
func (r *ConsoleReporter) DownloadFinished(kind domain.MediaKind, outputDir string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finishBar()
	fmt.Fprintf(r.out, "%s Files saved to: %s\n", r.success.Sprint("Done!"), outputDir)
}

func (r *ConsoleReporter) drawBar(event domain.ProgressEvent) {
	if r.bar == nil {
		r.bar = progressbar.NewOptions64(event.TotalBytes,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription("Downloading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
	} else if r.bar.GetMax64() != event.TotalBytes {
		r.bar.ChangeMax64(event.TotalBytes)
	}
	_ = r.bar.Set64(event.DownloadedBytes)
}

func (r *ConsoleReporter) printStep(event domain.ProgressEvent) {
	percent := int(event.Percent())
	step := percent - percent%plainProgressStep
	if step <= r.lastPercent {
		return
	}
	r.lastPercent = step
	fmt.Fprintf(r.out, "Downloading: %3d%% (%s / %s)\n",
		percent,
		humanize.Bytes(uint64(event.DownloadedBytes)),
		humanize.Bytes(uint64(event.TotalBytes)))
}

func (r *ConsoleReporter) finishBar() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
}

// PrintError writes "Error: <err>" to w, in red when w is a terminal
func PrintError(w io.Writer, err error) {
	prefix := color.New(color.FgRed, color.Bold)
	if IsTerminal(w) {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}
	fmt.Fprintf(w, "%s %v\n", prefix.Sprint("Error:"), err)
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
