package reporter

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/animrender/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu         sync.Mutex
	progress   *progressbar.ProgressBar
	maxPercent float32
	lastStage  string
	cyan       *color.Color
	green      *color.Color
	yellow     *color.Color
	red        *color.Color
	magenta    *color.Color
	bold       *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

func (r *TerminalReporter) Hardware(summary HardwareSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("HARDWARE")
	r.printLabel(10, "Hostname:", summary.Hostname)
}

// printLabel prints a bold label with fixed width padding followed by a
// value. Width is applied to the plain text before styling so alignment
// survives the ANSI escapes.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) JobStarted(summary JobSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("JOB")
	r.printLabel(11, "Source:", summary.SourceURI)
	r.printLabel(11, "Kind:", summary.SourceKind)
	r.printLabel(11, "Container:", summary.Container)
	r.printLabel(11, "Duration:", summary.Duration)
	r.printLabel(11, "Resolution:", summary.Resolution)
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	r.mu.Lock()
	if r.lastStage != update.Stage {
		r.mu.Unlock()
		fmt.Println()
		_, _ = r.cyan.Println(strings.ToUpper(update.Stage))
		r.mu.Lock()
		r.lastStage = update.Stage
	}
	r.mu.Unlock()
	fmt.Printf("  %s %s\n", r.magenta.Sprint("›"), update.Message)
}

func (r *TerminalReporter) DecimationResult(summary DecimationSummary) {
	if summary.Disabled {
		fmt.Printf("  %s %s\n", r.bold.Sprint("Decimation:"), color.New(color.Faint).Sprint("disabled"))
		return
	}
	dropped := summary.FramesIn - summary.FramesOut
	fmt.Printf("  %s %d -> %d frames (%s dropped)\n",
		r.bold.Sprint("Decimation:"), summary.FramesIn, summary.FramesOut, r.green.Sprintf("%d", dropped))
}

func (r *TerminalReporter) RenderConfig(summary RenderConfigSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("RENDER CONFIG")
	const w = 12
	r.printLabel(w, "Pipeline:", summary.Pipeline)
	r.printLabel(w, "Container:", summary.Container)
	r.printLabel(w, "Codec:", summary.Codec)
	r.printLabel(w, "Pixel fmt:", summary.PixelFormat)
	r.printLabel(w, "Dimensions:", fmt.Sprintf("%dx%d", summary.Width, summary.Height))
	r.printLabel(w, "Frame rate:", fmt.Sprintf("%.2f fps", summary.FrameRate))
	r.printLabel(w, "Bitrate:", fmt.Sprintf("%d kbps", summary.BitrateKbps))
	r.printLabel(w, "Alpha:", fmt.Sprintf("%v", summary.Alpha))
}

func (r *TerminalReporter) ProcessingStarted(totalFrames uint64) {
	r.finishProgress()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Processing [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) ProcessingProgress(progress ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}

	clamped := progress.Percent
	if clamped > 100 {
		clamped = 100
	}
	if clamped < 0 {
		clamped = 0
	}

	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}

	desc := fmt.Sprintf("fps %.1f, eta %s", progress.FPS, util.FormatDuration(progress.ETA.Seconds()))
	r.progress.Describe(desc)
}

func (r *TerminalReporter) JobComplete(summary JobOutcome) {
	r.finishProgress()

	reduction := sizeReductionPercent(summary.InputSizeBytes, summary.OutputSizeBytes)

	fmt.Println()
	_, _ = r.cyan.Println("RESULT")
	if summary.FromCache {
		fmt.Printf("  %s\n", r.green.Sprint("served from cache"))
	}
	fmt.Printf("  %s %s\n", r.bold.Sprint("Job:"), summary.JobID)
	fmt.Printf("  %s %s -> %s\n",
		r.bold.Sprint("Size:"),
		util.FormatBytes(summary.InputSizeBytes),
		util.FormatBytes(summary.OutputSizeBytes))
	fmt.Printf("  %s %s\n", r.bold.Sprint("Reduction:"), r.bold.Sprintf("%.1f%%", reduction))
	fmt.Printf("  %s %s (avg frame %.1fms)\n",
		r.bold.Sprint("Time:"),
		util.FormatDuration(summary.TotalTime.Seconds()),
		summary.AverageFrameProcessingMs)
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	fmt.Println()
	fmt.Printf("%s %s\n", r.green.Add(color.Bold).Sprint("✓"), r.bold.Sprint(message))
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH")
	fmt.Printf("  Rendering %d jobs\n", info.TotalJobs)
	for i, id := range info.JobIDs {
		fmt.Printf("  %d. %s\n", i+1, id)
	}
}

func (r *TerminalReporter) JobProgress(context JobProgressContext) {
	fmt.Printf("\nJob %s of %d\n",
		r.bold.Sprint(context.CurrentJob),
		context.TotalJobs)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	reduction := sizeReductionPercent(summary.TotalInputBytes, summary.TotalOutputBytes)

	fmt.Println()
	_, _ = r.cyan.Println("BATCH SUMMARY")
	fmt.Printf("  %s\n", r.bold.Sprintf("%d of %d succeeded", summary.SuccessfulCount, summary.TotalJobs))
	fmt.Printf("  Cache hits: %s\n", r.green.Sprintf("%d", summary.FromCacheCount))
	fmt.Printf("  Size: %s -> %s (%.1f%% reduction)\n",
		util.FormatBytes(summary.TotalInputBytes), util.FormatBytes(summary.TotalOutputBytes), reduction)
	fmt.Printf("  Time: %s\n", util.FormatDuration(summary.TotalDuration.Seconds()))

	for _, result := range summary.JobResults {
		fmt.Printf("  - %s (%.1f%% reduction)\n", result.JobID, result.Reduction)
	}
}

func (r *TerminalReporter) Verbose(message string) {
	fmt.Printf("  %s\n", color.New(color.Faint).Sprint(message))
}

func sizeReductionPercent(in, out uint64) float64 {
	if in == 0 {
		return 0
	}
	return (1 - float64(out)/float64(in)) * 100
}
