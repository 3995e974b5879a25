package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bookcap/src/activate"
	"bookcap/src/assembler"
	"bookcap/src/capture"
	"bookcap/src/config"
	"bookcap/src/input"
	"bookcap/src/keepawake"
	"bookcap/src/logutil"
	"bookcap/src/pagestore"
	"bookcap/src/recorder"
	"bookcap/src/screenshot"
	"bookcap/src/trigger"
	"bookcap/src/worker"
)

func main() {
	// Before touching any screen metrics.
	enableDPIAwareness()

	cfg, err := config.Load()
	if err != nil {
		fatalf("Failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	in := bufio.NewReader(os.Stdin)
	opts := promptOptions(in, os.Stdout, cfg)

	kb := trigger.NewKeyboard()
	rec := recorder.New(kb)

	sess := capture.Session{StartedAt: time.Now(), Options: opts}

	if !opts.UseKeyboard {
		fmt.Printf("Hover the pointer over the next-page control and press %s.\n", strings.ToUpper(cfg.NextTrigger))
		pt, err := rec.RecordPoint(ctx, cfg.NextTrigger)
		if err != nil {
			fatalf("Recording advance point: %v", err)
		}
		sess.AdvancePoint = pt
		sess.FrontApp = activate.FrontAppName()
		fmt.Printf("Advance point: (%d, %d)", pt.X, pt.Y)
		if sess.FrontApp != "" {
			fmt.Printf(" in %s", sess.FrontApp)
		}
		fmt.Println()
	}

	fmt.Printf("Press %s at the TOP-RIGHT of the page area, then %s at the BOTTOM-LEFT.\n",
		strings.ToUpper(cfg.TopRightTrigger), strings.ToUpper(cfg.BottomLeftTrigger))
	region, err := rec.RecordRegion(ctx, cfg.TopRightTrigger, cfg.BottomLeftTrigger)
	if err != nil {
		fatalf("Recording capture region: %v", err)
	}
	sess.Region = region
	fmt.Printf("Capture region: %dx%d at (%d, %d)\n", region.Width, region.Height, region.X, region.Y)

	store, err := pagestore.Open(cfg.RawRoot, sess.StartedAt)
	if err != nil {
		fatalf("Creating session directory: %v", err)
	}
	fmt.Printf("Saving frames to %s\n", store.Dir())

	res := runSession(ctx, sess, capture.Deps{
		Capture:   screenshot.CaptureRegion,
		Store:     store,
		Input:     input.NewRobot(),
		KeepAwake: keepawake.New(),
		Pulser:    keepawake.NewPulser(),
		Activate:  activate.App,
		Notify:    capture.NotifierFunc(notifyStdout),
	})

	reportResult(os.Stdout, res)
	if res.Pages == 0 {
		os.Exit(1)
	}

	if err := finishPDF(os.Stdout, cfg, res.Dir, sess.StartedAt); err != nil {
		fatalf("%v", err)
	}
}

// fatalf reports a fatal error on stderr and exits. The file logger may be
// discarded by configuration, so operator-facing errors never go through it.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func reportResult(out io.Writer, res capture.Result) {
	fmt.Fprintf(out, "Capture finished: %s, %d pages\n", res.Reason, res.Pages)
	if res.Err != nil {
		fmt.Fprintf(out, "Capture error: %v\n", res.Err)
	}
}

// runSession puts the run through the worker so interactive use and any
// future re-arming share the same single-session queue.
func runSession(ctx context.Context, sess capture.Session, deps capture.Deps) capture.Result {
	runner := worker.New()
	defer runner.Close()

	done := make(chan capture.Result, 1)
	if !runner.Submit(ctx, sess, deps, func(res capture.Result) { done <- res }) {
		return capture.Result{Reason: capture.StopError, Err: fmt.Errorf("capture worker busy")}
	}
	return <-done
}

func finishPDF(w io.Writer, cfg *config.Config, dir string, startedAt time.Time) error {
	out, entries, err := assembler.Assemble(dir, assembler.Options{Pattern: cfg.Pattern})
	if err != nil {
		return fmt.Errorf("assembling PDF: %w", err)
	}
	fmt.Fprintf(w, "Assembled %s (%d pages)\n", out, len(entries))

	dest, err := assembler.CopyTimestamped(out, cfg.PDFRoot, startedAt)
	if err != nil {
		return fmt.Errorf("copying PDF to %s: %w", cfg.PDFRoot, err)
	}
	fmt.Fprintf(w, "Copied to %s\n", dest)
	return nil
}

func notifyStdout(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

// promptOptions walks the operator through the run parameters, falling back
// to defaults on empty or unparseable input.
func promptOptions(in *bufio.Reader, out io.Writer, cfg *config.Config) capture.Options {
	pages := promptInt(in, out, "Number of pages (0 = until a page repeats)", 1)
	delay := promptFloat(in, out, "Delay after each page turn in seconds", cfg.DelaySec)
	useKeyboard := promptYesNo(in, out, "Advance with the keyboard instead of clicking?", false)

	doubleClick := false
	if !useKeyboard {
		doubleClick = promptYesNo(in, out, "Double-click to advance?", false)
	}

	return capture.Options{
		Delay:         time.Duration(delay * float64(time.Second)),
		DoubleClick:   doubleClick,
		UseKeyboard:   useKeyboard,
		AdvanceKey:    cfg.AdvanceKey,
		FixedPages:    pages,
		DuplicateStop: true,
		FocusEvery:    cfg.FocusEvery,
	}
}

func promptLine(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprintf(out, "%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func promptInt(in *bufio.Reader, out io.Writer, label string, def int) int {
	s := promptLine(in, out, fmt.Sprintf("%s [%d]", label, def))
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		fmt.Fprintf(out, "Using default %d\n", def)
		return def
	}
	return v
}

func promptFloat(in *bufio.Reader, out io.Writer, label string, def float64) float64 {
	s := promptLine(in, out, fmt.Sprintf("%s [%.1f]", label, def))
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		fmt.Fprintf(out, "Using default %.1f\n", def)
		return def
	}
	return v
}

func promptYesNo(in *bufio.Reader, out io.Writer, label string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	s := strings.ToLower(promptLine(in, out, fmt.Sprintf("%s [%s]", label, hint)))
	switch s {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return def
}
