package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/vaibhav1mahajan/portia-digest-bot/internal/analysis"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/config"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/digest"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/narrator"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/portia"
)

// windowFlags holds the shared time-window and analysis flags.
type windowFlags struct {
	today     bool
	yesterday bool
	since     string
	until     string
	withTools bool
	topN      int
}

func registerWindowFlags(fs *flag.FlagSet, cfg config.Config) *windowFlags {
	wf := &windowFlags{}
	fs.BoolVar(&wf.today, "today", false, "analyze today's window")
	fs.BoolVar(&wf.yesterday, "yesterday", false, "analyze yesterday's window")
	fs.StringVar(&wf.since, "since", "", "window start (RFC 3339)")
	fs.StringVar(&wf.until, "until", "", "window end (RFC 3339)")
	fs.BoolVar(&wf.withTools, "with-tools", cfg.WithTools, "include tool usage analysis")
	fs.IntVar(&wf.topN, "top", cfg.TopN, "ranked list size")
	return wf
}

// resolve builds the window from the parsed flags. Presets win over
// explicit bounds; passing both is rejected.
func (wf *windowFlags) resolve(now time.Time) (analysis.Window, error) {
	preset := ""
	switch {
	case wf.today && wf.yesterday:
		return analysis.Window{}, fmt.Errorf(
			"%w: -today and -yesterday are mutually exclusive",
			analysis.ErrInvalidWindow,
		)
	case wf.today:
		preset = analysis.PresetToday
	case wf.yesterday:
		preset = analysis.PresetYesterday
	}
	if preset != "" && (wf.since != "" || wf.until != "") {
		return analysis.Window{}, fmt.Errorf(
			"%w: presets cannot be combined with -since/-until",
			analysis.ErrInvalidWindow,
		)
	}
	return analysis.ResolveWindow(preset, wf.since, wf.until, now)
}

func (wf *windowFlags) options() analysis.Options {
	return analysis.Options{IncludeTools: wf.withTools, TopN: wf.topN}
}

// fetchAndAnalyze runs the window resolution, record fetch, and
// analysis shared by every report-producing command.
func fetchAndAnalyze(
	ctx context.Context,
	client *portia.Client,
	cfg config.Config,
	wf *windowFlags,
) (analysis.Report, error) {
	w, err := wf.resolve(time.Now())
	if err != nil {
		return analysis.Report{}, err
	}

	records, err := client.ListPlanRuns(ctx, portia.RunFilter{
		Window: w,
		Limit:  cfg.FetchLimit,
	})
	if err != nil {
		return analysis.Report{}, fmt.Errorf("fetching plan runs: %w", err)
	}

	return analysis.AnalyzeRecords(records, w, wf.options()), nil
}

func runAnalyze(args []string) {
	cfg := mustLoadConfig()
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	wf := registerWindowFlags(fs, cfg)
	jsonOut := fs.Bool("json", false, "emit the report as pretty JSON")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	client := mustClient(cfg)
	report, err := fetchAndAnalyze(context.Background(), client, cfg, wf)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	if *jsonOut {
		out, err := digest.RenderJSON(report)
		if err != nil {
			log.Fatalf("rendering report: %v", err)
		}
		fmt.Println(string(out))
		return
	}
	fmt.Print(digest.RenderText(report))
}

func runSummarize(args []string) {
	cfg := mustLoadConfig()
	fs := flag.NewFlagSet("summarize", flag.ExitOnError)
	wf := registerWindowFlags(fs, cfg)
	jsonOnly := fs.Bool("json-only", false, "emit raw report JSON, skip narration")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	client := mustClient(cfg)
	ctx := context.Background()
	report, err := fetchAndAnalyze(ctx, client, cfg, wf)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	if *jsonOnly {
		out, err := digest.RenderJSON(report)
		if err != nil {
			log.Fatalf("rendering report: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	text, err := narrator.New(client).Narrate(ctx, report, narrator.StyleText)
	if err != nil {
		log.Fatalf("summarization failed: %v", err)
	}
	fmt.Println(text)
}

func runPreviewMail(args []string) {
	cfg := mustLoadConfig()
	fs := flag.NewFlagSet("preview-mail", flag.ExitOnError)
	wf := registerWindowFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}
	// Mail previews default to yesterday's digest, the window the
	// scheduled job sends.
	if !wf.today && wf.since == "" && wf.until == "" {
		wf.yesterday = true
	}

	client := mustClient(cfg)
	ctx := context.Background()
	report, err := fetchAndAnalyze(ctx, client, cfg, wf)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	narration, err := narrator.New(client).Narrate(ctx, report, narrator.StyleEmail)
	if err != nil {
		log.Printf("warning: narration unavailable: %v", err)
		narration = ""
	}

	fmt.Printf("Subject: %s\n\n", digest.Subject(report.Window))
	fmt.Print(digest.EmailBody(report, narration, time.Now()))
}
