package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaibhav1mahajan/portia-digest-bot/internal/config"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/digest"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/mailer"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/narrator"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/portia"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/scheduler"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/store"
)

// sendDigest runs the full pipeline once: fetch, analyze, narrate,
// email, and record the outcome in the history store.
func sendDigest(
	ctx context.Context,
	client *portia.Client,
	st *store.Store,
	cfg config.Config,
	wf *windowFlags,
	recipient string,
) error {
	if recipient == "" {
		return fmt.Errorf("no recipient: set -to or recipient in config.yaml")
	}

	report, err := fetchAndAnalyze(ctx, client, cfg, wf)
	if err != nil {
		return err
	}

	narration, err := narrator.New(client).Narrate(ctx, report, narrator.StyleEmail)
	if err != nil {
		// A digest with raw numbers still beats no digest.
		log.Printf("warning: narration unavailable: %v", err)
		narration = ""
	}

	subject := digest.Subject(report.Window)
	body := digest.EmailBody(report, narration, time.Now())

	sendErr := mailer.New(client).Send(ctx, recipient, subject, body)

	if _, recErr := st.Record(ctx, store.Digest{
		WindowStart: report.Window.Start,
		WindowEnd:   report.Window.End,
		TotalRuns:   report.TotalRuns,
		SuccessRate: report.SuccessRate,
		Narration:   narration,
		Recipient:   recipient,
		Sent:        sendErr == nil,
	}); recErr != nil {
		log.Printf("warning: recording digest history: %v", recErr)
	}

	if sendErr != nil {
		return sendErr
	}
	log.Printf("digest sent to %s (%d runs)", recipient, report.TotalRuns)
	return nil
}

func runSend(args []string) {
	cfg := mustLoadConfig()
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	wf := registerWindowFlags(fs, cfg)
	to := fs.String("to", cfg.Recipient, "recipient address")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}
	if !wf.today && wf.since == "" && wf.until == "" {
		wf.yesterday = true
	}

	client := mustClient(cfg)
	st := mustOpenStore(cfg)
	defer st.Close()

	if err := sendDigest(
		context.Background(), client, st, cfg, wf, *to,
	); err != nil {
		log.Fatalf("sending digest: %v", err)
	}
}

func runSchedule(args []string) {
	cfg := mustLoadConfig()
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	wf := registerWindowFlags(fs, cfg)
	to := fs.String("to", cfg.Recipient, "recipient address")
	cronExpr := fs.String("cron", cfg.Schedule, "cron expression")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}
	// Scheduled digests always cover the preceding full UTC day.
	if !wf.today && wf.since == "" && wf.until == "" {
		wf.yesterday = true
	}

	sched, err := scheduler.ParseSchedule(*cronExpr)
	if err != nil {
		log.Fatalf("invalid cron expression %q: %v", *cronExpr, err)
	}

	client := mustClient(cfg)
	st := mustOpenStore(cfg)
	defer st.Close()

	job := func(ctx context.Context) error {
		return sendDigest(ctx, client, st, cfg, wf, *to)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	s := scheduler.New(sched, job)
	log.Printf("scheduling digests (%s), next at %s",
		*cronExpr, s.Next(time.Now()).UTC().Format(time.RFC3339))
	if err := s.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("scheduler stopped: %v", err)
	}
}

func mustOpenStore(cfg config.Config) *store.Store {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening digest history: %v", err)
	}
	return st
}
