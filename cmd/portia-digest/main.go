package main

import (
	"fmt"
	"log"
	"os"

	"github.com/vaibhav1mahajan/portia-digest-bot/internal/config"
	"github.com/vaibhav1mahajan/portia-digest-bot/internal/portia"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "analyze":
			runAnalyze(os.Args[2:])
			return
		case "summarize":
			runSummarize(os.Args[2:])
			return
		case "preview-mail":
			runPreviewMail(os.Args[2:])
			return
		case "send":
			runSend(os.Args[2:])
			return
		case "schedule":
			runSchedule(os.Args[2:])
			return
		case "history":
			runHistory(os.Args[2:])
			return
		case "version", "--version", "-v":
			fmt.Printf("portia-digest %s (commit %s, built %s)\n",
				version, commit, buildDate)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	printUsage()
	os.Exit(2)
}

func printUsage() {
	fmt.Printf(`portia-digest %s - analyze Portia plan runs and email daily digests

Fetches plan-run records from the Portia Cloud API, computes a
statistical report, narrates it with the platform LLM, and delivers
the digest by email.

Usage:
  portia-digest analyze [flags]       Print the statistical report
  portia-digest summarize [flags]     Print the LLM narration
  portia-digest preview-mail [flags]  Print the email without sending
  portia-digest send [flags]          Generate and email one digest
  portia-digest schedule [flags]      Run digests on a cron schedule
  portia-digest history [flags]       List previously sent digests
  portia-digest version               Show version information
  portia-digest help                  Show this help

Window flags (analyze, summarize, preview-mail, send):
  -today              Analyze today's window (midnight UTC to now)
  -yesterday          Analyze yesterday's full UTC day
  -since string       Window start (RFC 3339), requires -until
  -until string       Window end (RFC 3339), requires -since
                      Default window: the trailing 24 hours

Analysis flags:
  -with-tools         Include tool usage analysis
  -top int            Ranked list size (default 5)

Other flags:
  -json               analyze: emit the report as pretty JSON
  -json-only          summarize: emit raw report JSON, skip narration
  -to string          send/schedule: recipient address
  -cron string        schedule: cron expression (default from config)
  -limit int          history: rows to show (default 20)

Environment variables:
  PORTIA_API_KEY            API key (required)
  PORTIA_ORG_ID             Organization id (required)
  PORTIA_BASE_URL           API base URL override
  PORTIA_DIGEST_DATA_DIR    Data directory (database, config.yaml)

Data is stored in ~/.portia-digest/ by default.
`, version)
}

func mustLoadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	return cfg
}

func mustClient(cfg config.Config) *portia.Client {
	if err := cfg.RequireCredentials(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	client, err := portia.New(cfg.BaseURL, cfg.APIKey, cfg.OrgID)
	if err != nil {
		log.Fatalf("creating client: %v", err)
	}
	return client
}
