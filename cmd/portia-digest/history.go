package main

import (
	"context"
	"flag"
	"fmt"
	"log"
)

func runHistory(args []string) {
	cfg := mustLoadConfig()
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "rows to show")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	st := mustOpenStore(cfg)
	defer st.Close()

	digests, err := st.List(context.Background(), *limit)
	if err != nil {
		log.Fatalf("listing history: %v", err)
	}
	if len(digests) == 0 {
		fmt.Println("No digests recorded yet.")
		return
	}

	fmt.Printf("%-27s %-12s %6s %8s %6s %s\n",
		"ID", "WINDOW", "RUNS", "SUCCESS", "SENT", "RECIPIENT")
	for _, d := range digests {
		sent := "no"
		if d.Sent {
			sent = "yes"
		}
		fmt.Printf("%-27s %-12s %6d %7.1f%% %6s %s\n",
			d.ID,
			d.WindowStart.UTC().Format("2006-01-02"),
			d.TotalRuns,
			d.SuccessRate*100,
			sent,
			d.Recipient,
		)
	}
}
