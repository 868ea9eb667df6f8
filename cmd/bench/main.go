// Command bench measures how the storage backends cope with a large notebook.
//
//	go run ./cmd/bench -count 2000 -adapter sqlite
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/mythos"
	"github.com/aretw0/mythos/pkg/journal"
	"github.com/aretw0/mythos/pkg/notes"
)

func main() {
	count := flag.Int("count", 1000, "Number of pages and journal entries to generate")
	adapter := flag.String("adapter", "fs", "Backend to measure: fs, memory, sqlite, sqlite3")
	keep := flag.Bool("keep", false, "Keep the benchmark data after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "mythos_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	open := func() *mythos.Store {
		st, err := mythos.Open(ctx, benchDir,
			mythos.WithAdapter(*adapter),
			mythos.WithLogger(logger),
		)
		if err != nil {
			panic(err)
		}
		return st
	}

	st := open()
	nb := mythos.NewNotes(st)
	jr := mythos.NewJournal(st)

	fmt.Printf("Generating %d pages and entries (%s) in %s...\n", *count, *adapter, benchDir)
	startGen := time.Now()
	cat, err := nb.AddCategory(ctx, "Bench")
	if err != nil {
		panic(err)
	}
	for i := 0; i < *count; i++ {
		p, err := nb.AddPage(ctx, cat.ID, fmt.Sprintf("Page %d", i))
		if err != nil {
			panic(err)
		}
		if err := nb.WritePanel(ctx, p.ID, "summary", fmt.Sprintf("# Page %d\nA benchmark note.", i)); err != nil {
			panic(err)
		}
		if _, err := jr.Add(ctx, journal.Draft{Title: fmt.Sprintf("Topic %d", i), Answers: map[string]string{journal.QuestionFlaw: "none"}}); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	// The memory backend cannot be reopened, so it is measured in place.
	if *adapter != "memory" {
		st.Close()
		st = open()
		nb, jr = mythos.NewNotes(st), mythos.NewJournal(st)
	}
	defer st.Close()

	review := measure("Review", func() int { return jr.Review(ctx).Total })
	scan := measure("Read every summary", func() int { return readSummaries(ctx, nb) })
	orphans := measure("Orphan scan", func() int { return len(nb.OrphanContent(ctx)) })

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d pages, %s):\n", *count, *adapter)
	fmt.Printf("  Review:  %v\n", review)
	fmt.Printf("  Scan:    %v\n", scan)
	fmt.Printf("  Orphans: %v\n", orphans)
	fmt.Printf("--------------------------------------------------\n")
}

func measure(name string, fn func() int) time.Duration {
	fmt.Printf("Running %s...\n", name)
	start := time.Now()
	n := fn()
	d := time.Since(start)
	fmt.Printf("%s Result: %v (Items: %d)\n", name, d, n)
	return d
}

func readSummaries(ctx context.Context, nb *notes.Service) int {
	n := 0
	for _, p := range nb.Pages(ctx, "") {
		if md, _ := nb.ReadPanel(ctx, p.ID, "summary"); md != "" {
			n++
		}
	}
	return n
}
