package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"ketf/internal"
	"ketf/internal/config"
	"ketf/internal/logging"
	"ketf/internal/pipeline"
	"ketf/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	must(err)
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		funds := fs.String("funds", "", "total funds available, skips the prompt")
		source := fs.String("source", "", "xlsx|csv|html|sheets|web")
		input := fs.String("input", "", "input file path or published URL")
		_ = fs.Parse(os.Args[2:])
		applyInput(&cfg, *source, *input)

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		deps, err := buildDependencies(ctx, cfg, *funds, log)
		must(err)
		deps.Delivery, err = makeSender(ctx, cfg, log)
		must(err)
		deps.Store = db

		res, err := pipeline.NewProcessingService(deps).Run(ctx)
		must(err)
		if res.Status == internal.RunCancelled {
			fmt.Printf("run cancelled id=%s\n", res.RunID)
			return
		}
		fmt.Printf("run done id=%s applicants=%d accepted=%d rejected=%d allocated=%d delivered=%t\n",
			res.RunID, res.Outcome.Rows, len(res.Outcome.Eligible), len(res.Outcome.Rejected),
			res.Outcome.Allocation.TotalAllocated, res.Delivered)
	case "evaluate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		funds := fs.String("funds", "", "total funds available, skips the prompt")
		source := fs.String("source", "", "xlsx|csv|html|sheets|web")
		input := fs.String("input", "", "input file path or published URL")
		_ = fs.Parse(os.Args[2:])
		applyInput(&cfg, *source, *input)

		deps, err := buildDependencies(ctx, cfg, *funds, log)
		must(err)
		deps.Renderers = nil
		deps.Workbook = nil

		res, err := pipeline.NewProcessingService(deps).Run(ctx)
		must(err)
		if res.Status == internal.RunCancelled {
			fmt.Println("evaluation cancelled")
			return
		}
		out := filepath.Join(cfg.OutputDir, pipeline.FlatTextFileName)
		must(writeFile(out, res.Export.Content))
		fmt.Print(pipeline.PlainText(res.Outcome.Report))
		fmt.Printf("\nexport written to %s\n", out)
	case "export:csv":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		source := fs.String("source", "", "xlsx|csv|html|sheets|web")
		input := fs.String("input", "", "input file path or published URL")
		out := fs.String("out", "", "output path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		applyInput(&cfg, *source, *input)

		src, err := makeSource(ctx, cfg)
		must(err)
		rows, err := src.FetchRows(ctx)
		must(err)
		must(pipeline.WriteFlatText(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "number of runs")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		runs, err := db.ListRuns(*limit)
		must(err)
		printRuns(runs)
	default:
		usage()
		os.Exit(1)
	}
}

func printRuns(runs []internal.RunRecord) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tRUN\tSTATUS\tSOURCE\tFUNDS\tAPPLICANTS\tACCEPTED\tREJECTED\tREQUESTED\tALLOCATED\tSCALE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.RunID, r.Status, r.Source, r.TotalFunds,
			r.Applicants, r.Eligible, r.Rejected, r.TotalRequested, r.TotalAllocated, r.Scale)
	}
	_ = w.Flush()
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

func usage() {
	fmt.Println("usage: ketf <command>")
	fmt.Println("commands:")
	fmt.Println("  run [--funds=N] [--source=xlsx|csv|html|sheets|web] [--input=...]")
	fmt.Println("  evaluate [--funds=N] [--source=...] [--input=...]")
	fmt.Println("  export:csv --out=./out/applications.csv [--source=...] [--input=...]")
	fmt.Println("  runs:list [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
