package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"docqa/internal/bootstrap"
	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/logger"
	"docqa/internal/service"
	"docqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath  string
		question string
		summary  bool
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	flag.StringVar(&question, "question", "", "Ask one question and print the answer instead of starting the TUI")
	flag.BoolVar(&summary, "summary", false, "Print a summary of the document instead of starting the TUI")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) != 1 {
		fmt.Println("Usage: docqa [--config=config.yaml] [--question=\"...\" | --summary] file.pdf")
		os.Exit(1)
	}

	cfg, _, err := config.Resolve(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	data, err := os.ReadFile(inputs[0])
	if err != nil {
		log.Fatalf("failed to read %s: %v", inputs[0], err)
	}

	// Logs go to the file only so they never mix with answers or the TUI.
	sysLogger := logger.NewIsolatedLogger(cfg.Log.FilePath)
	defer sysLogger.Sync()

	var program *tea.Program
	observer := func(_ string, stage service.Stage) {
		if program != nil {
			program.Send(tui.StageMsg{Stage: stage})
		}
	}

	ctx := context.Background()
	c, err := bootstrap.NewContainer(ctx, cfg, sysLogger, service.WithObserver(observer))
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	doc, chunks, err := c.Service.LoadDocument(ctx, inputs[0], data)
	if err != nil {
		log.Fatalf("load failed: %v", err)
	}

	timeout := cfg.LLM.Timeout()
	switch {
	case summary:
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		s, err := c.Service.Summarize(callCtx, doc.ID)
		if err != nil {
			log.Fatalf("summary failed: %v", err)
		}
		color.New(color.FgCyan, color.Bold).Println("Summary")
		fmt.Println(s)
	case question != "":
		// Sufficiency check plus generation is two model calls.
		callCtx, cancel := context.WithTimeout(ctx, 2*timeout)
		defer cancel()
		ans, err := c.Service.Ask(callCtx, doc.ID, question)
		if err != nil {
			log.Fatalf("question failed: %v", err)
		}
		printAnswer(ans)
	default:
		program = tea.NewProgram(tui.New(c.Service, doc, chunks, 2*timeout), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			log.Fatal(err)
		}
	}
}

func printAnswer(ans domain.Answer) {
	label := color.New(color.FgBlue, color.Bold)
	if ans.Provenance == domain.FromDocument {
		label = color.New(color.FgGreen, color.Bold)
	}
	label.Printf("[%s]\n", ans.Provenance.Label())
	fmt.Println(ans.Text)
	for _, src := range ans.Sources {
		color.New(color.Faint).Printf("\n-- chunk #%d --\n%s\n", src.Index, truncate(src.Text, 300))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
