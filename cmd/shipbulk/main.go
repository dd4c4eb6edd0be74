package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/getsentry/sentry-go"
	"github.com/relay-resources/shipbulk/batch"
	"github.com/relay-resources/shipbulk/config"
	"github.com/relay-resources/shipbulk/fedex"
	"github.com/relay-resources/shipbulk/smtp"
)

var (
	StyleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#139DFF"))
	StyleSucces = lipgloss.NewStyle().Foreground(lipgloss.Color("#1EA97C"))
	StyleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
)

var (
	inputPath  string
	outputPath string
)

func init() {
	args := os.Args[1:]
	flag.Usage = helpMessage
	flag.StringVar(&inputPath, "i", "unshipped.csv", "path to input CSV")
	flag.StringVar(&inputPath, "input", "unshipped.csv", "path to input CSV")
	flag.StringVar(&outputPath, "o", "completedOrders.csv", "path to output CSV")
	flag.StringVar(&outputPath, "output", "completedOrders.csv", "path to output CSV")
	if err := flag.CommandLine.Parse(args); err != nil {
		log.Fatal(err)
	}
}

func helpMessage() {
	cmdName := os.Args[0]
	output := flag.CommandLine.Output()
	fmt.Fprintf(output, "Usage of %s:\n\n", cmdName)
	fmt.Fprintln(
		output,
		"This tool imports a CSV of unshipped orders and creates a FedEx shipping label for each entry.",
	)
	fmt.Fprintln(
		output,
		"It saves a new CSV with tracking numbers which can be imported into Excel, and reports the orders that failed.",
	)

	fmt.Fprintln(output, "Flags:")
	flag.PrintDefaults()
}

func main() {
	fmt.Println(StyleTitle.Render("BULK SHIPPING FOR FEDEX"))
	fmt.Println("Create FedEx shipping labels in bulk. Imports a CSV file and creates a")
	fmt.Println("shipping label for each entry.")
	fmt.Println()

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Could not access the current working directory: %v\n", err)
	}
	cfg, err := config.Load(os.DirFS(cwd))
	if err != nil {
		log.Fatalf("Could not load the shipbulk configuration: %v\n", err)
	}

	logger := createLogger(cfg)
	if cfg.Sentry.Enabled {
		initSentry(logger, cfg)
	}

	ctx := context.Background()

	orders, err := batch.LoadOrders(inputPath)
	if err != nil {
		fatal(cfg, err)
	}

	client := fedex.New(cfg)
	processor := batch.NewProcessor(cfg, client)

	report, err := processor.Run(ctx, orders)
	if err != nil {
		fatal(cfg, err)
	}

	if err := report.WriteCSV(outputPath); err != nil {
		fatal(cfg, err)
	}

	fmt.Println()
	fmt.Println(StyleSucces.Render(
		fmt.Sprintf("Orders complete: %d shipped, output written to %s", len(report.Shipped), outputPath),
	))
	if len(report.Failed) > 0 {
		fmt.Println(StyleError.Render("Failed orders: " + report.FailedSummary()))
	} else {
		fmt.Println("Failed orders: " + report.FailedSummary())
	}

	if cfg.Notify.Enabled {
		notifier := smtp.NewNotifyService(cfg.Notify)
		if err := notifier.SendCompletion(ctx, report); err != nil {
			logger.Error("Could not send the completion notification", "error", err)
		}
	}
}

// fatal reports a whole-batch failure and exits non-zero. Per-order
// failures never come through here; they end up on the failed list instead.
func fatal(cfg *config.Config, err error) {
	if cfg.Sentry.Enabled {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
	}
	fmt.Fprintln(os.Stderr, StyleError.Render(err.Error()))
	os.Exit(1)
}
