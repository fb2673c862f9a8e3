package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "EBD administration tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ebdadmin report  [options]          Per-class attendance report")
	fmt.Fprintln(w, "  ebdadmin rank    [options]          Student attendance ranking")
	fmt.Fprintln(w, "  ebdadmin trend   [options]          Presence trend series")
	fmt.Fprintln(w, "  ebdadmin lowfreq [-apply]           Low-frequency preview, or deactivate with -apply")
	fmt.Fprintln(w, "  ebdadmin backup export [-output f]  Export database to JSON file")
	fmt.Fprintln(w, "  ebdadmin backup import -input f     Import database from JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report Options:")
	fmt.Fprintln(w, "  -granularity <g>  day, month, quarter or year (dia, mes, trimestre, ano)")
	fmt.Fprintln(w, "  -date <date>      Reference date YYYY-MM-DD (default: today)")
	fmt.Fprintln(w, "  -q <text>         rank only: filter by student name")
	fmt.Fprintln(w, "  -class <id>       rank only: filter by class")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Import Options:")
	fmt.Fprintln(w, "  -input <file>     Input file path (required)")
	fmt.Fprintln(w, "  -clear            Clear existing data before import (WARNING: destructive)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output is JSON on stdout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	fmt.Fprintln(w, "  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Fprintln(w, "  DB_PATH          SQLite database path (default: ./ebd.db)")
	fmt.Fprintln(w, "  DATABASE_URL     PostgreSQL or MySQL connection URL")
	fmt.Fprintln(w, "  MIGRATIONS_PATH  Migrations directory (default: ./migrations)")
}
