// Package cli parses flags and drives one load → mutate → list → save
// cycle against the record store.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	flag "github.com/spf13/pflag"

	"github.com/amirbrooks/todolog/internal/store"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitSchema   = 3
	ExitInternal = 10
)

func Run(args []string) int {
	fs := flag.NewFlagSet("todos", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printHelp(fs) }

	list := fs.BoolP("list", "l", false, "List todos.")
	changes := fs.BoolP("changes", "c", false, "Show record changes for todos. Only works with list.")
	add := fs.StringArrayP("add", "a", nil, "Add records. Schema: name;due_date;priority")
	remove := fs.StringArrayP("remove", "r", nil, "Remove records. Schema: name")
	done := fs.StringArrayP("done", "d", nil, "Mark records done. Schema: name")
	modify := fs.StringArrayP("modify", "m", nil, "Modify records. Schema: name;key:value;...")
	export := fs.Bool("export", false, "Write an NDJSON snapshot to the export directory.")
	root := fs.String("root", "", "Store root (default: ~/.todos or TODOS_ROOT)")
	verbose := fs.Bool("verbose", false, "Debug logging.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if rest := fs.Args(); len(rest) > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected argument: %s\n\n", rest[0])
		fs.Usage()
		return ExitUsage
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	rootDir := resolveRoot(*root)
	cfg := store.LoadConfig(rootDir)
	applyColorProfile(cfg.Color)
	storePath := cfg.StorePath(rootDir)
	logger.Debug("resolved store", "root", rootDir, "path", storePath)

	records, err := store.LoadRecords(storePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load:", err)
		return ExitInternal
	}
	logger.Debug("loaded records", "count", records.Len())

	if err := records.AddAll(*add); err != nil {
		fmt.Fprintln(os.Stderr, "add:", err)
		if errors.Is(err, store.ErrSchema) {
			return ExitSchema
		}
		return ExitInternal
	}
	records.RemoveAll(*remove)
	records.ModifyAll(*modify)
	records.MarkDoneAll(*done)

	if *list {
		fmt.Print(records.Render(store.NewRenderer(), *changes))
	}

	if *export {
		path, err := store.ExportNDJSON(cfg.ExportDir, records)
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			return ExitInternal
		}
		logger.Debug("wrote export", "path", path)
	}

	if err := records.Save(storePath); err != nil {
		fmt.Fprintln(os.Stderr, "save:", err)
		return ExitInternal
	}
	logger.Debug("saved records", "count", records.Len())
	return ExitOK
}

func resolveRoot(flagRoot string) string {
	if strings.TrimSpace(flagRoot) != "" {
		return store.ExpandHome(strings.TrimSpace(flagRoot))
	}
	if env := os.Getenv("TODOS_ROOT"); env != "" {
		return store.ExpandHome(env)
	}
	home, _ := os.UserHomeDir()
	if home != "" {
		return filepath.Join(home, ".todos")
	}
	return ".todos"
}

func applyColorProfile(mode string) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func printHelp(fs *flag.FlagSet) {
	fmt.Fprint(os.Stderr, `todos — personal todos with change history

Usage:
  todos [flags]

Flags:
`)
	fmt.Fprint(os.Stderr, fs.FlagUsages())
}
