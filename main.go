package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/mattn/go-isatty"
)

type stringFlag struct {
	value string
	set   bool
}

func (s *stringFlag) String() string { return s.value }
func (s *stringFlag) Set(val string) error {
	s.value = val
	s.set = true
	return nil
}

type intFlag struct {
	value int
	set   bool
}

func (i *intFlag) String() string { return fmt.Sprintf("%d", i.value) }
func (i *intFlag) Set(val string) error {
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return err
	}
	i.value = parsed
	i.set = true
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var rootFlag stringFlag
	var pageSize intFlag
	var configPath stringFlag
	var skipDirs stringFlag
	var trashDir stringFlag
	var noConfirm bool
	var plain bool

	flag.Var(&rootFlag, "root", "Directory to scan (prompted for when omitted)")
	flag.Var(&pageSize, "page-size", "Files shown per page while browsing (default 20)")
	flag.Var(&configPath, "config", "Path to a JSON config file")
	flag.Var(&skipDirs, "skip", "Comma-separated directory names to leave out of the scan")
	flag.Var(&trashDir, "trash-dir", "Trash directory to use instead of the platform default")
	flag.BoolVar(&noConfirm, "no-confirm", false, "Move files to trash without a confirmation prompt")
	flag.BoolVar(&plain, "plain", false, "Read answers line by line even on a terminal")
	flag.Parse()

	root := rootFlag.value
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}
	configRoot := ""
	if root != "" {
		if validated, err := ValidateRoot(root); err == nil {
			configRoot = validated
			if info, err := os.Stat(validated); err == nil && !info.IsDir() {
				configRoot = filepath.Dir(validated)
			}
		}
	}

	config := Config{}
	if path, ok, err := findConfig(configRoot, configPath.value); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	} else if ok {
		cfg, err := loadConfig(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		config = cfg
	}
	if pageSize.set {
		config.PageSize = pageSize.value
	}
	if trashDir.set {
		config.TrashDir = trashDir.value
	}
	normalized, err := normalizeConfig(config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	config = normalized

	confirmDeletes := true
	if config.Confirm != nil {
		confirmDeletes = *config.Confirm
	}
	if noConfirm {
		confirmDeletes = false
	}
	skip := newSkipSet(config.Skip, parseList(skipDirs.value))

	var deleter SoftDeleter
	bin, trashErr := newTrashBin(config.TrashDir)
	if trashErr != nil {
		fmt.Fprintln(os.Stderr, "Warning:", trashErr)
		deleter = SoftDeleteFunc(func(string) error { return trashErr })
	} else {
		deleter = bin
	}

	interactive := !plain && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	var prompter Prompter = newLineReader(os.Stdin, os.Stdout)
	scanner := Scanner(Scan)
	if interactive {
		prompter = newTeaPrompter()
		scanner = withSpinner(Scan)
	}

	session := NewSession(prompter, newTermDisplay(os.Stdout), deleter, scanner, SessionOptions{
		Root:     root,
		PageSize: config.PageSize,
		Confirm:  confirmDeletes,
		SkipDirs: skip,
	})
	if err := session.Run(ctx); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) {
			return
		}
		fmt.Fprintln(os.Stderr, "Error running session:", err)
		os.Exit(1)
	}
}
