package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type sessionState int

const (
	stateAwaitingRoot sessionState = iota
	stateReady
	stateSummarizing
	stateBrowsing
	stateDeleting
	stateListingExtensions
	stateRefreshing
	stateChangingRoot
	stateTerminated
)

func (s sessionState) String() string {
	switch s {
	case stateAwaitingRoot:
		return "awaiting root"
	case stateReady:
		return "ready"
	case stateSummarizing:
		return "summarizing"
	case stateBrowsing:
		return "browsing"
	case stateDeleting:
		return "deleting"
	case stateListingExtensions:
		return "listing extensions"
	case stateRefreshing:
		return "refreshing"
	case stateChangingRoot:
		return "changing root"
	case stateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type SessionOptions struct {
	Root     string
	PageSize int
	Confirm  bool
	SkipDirs map[string]struct{}
}

// Session is the interactive controller. It owns the current root and the
// index built from it; nothing else mutates them.
type Session struct {
	prompter Prompter
	display  Display
	deleter  SoftDeleter
	scan     Scanner
	keys     menuKeyMap
	opts     SessionOptions

	state sessionState
	root  string
	index ExtensionIndex
}

func NewSession(prompter Prompter, display Display, deleter SoftDeleter, scan Scanner, opts SessionOptions) *Session {
	if scan == nil {
		scan = Scan
	}
	return &Session{
		prompter: prompter,
		display:  display,
		deleter:  deleter,
		scan:     scan,
		keys:     newMenuKeyMap(),
		opts:     opts,
		state:    stateAwaitingRoot,
	}
}

func (s *Session) State() sessionState { return s.state }

func (s *Session) Root() string { return s.root }

func (s *Session) Index() ExtensionIndex { return s.index }

// Run drives the session until the operator exits. It returns nil after the
// exit command and the prompter's error (io.EOF, ErrInterrupted) when input
// ends first. Once ctx is cancelled Run returns an error wrapping
// ErrInterrupted; the root and index installed before that are left as
// they were.
func (s *Session) Run(ctx context.Context) error {
	if s.state == stateAwaitingRoot && s.opts.Root != "" {
		if root, err := ValidateRoot(s.opts.Root); err != nil {
			s.display.Error(err)
		} else if err := s.enterReady(ctx, root); err != nil {
			return err
		}
	}

	for {
		switch s.state {
		case stateAwaitingRoot:
			root, err := s.promptRoot(ctx, "Enter the path to scan:")
			if err != nil {
				return err
			}
			if root == "" {
				continue
			}
			if err := s.enterReady(ctx, root); err != nil {
				return err
			}
		case stateReady:
			cmd, err := s.readCommand(ctx)
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return interruptedBy(err)
			}
			if err := s.dispatch(ctx, cmd); err != nil {
				return err
			}
		case stateTerminated:
			return nil
		default:
			return fmt.Errorf("session: unexpected state %s", s.state)
		}
	}
}

func (s *Session) enterReady(ctx context.Context, root string) error {
	s.display.Header(root)
	index, err := s.buildIndex(ctx, root)
	if err != nil {
		return err
	}
	s.root, s.index = root, index
	s.state = stateReady
	s.display.Menu(s.keys)
	return nil
}

// promptRoot asks for a root once. Invalid input is reported and yields "".
func (s *Session) promptRoot(ctx context.Context, label string) (string, error) {
	input, err := s.prompter.Prompt(ctx, label)
	if err != nil {
		return "", err
	}
	root, err := ValidateRoot(input)
	if err != nil {
		s.display.Error(err)
		return "", nil
	}
	return root, nil
}

// buildIndex scans root and indexes the result. A scan cut short by
// cancellation is discarded so the caller keeps its previous snapshot.
func (s *Session) buildIndex(ctx context.Context, root string) (ExtensionIndex, error) {
	result := s.scan(ctx, ScanOptions{Root: root, SkipDirs: s.opts.SkipDirs})
	cause := result.Err
	if cause == nil {
		cause = ctx.Err()
	}
	if cause != nil {
		return ExtensionIndex{}, interruptedBy(cause)
	}
	index := BuildIndex(result.Entries)
	s.display.ScanComplete(result, index)
	s.display.Warnings(result.Warnings)
	return index, nil
}

func (s *Session) readCommand(ctx context.Context) (command, error) {
	for {
		input, err := s.prompter.Prompt(ctx, "Choose an option:")
		if err != nil {
			return cmdNone, err
		}
		if cmd := s.keys.parse(input); cmd != cmdNone {
			return cmd, nil
		}
		s.display.Error(fmt.Errorf("invalid option %q, please try again (? shows the menu)", strings.TrimSpace(input)))
	}
}

func (s *Session) dispatch(ctx context.Context, cmd command) error {
	var err error
	switch cmd {
	case cmdSummary:
		s.state = stateSummarizing
		s.display.Summary(s.index.Stats(), s.index.Len())
	case cmdBrowse:
		s.state = stateBrowsing
		err = s.browse(ctx)
	case cmdDelete:
		s.state = stateDeleting
		err = s.deleteExtension(ctx)
	case cmdListExtensions:
		s.state = stateListingExtensions
		s.display.Extensions(s.index.Keys())
	case cmdRefresh:
		s.state = stateRefreshing
		var index ExtensionIndex
		if index, err = s.buildIndex(ctx, s.root); err == nil {
			s.index = index
		}
	case cmdChangeRoot:
		s.state = stateChangingRoot
		err = s.changeRoot(ctx)
	case cmdHelp:
		s.display.Menu(s.keys)
	case cmdExit:
		s.state = stateTerminated
		s.display.Info("Bye.")
		return nil
	}
	if err != nil {
		return err
	}
	s.state = stateReady
	return nil
}

// promptExtension reads an extension key. ok is false when the operator
// cancels with a blank line.
func (s *Session) promptExtension(ctx context.Context) (key string, ok bool, err error) {
	input, err := s.prompter.Prompt(ctx, `Enter a file extension (without the dot, "." for files without one):`)
	if err != nil {
		return "", false, err
	}
	if strings.TrimSpace(input) == "" {
		s.display.Info("Cancelled.")
		return "", false, nil
	}
	return NormalizeKey(input), true, nil
}

func (s *Session) browse(ctx context.Context) error {
	key, ok, err := s.promptExtension(ctx)
	if err != nil || !ok {
		return err
	}
	if !s.index.Has(key) {
		s.display.Info(fmt.Sprintf("No files with extension %s", keyLabel(key)))
		return nil
	}
	pager, err := Paginate(s.index.Paths(key), s.opts.PageSize)
	if err != nil {
		s.display.Error(err)
		return nil
	}

	var promptErr error
	for page := range pager.Pages() {
		s.display.Page(key, page, pager.Count())
		if !page.More {
			break
		}
		next, err := s.askNextPage(ctx)
		if err != nil {
			promptErr = err
			break
		}
		if !next {
			break
		}
	}
	return promptErr
}

func (s *Session) askNextPage(ctx context.Context) (bool, error) {
	for {
		input, err := s.prompter.Prompt(ctx, "Type 'next' (or press enter) to see more, or 'quit' to return:")
		if err != nil {
			return false, err
		}
		switch parsePageAction(input) {
		case pageNext:
			return true, nil
		case pageQuit:
			return false, nil
		}
		s.display.Error(fmt.Errorf("unrecognized answer %q", strings.TrimSpace(input)))
	}
}

func (s *Session) confirm(ctx context.Context, question string) (bool, error) {
	for {
		input, err := s.prompter.Prompt(ctx, question)
		if err != nil {
			return false, err
		}
		switch parseYesNo(input) {
		case answerYes:
			return true, nil
		case answerNo:
			return false, nil
		}
		s.display.Error(fmt.Errorf("please answer y or n, not %q", strings.TrimSpace(input)))
	}
}

func (s *Session) deleteExtension(ctx context.Context) error {
	key, ok, err := s.promptExtension(ctx)
	if err != nil || !ok {
		return err
	}
	paths := s.index.Paths(key)
	if len(paths) == 0 {
		s.display.Info(fmt.Sprintf("No files with extension %s", keyLabel(key)))
		return nil
	}
	if s.opts.Confirm {
		yes, err := s.confirm(ctx, fmt.Sprintf("Move %d %s file(s) to trash? (y/n)", len(paths), keyLabel(key)))
		if err != nil {
			return err
		}
		if !yes {
			s.display.Info("Deletion cancelled.")
			return nil
		}
	}

	report := DeleteAll(ctx, paths, s.deleter, s.display.DeleteProgress)
	s.display.DeleteReport(key, report)
	if report.Deleted() > 0 {
		s.display.Info("The index is a snapshot; refresh (6/r) to rescan.")
	}
	if err := ctx.Err(); err != nil {
		return interruptedBy(err)
	}
	return nil
}

func (s *Session) changeRoot(ctx context.Context) error {
	input, err := s.prompter.Prompt(ctx, "Enter the new path to scan (blank keeps the current one):")
	if err != nil {
		return err
	}
	if strings.TrimSpace(input) == "" {
		s.display.Info("Keeping " + s.root)
		return nil
	}
	root, err := ValidateRoot(input)
	if err != nil {
		s.display.Error(err)
		return nil
	}
	s.display.Header(root)
	index, err := s.buildIndex(ctx, root)
	if err != nil {
		return err
	}
	s.root, s.index = root, index
	return nil
}

// ValidateRoot turns operator input into an absolute path to a directory or
// regular file that exists right now.
func ValidateRoot(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", &ValidationError{Input: input, Reason: "path is empty"}
	}
	expanded := trimmed
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", &ValidationError{Input: trimmed, Reason: "cannot resolve home directory", Err: err}
		}
		expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", &ValidationError{Input: trimmed, Reason: err.Error(), Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, os.ErrNotExist) {
			reason = "does not exist"
		} else if errors.Is(err, os.ErrPermission) {
			reason = "permission denied"
		}
		return "", &ValidationError{Input: trimmed, Reason: reason, Err: err}
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return "", &ValidationError{Input: trimmed, Reason: "not a file or directory"}
	}
	return abs, nil
}
