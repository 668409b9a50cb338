package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers prompts from a fixed list. before[i] runs just
// before answer i is handed out, which lets a test change the filesystem
// between commands.
type scriptedPrompter struct {
	answers []string
	before  map[int]func()
	labels  []string
	next    int
}

func (p *scriptedPrompter) Prompt(ctx context.Context, label string) (string, error) {
	p.labels = append(p.labels, label)
	if p.next >= len(p.answers) {
		return "", io.EOF
	}
	if hook := p.before[p.next]; hook != nil {
		hook()
	}
	answer := p.answers[p.next]
	p.next++
	return answer, nil
}

type pageCall struct {
	key   string
	page  Page[string]
	pages int
}

type reportCall struct {
	key    string
	report DeleteReport
}

type recordingDisplay struct {
	session    *Session
	states     []sessionState
	headers    []string
	menus      int
	scans      []ExtensionIndex
	warnings   []ScanWarning
	summaries  [][]ExtensionStat
	extensions [][]string
	pages      []pageCall
	progress   int
	reports    []reportCall
	infos      []string
	errs       []error
}

func (d *recordingDisplay) record() {
	if d.session != nil {
		d.states = append(d.states, d.session.State())
	}
}

func (d *recordingDisplay) Header(root string) { d.headers = append(d.headers, root) }
func (d *recordingDisplay) Menu(menuKeyMap) { d.menus++ }
func (d *recordingDisplay) Info(msg string) { d.infos = append(d.infos, msg) }
func (d *recordingDisplay) Error(err error) { d.errs = append(d.errs, err) }
func (d *recordingDisplay) Warnings(w []ScanWarning) { d.warnings = append(d.warnings, w...) }

func (d *recordingDisplay) ScanComplete(_ ScanResult, index ExtensionIndex) {
	d.scans = append(d.scans, index)
}

func (d *recordingDisplay) Summary(stats []ExtensionStat, _ int) {
	d.record()
	d.summaries = append(d.summaries, stats)
}

func (d *recordingDisplay) Extensions(keys []string) {
	d.record()
	d.extensions = append(d.extensions, keys)
}

func (d *recordingDisplay) Page(key string, page Page[string], pages int) {
	d.record()
	d.pages = append(d.pages, pageCall{key: key, page: page, pages: pages})
}

func (d *recordingDisplay) DeleteProgress(int, int, DeleteOutcome) { d.progress++ }

func (d *recordingDisplay) DeleteReport(key string, report DeleteReport) {
	d.record()
	d.reports = append(d.reports, reportCall{key: key, report: report})
}

type recordingDeleter struct {
	calls []string
	fail  map[string]error
}

func (r *recordingDeleter) SoftDelete(path string) error {
	r.calls = append(r.calls, path)
	return r.fail[path]
}

func scenarioTree(t *testing.T) string {
	return writeTree(t, map[string]string{
		"a.txt":  "a",
		"b.TXT":  "b",
		"c.md":   "c",
		"README": "r",
	})
}

func newTestSession(p Prompter, deleter SoftDeleter, opts SessionOptions) (*Session, *recordingDisplay) {
	if opts.PageSize == 0 {
		opts.PageSize = defaultPageSize
	}
	display := &recordingDisplay{}
	s := NewSession(p, display, deleter, Scan, opts)
	display.session = s
	return s, display
}

func TestSessionSummaryScenario(t *testing.T) {
	root := scenarioTree(t)
	p := &scriptedPrompter{answers: []string{root, "1", "4"}}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{})

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, stateTerminated, s.State())
	require.Len(t, d.summaries, 1)
	assert.Equal(t, []ExtensionStat{
		{Key: "", Count: 1, TotalSize: 1, Category: "none"},
		{Key: "md", Count: 1, TotalSize: 1, Category: "text"},
		{Key: "txt", Count: 2, TotalSize: 2, Category: "text"},
	}, d.summaries[0])
	assert.Equal(t, []sessionState{stateSummarizing}, d.states)
	assert.Equal(t, []string{root}, d.headers)
	assert.Equal(t, 1, d.menus)
}

func TestSessionRepromptsForInvalidRoot(t *testing.T) {
	root := scenarioTree(t)
	p := &scriptedPrompter{answers: []string{"", filepath.Join(root, "missing"), root, "4"}}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{})

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, d.errs, 2)
	for _, err := range d.errs {
		var vErr *ValidationError
		assert.True(t, errors.As(err, &vErr), "%v", err)
	}
	assert.Contains(t, d.errs[1].Error(), "does not exist")
	assert.Equal(t, root, s.Root())
	require.Len(t, d.scans, 1)
}

func TestSessionRejectsUnknownCommand(t *testing.T) {
	root := scenarioTree(t)
	p := &scriptedPrompter{answers: []string{root, "9", "", "exitt", "5", "q"}}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{})

	require.NoError(t, s.Run(context.Background()))

	assert.Len(t, d.errs, 3)
	require.Len(t, d.extensions, 1)
	assert.Equal(t, []string{"", "md", "txt"}, d.extensions[0])
	assert.Equal(t, stateTerminated, s.State())
}

func TestSessionEndsOnEOF(t *testing.T) {
	s, _ := newTestSession(&scriptedPrompter{}, &recordingDeleter{}, SessionOptions{})
	err := s.Run(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, stateAwaitingRoot, s.State())

	root := scenarioTree(t)
	s, _ = newTestSession(&scriptedPrompter{answers: []string{root, "1"}}, &recordingDeleter{}, SessionOptions{})
	err = s.Run(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, stateReady, s.State())
}

func TestSessionBrowseSinglePage(t *testing.T) {
	root := scenarioTree(t)
	p := &scriptedPrompter{answers: []string{root, "2", "TXT", "4"}}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{PageSize: 20})

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, d.pages, 1)
	assert.Equal(t, "txt", d.pages[0].key)
	assert.Equal(t, 1, d.pages[0].pages)
	assert.False(t, d.pages[0].page.More)
	assert.Equal(t, []string{filepath.Join(root, "a.txt"), filepath.Join(root, "b.TXT")}, d.pages[0].page.Items)
	assert.Equal(t, []sessionState{stateBrowsing}, d.states)
}

func logTree(t *testing.T, n int) string {
	files := map[string]string{}
	for i := 0; i < n; i++ {
		files[filepath.ToSlash(filepath.Join("logs", string(rune('a'+i))+".log"))] = "x"
	}
	return writeTree(t, files)
}

func TestSessionBrowsePagesUntilQuit(t *testing.T) {
	root := logTree(t, 7)
	p := &scriptedPrompter{answers: []string{root, "b", "log", "next", "maybe", "quit", "4"}}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{PageSize: 2})

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, d.pages, 2)
	assert.Equal(t, 1, d.pages[0].page.Number)
	assert.Equal(t, 2, d.pages[1].page.Number)
	assert.Equal(t, 4, d.pages[1].pages)
	assert.Equal(t, []string{filepath.Join(root, "logs", "c.log"), filepath.Join(root, "logs", "d.log")}, d.pages[1].page.Items)
	require.Len(t, d.errs, 1)
	assert.Contains(t, d.errs[0].Error(), "maybe")
}

func TestSessionBrowseStopsAfterLastPage(t *testing.T) {
	root := logTree(t, 4)
	p := &scriptedPrompter{answers: []string{root, "2", "log", "", "4"}}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{PageSize: 2})

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, d.pages, 2)
	assert.True(t, d.pages[0].page.More)
	assert.False(t, d.pages[1].page.More)
	assert.Empty(t, d.errs)
}

func TestSessionBrowseUnknownAndCancelled(t *testing.T) {
	root := scenarioTree(t)
	p := &scriptedPrompter{answers: []string{root, "2", "png", "2", "  ", "2", ".", "4"}}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{})

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, d.pages, 1)
	assert.Equal(t, "", d.pages[0].key)
	assert.Equal(t, []string{filepath.Join(root, "README")}, d.pages[0].page.Items)
	assert.Contains(t, d.infos, "No files with extension .png")
	assert.Contains(t, d.infos, "Cancelled.")
}

func TestSessionBrowseInvalidPageSize(t *testing.T) {
	root := scenarioTree(t)
	p := &scriptedPrompter{answers: []string{root, "2", "txt", "4"}}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{PageSize: -1})

	require.NoError(t, s.Run(context.Background()))

	assert.Empty(t, d.pages)
	require.Len(t, d.errs, 1)
	assert.ErrorIs(t, d.errs[0], ErrInvalidPageSize)
	assert.Equal(t, stateTerminated, s.State())
}

func TestSessionDeleteWithConfirmation(t *testing.T) {
	root := scenarioTree(t)
	deleter := &recordingDeleter{}
	p := &scriptedPrompter{answers: []string{root, "3", "md", "n", "3", "md", "sure", "y", "4"}}
	s, d := newTestSession(p, deleter, SessionOptions{Confirm: true})

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{filepath.Join(root, "c.md")}, deleter.calls)
	assert.Contains(t, d.infos, "Deletion cancelled.")
	require.Len(t, d.reports, 1)
	assert.Equal(t, "md", d.reports[0].key)
	assert.Equal(t, 1, d.reports[0].report.Deleted())
	assert.Equal(t, 1, d.progress)
	assert.Equal(t, []sessionState{stateDeleting}, d.states)
	require.Len(t, d.errs, 1)
	assert.Contains(t, d.errs[0].Error(), "sure")
}

func TestSessionDeleteReportsFailures(t *testing.T) {
	root := scenarioTree(t)
	deleter := &recordingDeleter{fail: map[string]error{filepath.Join(root, "a.txt"): errLocked}}
	p := &scriptedPrompter{answers: []string{root, "d", "txt", "4"}}
	s, d := newTestSession(p, deleter, SessionOptions{})

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{filepath.Join(root, "a.txt"), filepath.Join(root, "b.TXT")}, deleter.calls)
	require.Len(t, d.reports, 1)
	outcomes := d.reports[0].report.Outcomes
	require.Len(t, outcomes, 2)
	assert.ErrorIs(t, outcomes[0].Err, errLocked)
	assert.True(t, outcomes[1].Deleted())
	assert.Equal(t, stateTerminated, s.State())
}

func TestSessionDeleteUnknownExtension(t *testing.T) {
	root := scenarioTree(t)
	deleter := &recordingDeleter{}
	p := &scriptedPrompter{answers: []string{root, "3", "png", "4"}}
	s, d := newTestSession(p, deleter, SessionOptions{Confirm: true})

	require.NoError(t, s.Run(context.Background()))

	assert.Empty(t, deleter.calls)
	assert.Empty(t, d.reports)
	assert.Contains(t, d.infos, "No files with extension .png")
}

func TestSessionDeleteAfterExternalRemoval(t *testing.T) {
	root := scenarioTree(t)
	bin := newTestTrash(t)
	p := &scriptedPrompter{
		answers: []string{root, "3", "md", "3", "txt", "4"},
		before: map[int]func(){
			1: func() { require.NoError(t, os.Remove(filepath.Join(root, "c.md"))) },
		},
	}
	s, d := newTestSession(p, bin, SessionOptions{})

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, d.reports, 2)
	md := d.reports[0].report
	require.Len(t, md.Outcomes, 1)
	assert.Equal(t, filepath.Join(root, "c.md"), md.Outcomes[0].Path)
	assert.ErrorIs(t, md.Outcomes[0].Err, os.ErrNotExist)

	txt := d.reports[1].report
	assert.Equal(t, 2, txt.Deleted())
	assert.Equal(t, 0, txt.Failed())
	assert.FileExists(t, filepath.Join(root, "README"))
}

func TestSessionRefreshSnapshot(t *testing.T) {
	root := scenarioTree(t)
	p := &scriptedPrompter{
		answers: []string{root, "2", "txt", "r", "2", "txt", "4"},
		before: map[int]func(){
			1: func() {
				require.NoError(t, os.WriteFile(filepath.Join(root, "z.txt"), []byte("z"), 0o644))
			},
		},
	}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{})

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, d.pages, 2)
	assert.Len(t, d.pages[0].page.Items, 2)
	assert.Len(t, d.pages[1].page.Items, 3)
	require.Len(t, d.scans, 2)
	assert.Equal(t, 2, d.scans[0].Count("txt"))
	assert.Equal(t, 3, d.scans[1].Count("txt"))
	assert.Equal(t, 3, s.Index().Count("txt"))
}

func TestSessionChangeRoot(t *testing.T) {
	first := scenarioTree(t)
	second := writeTree(t, map[string]string{"x.go": "package x", "y.GO": "package y"})
	p := &scriptedPrompter{answers: []string{first, "7", filepath.Join(first, "nope"), "c", "", "7", second, "5", "4"}}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{})

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, second, s.Root())
	assert.Equal(t, []string{first, second}, d.headers)
	require.Len(t, d.extensions, 1)
	assert.Equal(t, []string{"go"}, d.extensions[0])
	require.Len(t, d.errs, 1)
	var vErr *ValidationError
	assert.True(t, errors.As(d.errs[0], &vErr))
	assert.Contains(t, d.infos, "Keeping "+first)
}

func TestSessionRootFromOptions(t *testing.T) {
	root := scenarioTree(t)
	p := &scriptedPrompter{answers: []string{"exit"}}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{Root: root})

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, root, s.Root())
	assert.Len(t, p.labels, 1)
	assert.Empty(t, d.errs)

	p = &scriptedPrompter{answers: []string{root, "4"}}
	s, d = newTestSession(p, &recordingDeleter{}, SessionOptions{Root: filepath.Join(root, "nope")})
	require.NoError(t, s.Run(context.Background()))
	require.Len(t, d.errs, 1)
	assert.Equal(t, root, s.Root())
}

func TestSessionSurfacesScanWarnings(t *testing.T) {
	root := scenarioTree(t)
	scan := func(ctx context.Context, opts ScanOptions) ScanResult {
		result := Scan(ctx, opts)
		result.Warnings = append(result.Warnings, ScanWarning{Path: filepath.Join(opts.Root, "locked"), Err: os.ErrPermission})
		return result
	}
	display := &recordingDisplay{}
	s := NewSession(&scriptedPrompter{answers: []string{root, "4"}}, display, &recordingDeleter{}, scan, SessionOptions{PageSize: 20})

	require.NoError(t, s.Run(context.Background()))
	require.Len(t, display.warnings, 1)
	assert.True(t, strings.HasSuffix(display.warnings[0].Path, "locked"))
	assert.Equal(t, 4, s.Index().Len())
}

func TestValidateRoot(t *testing.T) {
	dir := t.TempDir()
	got, err := ValidateRoot("  " + dir + "  ")
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	got, err = ValidateRoot("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	_, err = ValidateRoot("   ")
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "path is empty", vErr.Reason)

	_, err = ValidateRoot(filepath.Join(dir, "missing"))
	require.True(t, errors.As(err, &vErr))
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(file, []byte("n"), 0o644))
	got, err = ValidateRoot(file)
	require.NoError(t, err)
	assert.Equal(t, file, got)
}

func TestSessionFileRoot(t *testing.T) {
	root := scenarioTree(t)
	file := filepath.Join(root, "c.md")
	deleter := &recordingDeleter{}
	p := &scriptedPrompter{answers: []string{file, "5", "3", "md", "y", "4"}}
	s, d := newTestSession(p, deleter, SessionOptions{Confirm: true})

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, file, s.Root())
	assert.Equal(t, [][]string{{"md"}}, d.extensions)
	assert.Equal(t, []string{file}, deleter.calls)
}

func TestSessionInterruptKeepsIndex(t *testing.T) {
	root := scenarioTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &scriptedPrompter{
		answers: []string{root, "r", "1", "exit"},
		before:  map[int]func(){1: cancel},
	}
	s, d := newTestSession(p, &recordingDeleter{}, SessionOptions{})

	err := s.Run(ctx)

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, root, s.Root())
	assert.Equal(t, 4, s.Index().Len())
	assert.Len(t, d.scans, 1)
	assert.Empty(t, d.summaries)
	assert.Empty(t, d.warnings)
}

func TestSessionInterruptedScanKeepsSnapshot(t *testing.T) {
	first := scenarioTree(t)
	second := writeTree(t, map[string]string{"x.go": "package x"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scan := func(ctx context.Context, opts ScanOptions) ScanResult {
		if opts.Root == second {
			cancel()
		}
		return Scan(ctx, opts)
	}
	display := &recordingDisplay{}
	p := &scriptedPrompter{answers: []string{first, "7", second, "5", "4"}}
	s := NewSession(p, display, &recordingDeleter{}, scan, SessionOptions{PageSize: defaultPageSize})

	err := s.Run(ctx)

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, first, s.Root())
	assert.Equal(t, 4, s.Index().Len())
	assert.Len(t, display.scans, 1)
	assert.Empty(t, display.extensions)
}

func TestSessionRefreshDiscardsPartialScan(t *testing.T) {
	root := scenarioTree(t)
	calls := 0
	scan := func(ctx context.Context, opts ScanOptions) ScanResult {
		calls++
		result := Scan(ctx, opts)
		if calls > 1 {
			result.Entries = result.Entries[:1]
			result.Err = context.Canceled
		}
		return result
	}
	display := &recordingDisplay{}
	p := &scriptedPrompter{answers: []string{root, "6", "1", "4"}}
	s := NewSession(p, display, &recordingDeleter{}, scan, SessionOptions{PageSize: defaultPageSize})

	err := s.Run(context.Background())

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 4, s.Index().Len())
	assert.Empty(t, display.summaries)
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "ready", stateReady.String())
	assert.Equal(t, "terminated", stateTerminated.String())
	assert.Equal(t, "state(99)", sessionState(99).String())
}
