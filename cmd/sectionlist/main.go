// Package main is a terminal viewer for scripted collection scenarios. It
// steps through a scenario's operations one at a time, showing the flattened
// layout and the change-set each step produced, and reloads the scenario
// file when it changes on disk.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sectionlist/internal/engine/flatten"
	"github.com/dshills/sectionlist/internal/engine/list"
	"github.com/dshills/sectionlist/internal/event"
	"github.com/dshills/sectionlist/internal/scenario"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		watch       bool
		showVersion bool
	)
	flag.BoolVar(&watch, "watch", true, "Reload the scenario when the file changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sectionlist [options] scenario.toml\n\n")
		fmt.Fprintf(os.Stderr, "Keys: n/space step, a apply all, r reset, q quit\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("sectionlist %s (%s)\n", version, commit)
		return 0
	}
	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	path := flag.Arg(0)

	v, err := newViewer(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()
	v.screen = screen

	if watch {
		watcher, werr := watchFile(path, screen)
		if werr != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Error: watch %s: %v\n", path, werr)
			return 1
		}
		defer watcher.Close()
	}

	if err := v.loop(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// watchFile posts an interrupt event to the screen whenever path is written
// or replaced. The directory is watched rather than the file itself, since
// editors commonly save via rename.
func watchFile(path string, screen tcell.Screen) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	name := filepath.Base(path)
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return watcher, nil
}

// viewer drives one scenario through a list and renders the flattened
// result.
type viewer struct {
	screen tcell.Screen
	path   string

	scn       *scenario.Scenario
	list      *list.List[string]
	flattener *flatten.Flattener
	step      int

	status string
	scroll int
}

func newViewer(path string) (*viewer, error) {
	v := &viewer{path: path}
	if err := v.load(); err != nil {
		return nil, err
	}
	return v, nil
}

// load reads the scenario file and rebuilds the collection from scratch.
func (v *viewer) load() error {
	scn, err := scenario.Load(v.path)
	if err != nil {
		return err
	}
	layout, err := scn.LayoutVariant()
	if err != nil {
		return err
	}

	l := scn.Build(list.WithSource(filepath.Base(v.path)))
	v.scn = scn
	v.list = l
	v.flattener = flatten.New(l, layout)
	v.step = 0
	v.status = fmt.Sprintf("loaded %q (%d ops)", scn.Title, len(scn.Ops))

	// The flattener's table must be current before anything else reads
	// flat indices.
	_, err = l.Events().Subscribe(event.HandlerFunc(v.onEvent),
		event.WithPriority(event.PriorityCritical))
	return err
}

func (v *viewer) onEvent(ev event.Event) {
	switch ev.Kind {
	case event.KindReloaded:
		v.flattener.Reload()
		v.status = fmt.Sprintf("seq %d: reloaded", ev.Metadata.Seq)
	case event.KindUpdated:
		fc := v.flattener.Translate(ev.Changes)
		v.status = fmt.Sprintf("seq %d: -%d +%d ~%d moves=%d",
			ev.Metadata.Seq,
			len(fc.Deleted), len(fc.Inserted), len(fc.Updated), len(fc.Moved))
	}
}

// advance applies the next scripted step. A begin op applies the whole
// begin/commit group as one batch.
func (v *viewer) advance() {
	ops := v.scn.Ops
	if v.step >= len(ops) {
		v.status = "scenario finished"
		return
	}
	end := v.step + 1
	if ops[v.step].Kind == scenario.OpBegin {
		for depth := 1; end < len(ops) && depth > 0; end++ {
			switch ops[end].Kind {
			case scenario.OpBegin:
				depth++
			case scenario.OpCommit:
				depth--
			}
		}
	}
	if err := scenario.Apply(v.list, ops[v.step:end]); err != nil {
		v.status = fmt.Sprintf("step %d: %v", v.step, err)
		return
	}
	v.step = end
}

func (v *viewer) loop() error {
	for {
		v.render()
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				ev.Rune() == 'q':
				return nil
			case ev.Rune() == 'n' || ev.Rune() == ' ':
				v.advance()
			case ev.Rune() == 'a':
				for v.step < len(v.scn.Ops) {
					v.advance()
				}
			case ev.Rune() == 'r':
				if err := v.reload(); err != nil {
					v.status = fmt.Sprintf("reload: %v", err)
				}
			case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
				v.scroll++
			case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
				if v.scroll > 0 {
					v.scroll--
				}
			}
		case *tcell.EventInterrupt:
			if err := v.reload(); err != nil {
				v.status = fmt.Sprintf("reload: %v", err)
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
	}
}

// reload re-reads the scenario file and resets the collection to the new
// seed state. The stream and its subscriptions survive; observers see one
// Reloaded event.
func (v *viewer) reload() error {
	scn, err := scenario.Load(v.path)
	if err != nil {
		return err
	}
	layout, err := scn.LayoutVariant()
	if err != nil {
		return err
	}

	v.scn = scn
	v.step = 0
	v.scroll = 0
	v.list.Reset(scn.Seed())
	v.flattener = flatten.New(v.list, layout)
	v.status = fmt.Sprintf("reloaded %q (%d ops)", scn.Title, len(scn.Ops))
	return nil
}

var (
	styleDefault = tcell.StyleDefault
	styleHeader  = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorYellow)
	styleFooter  = tcell.StyleDefault.Dim(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

func (v *viewer) render() {
	s := v.screen
	s.Clear()
	width, height := s.Size()
	body := height - 2

	total := v.flattener.FlattenedRowCount()
	if v.scroll > total-1 {
		v.scroll = max(0, total-1)
	}

	for y := 0; y < body; y++ {
		flat := v.scroll + y
		if flat >= total {
			break
		}
		line, style := v.line(flat)
		drawText(s, 0, y, width, fmt.Sprintf("%3d  %s", flat, line), style)
	}

	title := fmt.Sprintf(" %s  step %d/%d ", v.scn.Title, v.step, len(v.scn.Ops))
	drawText(s, 0, height-2, width, title, styleStatus)
	drawText(s, 0, height-1, width, " "+v.status, styleDefault)
	s.Show()
}

// line formats one flat slot.
func (v *viewer) line(flat int) (string, tcell.Style) {
	switch {
	case v.flattener.HasHeaderRow(flat):
		sec := v.flattener.SectionOf(flat)
		label, ok := v.list.SectionLabel(sec)
		if !ok {
			label = fmt.Sprintf("section %d", sec)
		}
		return "== " + label, styleHeader
	case v.flattener.HasFooterRow(flat):
		sec := v.flattener.SectionOf(flat)
		return fmt.Sprintf("-- %d rows", v.list.RowCount(sec)), styleFooter
	default:
		c := v.flattener.CoordinateOf(flat)
		return fmt.Sprintf("%v  %s", c, v.list.ElementAt(c)), styleDefault
	}
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+maxWidth {
			break
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
}
