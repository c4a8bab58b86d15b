package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/redline/internal/annotation"
	"github.com/dshills/redline/internal/host"
	"github.com/dshills/redline/internal/overlay"
	"github.com/dshills/redline/internal/render"
	"github.com/dshills/redline/internal/viewport"
)

// Output formats for render.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		docPath  string
		snapPath string
		format   string
		preview  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "List or preview the annotations for a document",
		Example: `  redline render --doc notes.txt --snapshot notes.ranges.json
  redline render --doc notes.txt --snapshot notes.ranges.json --format yaml
  redline render --doc notes.txt --snapshot notes.ranges.json --preview`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.loadInput(docPath, snapPath)
			if err != nil {
				return err
			}
			set := a.build(in)
			if preview {
				return a.preview(in, set)
			}
			return writeAnnotations(cmd.OutOrStdout(), format, in, set)
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "Document file")
	cmd.Flags().StringVar(&snapPath, "snapshot", "", "Tracked-change snapshot (JSON)")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Show an interactive terminal preview")
	return cmd
}

func writeAnnotations(w io.Writer, format string, in *input, set annotation.Set) error {
	switch format {
	case formatText:
		return render.Describe(w, in.doc, set)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(render.Records(in.doc, set))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(render.Records(in.doc, set)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid format %q (valid: text, json, yaml)", format)
	}
}

// preview runs an interactive viewer. Arrow keys and PgUp/PgDn scroll;
// q or Esc quits. Repaints after scrolling are coalesced by the viewport
// watcher.
func (a *app) preview(in *input, set annotation.Set) error {
	styles, err := render.StylesFromConfig(a.cfg.Render)
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	surface := host.New(in.doc.Text(), host.WithLogger(a.logger))
	engine := overlay.NewEngine(surface,
		overlay.NewBoundedRefresh(in.snap.Ranges, in.snap.Threads, in.doc.Len()),
		overlay.WithLogger(a.logger))
	watcher := viewport.NewWatcher(func(viewport.Notification) {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}, viewport.WithDelay(a.cfg.Viewport.Debounce.Std()), viewport.WithLogger(a.logger))
	defer watcher.Close()

	surface.AddListener(engine)
	surface.AddListener(watcher)

	painter := render.NewPainter(screen, styles)
	lines := len(in.doc.Lines())
	top := 0
	painter.Paint(surface.Text(), engine.Set(), top)

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			painter.Paint(surface.Text(), engine.Set(), top)
		case *tcell.EventResize:
			screen.Sync()
			if err := surface.ViewportChanged(); err != nil {
				return err
			}
		case *tcell.EventKey:
			_, height := screen.Size()
			next := top
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				return nil
			case ev.Key() == tcell.KeyDown, ev.Rune() == 'j':
				next++
			case ev.Key() == tcell.KeyUp, ev.Rune() == 'k':
				next--
			case ev.Key() == tcell.KeyPgDn:
				next += height
			case ev.Key() == tcell.KeyPgUp:
				next -= height
			}
			next = max(0, min(next, lines-1))
			if next != top {
				top = next
				if err := surface.ViewportChanged(); err != nil {
					return err
				}
			}
		}
	}
}
