package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/playmatatu/catmouse/internal/config"
	"github.com/playmatatu/catmouse/internal/game"
)

var (
	rimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	mouseStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	catStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	targetStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Host draws a local game in the terminal and feeds it the mouse pointer.
type Host struct {
	screen  tcell.Screen
	session *game.Session
	board   game.Rect
	last    game.Frame
}

func NewHost(cfg *config.Config) (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()
	// Log lines would draw over the board.
	log.SetOutput(io.Discard)

	h := &Host{screen: screen}
	h.session = game.NewSession(
		"local",
		game.ParamsFromConfig(cfg),
		cfg.InitialCatAngle,
		time.Duration(cfg.TickIntervalMs)*time.Millisecond,
	)
	h.last = h.session.Snapshot()
	h.handleResize()
	return h, nil
}

// handleResize fits the board into the terminal. Cells are about twice as
// tall as they are wide, so the board is twice as many columns as rows.
func (h *Host) handleResize() {
	w, ht := h.screen.Size()
	rows := ht - 2
	if cols := w / 2; cols < rows {
		rows = cols
	}
	if rows < 1 {
		rows = 1
	}
	h.board = game.Rect{
		Left:   float64(w-2*rows) / 2,
		Top:    1,
		Width:  float64(2 * rows),
		Height: float64(rows),
	}
	h.screen.Sync()
}

func (h *Host) cell(p game.Point) (int, int) {
	x, y := game.NormalizedToScreen(p, h.board)
	return int(math.Floor(x)), int(math.Floor(y))
}

func (h *Host) draw() {
	h.screen.Clear()

	steps := int(4 * (h.board.Width + h.board.Height))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := h.cell(game.CatPosition(a))
		h.screen.SetContent(x, y, '·', nil, rimStyle)
	}

	f := h.last
	tx, ty := h.cell(f.State.Target)
	h.screen.SetContent(tx, ty, '+', nil, targetStyle)
	mx, my := h.cell(f.State.Mouse)
	h.screen.SetContent(mx, my, 'm', nil, mouseStyle)
	cx, cy := h.cell(f.CatPosition)
	h.screen.SetContent(cx, cy, 'C', nil, catStyle)

	mode := "paused (left click to chase the pointer)"
	if f.Controls.Tracking {
		mode = "tracking (right click to pause)"
	}
	if f.Controls.FreezeTime {
		mode = "time frozen (f to resume)"
	}
	h.drawText(0, 0, fmt.Sprintf("frame %d  %s", f.Number, mode))

	status := f.Status
	if status != "" {
		status += "  (r for a new game)"
	}
	_, ht := h.screen.Size()
	h.drawText(0, ht-1, status+"  q quits")

	h.screen.Show()
}

func (h *Host) drawText(x, y int, s string) {
	for i, r := range s {
		h.screen.SetContent(x+i, y, r, nil, textStyle)
	}
}

// handleInput applies one terminal event and reports whether to keep running.
func (h *Host) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'f':
				h.session.ToggleFreeze()
			case 'r':
				h.session.Reset()
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		h.session.SetTarget(game.ScreenToNormalized(float64(x)+0.5, float64(y)+0.5, h.board))
		switch {
		case ev.Buttons()&tcell.Button1 != 0:
			h.session.SetTracking(true)
		case ev.Buttons()&tcell.Button2 != 0:
			h.session.SetTracking(false)
		}

	case *tcell.EventResize:
		h.handleResize()
	}

	return true
}

func (h *Host) run(ctx context.Context) {
	h.session.Start(ctx)
	defer h.session.Stop()

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !h.handleInput(ev) {
				return
			}
		case <-ticker.C:
			h.last = h.session.Snapshot()
			h.draw()
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	host, err := NewHost(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer host.screen.Fini()

	host.run(context.Background())
}
