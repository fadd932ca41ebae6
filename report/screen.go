package report

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gasolve/genetic"
)

// Screen styles
var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleImproved = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleRecord   = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleHint     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Row is one generation line of the dashboard
type Row struct {
	Generation int
	Fitness    float64
	Genotype   string
	Improved   bool
}

// Screen is a terminal dashboard of recent generations and the best-ever record
type Screen struct {
	screen tcell.Screen
	title  string

	rows   []Row
	record Row
	done   bool
}

// NewScreen draws on an initialized tcell screen
func NewScreen(screen tcell.Screen, title string) *Screen {
	return &Screen{screen: screen, title: title}
}

// Push appends a generation and tracks the record
func (s *Screen) Push(row Row, record Row) {
	s.rows = append(s.rows, row)
	s.record = record
}

// Finish marks the run complete so the footer asks for exit
func (s *Screen) Finish() {
	s.done = true
}

// Draw renders the current state; rows that do not fit keep the newest on screen
func (s *Screen) Draw() {
	s.screen.Clear()
	width, height := s.screen.Size()

	drawText(s.screen, 0, 0, width, styleTitle, s.title)
	drawText(s.screen, 0, 1, width, styleRecord, fmt.Sprintf("best %s  G:%d  %s",
		formatFitness(s.record.Fitness), s.record.Generation, s.record.Genotype))

	// Rows between header (2 lines) and footer (1 line)
	capacity := height - 3
	start := 0
	if capacity < 0 {
		capacity = 0
	}
	if len(s.rows) > capacity {
		start = len(s.rows) - capacity
	}
	for i, r := range s.rows[start:] {
		style := styleDefault
		marker := " "
		if r.Improved {
			style = styleImproved
			marker = "*"
		}
		drawText(s.screen, 0, 2+i, width, style, fmt.Sprintf("%sG:%d -> fitness: %s %s",
			marker, r.Generation, formatFitness(r.Fitness), r.Genotype))
	}

	hint := "running  q/esc: stop"
	if s.done {
		hint = "done  q/esc: exit"
	}
	if height > 0 {
		drawText(s.screen, 0, height-1, width, styleHint, hint)
	}
	s.screen.Show()
}

// Listen polls input until the screen is finalized; a quit key calls cancel and closes
// the returned channel
func (s *Screen) Listen(cancel context.CancelFunc) <-chan struct{} {
	quit := make(chan struct{})
	go func() {
		for {
			ev := s.screen.PollEvent()
			switch ev := ev.(type) {
			case nil:
				return
			case *tcell.EventResize:
				s.screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					cancel()
					close(quit)
					return
				}
			}
		}
	}()
	return quit
}

// ScreenObserver adapts a screen to the engine observer callback
func ScreenObserver[S any](s *Screen) func(genetic.GenerationReport[S]) {
	return func(r genetic.GenerationReport[S]) {
		s.Push(
			Row{
				Generation: r.Generation,
				Fitness:    r.Best.Fitness,
				Genotype:   fmt.Sprint(r.Best.Genotype),
				Improved:   r.Improved,
			},
			Row{
				Generation: r.Record.Generation,
				Fitness:    r.Record.Individual.Fitness,
				Genotype:   fmt.Sprint(r.Record.Individual.Genotype),
			},
		)
		s.Draw()
	}
}

func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		if col >= maxWidth {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}
