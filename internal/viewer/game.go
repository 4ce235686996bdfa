package viewer

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/zeusync/pursuit/internal/core/entity"
	"github.com/zeusync/pursuit/internal/core/observability/log"
	"github.com/zeusync/pursuit/internal/core/sim"
)

const (
	agentRadius = 5
	barWidth    = 40
	barHeight   = 6
	barOffsetY  = 20
)

var (
	colorBackground = color.RGBA{0xf4, 0xf4, 0xf4, 0xff}
	colorPlayer     = color.RGBA{0x00, 0x00, 0xff, 0xff}
	colorEnemy      = color.RGBA{0xff, 0x00, 0x00, 0xff}
	colorBarBack    = color.RGBA{0x80, 0x80, 0x80, 0xff}
	colorBarFill    = color.RGBA{0x00, 0xff, 0x00, 0xff}
	colorOutline    = color.RGBA{0x00, 0x00, 0x00, 0xff}
	colorRange      = color.RGBA{0xc0, 0xc0, 0xc0, 0xff}
	colorHUD        = color.RGBA{0x20, 0x20, 0x20, 0xff}

	hudFace = text.NewGoXFace(basicfont.Face7x13)
)

// Input is the per-frame user input the game reacts to.
type Input struct {
	Clicked bool
	X, Y    int
	Copy    bool
}

// Game is an ebiten.Game that ticks one session per Update and draws it.
// ebiten's TPS is the tick rate.
type Game struct {
	session *sim.Session
	width   int
	height  int
	logger  log.Log

	frame  sim.Frame
	notice string
	copyFn func(string) error
	paused bool
}

func NewGame(session *sim.Session, width, height int, logger log.Log) *Game {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Game{
		session: session,
		width:   width,
		height:  height,
		logger:  logger.Named("viewer"),
		frame:   session.Snapshot(),
		copyFn:  clipboard.WriteAll,
	}
}

func (g *Game) Update() error {
	in := Input{Copy: inpututil.IsKeyJustPressed(ebiten.KeyC)}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.Clicked = true
		in.X, in.Y = ebiten.CursorPosition()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	g.Step(in)
	return nil
}

// Step applies input and advances the session by one tick unless paused.
func (g *Game) Step(in Input) {
	if in.Clicked {
		g.session.Click(entity.Position{X: in.X, Y: in.Y})
	}
	if g.paused {
		g.frame = g.session.Snapshot()
	} else {
		g.frame = g.session.Tick()
	}
	if in.Copy {
		g.copyFrame()
	}
}

func (g *Game) copyFrame() {
	b, err := json.MarshalIndent(g.frame, "", "  ")
	if err == nil {
		err = g.copyFn(string(b))
	}
	if err != nil {
		g.logger.Warn("copy frame failed", log.Error(err))
		g.notice = "copy failed"
		return
	}
	g.notice = fmt.Sprintf("frame %d copied", g.frame.Tick)
}

// Frame is the frame drawn last.
func (g *Game) Frame() sim.Frame { return g.frame }

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	f := g.frame

	ex, ey := float32(f.Enemy.X), float32(f.Enemy.Y)
	vector.StrokeCircle(screen, ex, ey, float32(f.DetectionRadius), 1, colorRange, true)

	vector.FillCircle(screen, float32(f.Player.X), float32(f.Player.Y), agentRadius, colorPlayer, true)
	vector.FillCircle(screen, ex, ey, agentRadius, colorEnemy, true)

	bx, by := ex-barWidth/2, ey-barOffsetY
	vector.FillRect(screen, bx, by, barWidth, barHeight, colorBarBack, false)
	vector.FillRect(screen, bx, by, float32(HealthBarWidth(f)), barHeight, colorBarFill, false)
	vector.StrokeRect(screen, bx, by, barWidth, barHeight, 1, colorOutline, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(6, 4)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(colorHUD)
	text.Draw(screen, HUD(f, g.paused, g.notice), hudFace, op)
}

func (g *Game) Layout(_, _ int) (int, int) { return g.width, g.height }

// HealthBarWidth is the filled width of the health bar in pixels.
func HealthBarWidth(f sim.Frame) int {
	return int(f.HealthRatio() * barWidth)
}

// HUD renders the overlay text for f.
func HUD(f sim.Frame, paused bool, notice string) string {
	branch := f.Branch
	if branch == "" {
		branch = "-"
	}
	s := fmt.Sprintf("tick %d  %s  hp %d/%d", f.Tick, branch, f.EnemyHealth, f.MaxHealth)
	if paused {
		s += "  [paused]"
	}
	if notice != "" {
		s += "\n" + notice
	}
	return s
}
