package systems

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/decker502/tilemaker/pkg/editor"
	"github.com/decker502/tilemaker/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 状态栏布局
const (
	statusMarginX  = 8.0
	statusLineGap  = 4.0
	statusFontSize = 13.0
)

// KeyHelp 快捷键提示（状态栏无消息时显示）
const KeyHelp = "[T] tiles  [C] collisions  [F] auto-fill  [E] export  [I] import  [ ] ] cols  [- =] rows  [1 2 3] views  [F11] fullscreen"

// StatusRenderSystem 绘制顶部状态栏
//
// 第一行：绘制模式、地图尺寸、画笔、视图开关
// 第二行：最近一条状态消息
type StatusRenderSystem struct {
	session    *editor.Session
	font       *text.GoTextFace
	width      int
	height     int
	background color.RGBA
	textColor  color.RGBA
}

// NewStatusRenderSystem 创建状态栏渲染系统
// font 为 nil 时退回 ebitenutil 的调试字体
func NewStatusRenderSystem(session *editor.Session, font *text.GoTextFace, width, height int, background, textColor color.RGBA) *StatusRenderSystem {
	return &StatusRenderSystem{
		session:    session,
		font:       font,
		width:      width,
		height:     height,
		background: background,
		textColor:  textColor,
	}
}

// Draw 绘制状态栏
func (s *StatusRenderSystem) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(s.width), float32(s.height), s.background, false)

	message := s.session.Status()
	if message == "" {
		message = KeyHelp
	}
	if s.font == nil {
		ebitenutil.DebugPrintAt(screen, StatusLine(s.session)+"\n"+message, int(statusMarginX), 2)
		return
	}

	maxWidth := float64(s.width) - 2*statusMarginX
	lineHeight := s.font.Size + statusLineGap

	for i, line := range []string{StatusLine(s.session), message} {
		op := &text.DrawOptions{}
		op.GeoM.Translate(statusMarginX, statusLineGap+float64(i)*lineHeight)
		op.ColorScale.ScaleWithColor(s.textColor)
		text.Draw(screen, utils.FitText(line, s.font, maxWidth), s.font, op)
	}
}

// StatusLine 返回状态栏第一行文本
func StatusLine(session *editor.Session) string {
	var parts []string
	parts = append(parts, "Mode: "+session.Mode().String())

	if grid := session.Grid(); grid != nil {
		parts = append(parts, fmt.Sprintf("Map %dx%d @ %dx%d", grid.Columns(), grid.Rows(), grid.TileWidth(), grid.TileHeight()))
		if col, row, ok := session.HoverCell(); ok {
			parts = append(parts, fmt.Sprintf("Cell (%d, %d) tile %d", col, row, grid.TileAt(col, row)))
		}
	} else {
		parts = append(parts, "No map")
	}

	if brush, ok := session.Palette().Selection(); ok {
		parts = append(parts, fmt.Sprintf("Brush %d", brush.ID))
	} else {
		parts = append(parts, "Brush -")
	}

	tiles, collisions, gridLines := session.ViewFlags()
	parts = append(parts, "View "+viewFlag("T", tiles)+viewFlag("C", collisions)+viewFlag("G", gridLines))
	return strings.Join(parts, " | ")
}

func viewFlag(name string, on bool) string {
	if on {
		return name
	}
	return "-"
}
