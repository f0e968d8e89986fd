package systems

import (
	"image/color"

	"github.com/decker502/tilemaker/pkg/editor"
	"github.com/decker502/tilemaker/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// PaletteRenderSystem 绘制右侧调色板面板
// 灰色背景，瓦片按 (瓦片尺寸 + 间距) 排列，选中的瓦片用青色框标出
type PaletteRenderSystem struct {
	session    *editor.Session
	view       *utils.Viewport
	atlas      *AtlasCache
	background color.RGBA
	selection  color.RGBA
}

// NewPaletteRenderSystem 创建调色板渲染系统
func NewPaletteRenderSystem(session *editor.Session, view *utils.Viewport, atlas *AtlasCache, background, selection color.RGBA) *PaletteRenderSystem {
	return &PaletteRenderSystem{
		session:    session,
		view:       view,
		atlas:      atlas,
		background: background,
		selection:  selection,
	}
}

// Draw 绘制调色板面板
func (s *PaletteRenderSystem) Draw(screen *ebiten.Image) {
	v := s.view
	vector.DrawFilledRect(screen, float32(v.X), float32(v.Y), float32(v.Width), float32(v.Height), s.background, false)

	palette := s.session.Palette()
	if !palette.Loaded() {
		return
	}
	dst := screen.SubImage(rectOf(v)).(*ebiten.Image)

	for row := 0; row < palette.Rows(); row++ {
		for col := 0; col < palette.Columns(); col++ {
			tile := s.atlas.Tile(palette, palette.TileID(col, row))
			if tile == nil {
				continue
			}
			x, y := s.tileScreenOrigin(col, row)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(x, y)
			dst.DrawImage(tile, op)
		}
	}

	if x, y, w, h, ok := s.selectionBox(); ok {
		vector.StrokeRect(dst, x, y, w, h, 2, s.selection, false)
	}
}

func (s *PaletteRenderSystem) tileScreenOrigin(col, row int) (float64, float64) {
	px, py := s.session.Palette().TileOrigin(col, row)
	return s.view.ContentToScreen(float64(px), float64(py))
}

// selectionBox 返回选中瓦片的屏幕矩形
func (s *PaletteRenderSystem) selectionBox() (x, y, w, h float32, ok bool) {
	palette := s.session.Palette()
	brush, ok := palette.Selection()
	if !ok {
		return 0, 0, 0, 0, false
	}
	sx, sy := s.tileScreenOrigin(brush.Col, brush.Row)
	return float32(sx), float32(sy), float32(palette.TileWidth()), float32(palette.TileHeight()), true
}
