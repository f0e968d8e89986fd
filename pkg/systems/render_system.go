package systems

import (
	"image"
	"image/color"

	"github.com/decker502/tilemaker/pkg/editor"
	"github.com/decker502/tilemaker/pkg/tilemap"
	"github.com/decker502/tilemaker/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RenderColors 地图区域使用的颜色
type RenderColors struct {
	Background color.RGBA
	Grid       color.RGBA
	Collision  color.RGBA
	Selection  color.RGBA
}

// collisionAlpha 碰撞层和画笔预览的透明度
const collisionAlpha = 0.5

// tileDraw 一个待绘制的瓦片
type tileDraw struct {
	ID   int
	X, Y float64 // 屏幕坐标
}

// cellBox 一个待绘制的格子矩形（屏幕坐标）
type cellBox struct {
	X, Y, W, H float32
}

// RenderSystem 绘制地图区域
//
// 绘制顺序：背景 → 瓦片层 → 碰撞层（半透明红色）→ 画笔预览 → 网格线。
// 只绘制视口中可见的格子。
type RenderSystem struct {
	session *editor.Session
	view    *utils.Viewport
	atlas   *AtlasCache
	colors  RenderColors
}

// NewRenderSystem 创建地图渲染系统
func NewRenderSystem(session *editor.Session, view *utils.Viewport, atlas *AtlasCache, colors RenderColors) *RenderSystem {
	return &RenderSystem{
		session: session,
		view:    view,
		atlas:   atlas,
		colors:  colors,
	}
}

// Draw 绘制地图区域
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	v := s.view
	vector.DrawFilledRect(screen, float32(v.X), float32(v.Y), float32(v.Width), float32(v.Height), s.colors.Background, false)

	grid := s.session.Grid()
	if grid == nil {
		return
	}

	// 在子图上绘制，超出视口的部分自动裁剪
	dst := screen.SubImage(rectOf(v)).(*ebiten.Image)
	showTiles, showCollisions, showGrid := s.session.ViewFlags()

	if showTiles {
		for _, d := range s.visibleTiles() {
			s.drawTile(dst, d.ID, d.X, d.Y, 1)
		}
	}
	if showCollisions {
		overlay := withAlpha(s.colors.Collision, collisionAlpha)
		for _, b := range s.blockedCells() {
			vector.DrawFilledRect(dst, b.X, b.Y, b.W, b.H, overlay, false)
		}
	}
	s.drawPreview(dst)
	if showGrid {
		s.drawGridLines(dst, grid)
	}
}

// visibleTiles 返回可见范围内的非空瓦片
func (s *RenderSystem) visibleTiles() []tileDraw {
	grid := s.session.Grid()
	tw, th := grid.TileWidth(), grid.TileHeight()
	minCol, minRow, maxCol, maxRow := s.view.VisibleCells(tw, th, grid.Columns(), grid.Rows())

	var draws []tileDraw
	for row := minRow; row < maxRow; row++ {
		for col := minCol; col < maxCol; col++ {
			id := grid.TileAt(col, row)
			if id == tilemap.EmptyTile {
				continue
			}
			x, y := s.cellScreenOrigin(col, row)
			draws = append(draws, tileDraw{ID: id, X: x, Y: y})
		}
	}
	return draws
}

// blockedCells 返回可见范围内被阻挡的格子
func (s *RenderSystem) blockedCells() []cellBox {
	grid := s.session.Grid()
	tw, th := grid.TileWidth(), grid.TileHeight()
	minCol, minRow, maxCol, maxRow := s.view.VisibleCells(tw, th, grid.Columns(), grid.Rows())

	var boxes []cellBox
	for row := minRow; row < maxRow; row++ {
		for col := minCol; col < maxCol; col++ {
			if grid.IsBlocked(col, row) {
				boxes = append(boxes, s.cellBox(col, row))
			}
		}
	}
	return boxes
}

func (s *RenderSystem) cellScreenOrigin(col, row int) (float64, float64) {
	grid := s.session.Grid()
	cx, cy, _, _ := utils.CellRect(col, row, grid.TileWidth(), grid.TileHeight())
	return s.view.ContentToScreen(cx, cy)
}

func (s *RenderSystem) cellBox(col, row int) cellBox {
	grid := s.session.Grid()
	x, y := s.cellScreenOrigin(col, row)
	return cellBox{X: float32(x), Y: float32(y), W: float32(grid.TileWidth()), H: float32(grid.TileHeight())}
}

func (s *RenderSystem) drawTile(dst *ebiten.Image, id int, x, y float64, alpha float32) {
	tile := s.atlas.Tile(s.session.Palette(), id)
	if tile == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(alpha)
	dst.DrawImage(tile, op)
}

// drawPreview 绘制悬停格子上的画笔预览
// 瓦片模式显示半透明画笔，碰撞模式显示红框，未绘制时显示选择色细框
func (s *RenderSystem) drawPreview(dst *ebiten.Image) {
	col, row, ok := s.session.HoverCell()
	if !ok {
		return
	}
	box := s.cellBox(col, row)

	switch s.session.Mode() {
	case tilemap.LayerTile:
		if brush, ok := s.session.Palette().Selection(); ok {
			s.drawTile(dst, brush.ID, float64(box.X), float64(box.Y), collisionAlpha)
		}
		vector.StrokeRect(dst, box.X, box.Y, box.W, box.H, 1, s.colors.Selection, false)
	case tilemap.LayerCollision:
		vector.StrokeRect(dst, box.X, box.Y, box.W, box.H, 2, s.colors.Collision, false)
	default:
		vector.StrokeRect(dst, box.X, box.Y, box.W, box.H, 1, s.colors.Selection, false)
	}
}

// drawGridLines 绘制外框和格子分隔线
func (s *RenderSystem) drawGridLines(dst *ebiten.Image, grid *tilemap.TileGrid) {
	w, h := grid.PixelSize()
	ox, oy := s.view.ContentToScreen(0, 0)
	x0, y0 := float32(ox), float32(oy)

	for _, x := range gridLineOffsets(grid.Columns(), grid.TileWidth()) {
		vector.StrokeLine(dst, x0+x, y0, x0+x, y0+float32(h), 1, s.colors.Grid, false)
	}
	for _, y := range gridLineOffsets(grid.Rows(), grid.TileHeight()) {
		vector.StrokeLine(dst, x0, y0+y, x0+float32(w), y0+y, 1, s.colors.Grid, false)
	}
	vector.StrokeRect(dst, x0, y0, float32(w), float32(h), 1, s.colors.Grid, false)
}

// gridLineOffsets 返回内部分隔线相对地图原点的偏移（不含外框）
func gridLineOffsets(count, size int) []float32 {
	if count < 2 {
		return nil
	}
	offsets := make([]float32, 0, count-1)
	for i := 1; i < count; i++ {
		offsets = append(offsets, float32(i*size))
	}
	return offsets
}

func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	// 预乘 alpha
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

// rectOf 返回视口的屏幕矩形
func rectOf(v *utils.Viewport) image.Rectangle {
	return image.Rect(v.X, v.Y, v.X+v.Width, v.Y+v.Height)
}
