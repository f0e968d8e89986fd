// Package editor 编辑会话
//
// Session 持有当前地图、调色板和界面状态，是输入系统和渲染系统
// 之间唯一的共享对象。所有方法都在 Ebitengine 的 Update 协程中调用。
package editor

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/decker502/tilemaker/pkg/game"
	"github.com/decker502/tilemaker/pkg/tilemap"
)

// Button 指针按键
type Button int

const (
	// ButtonPrimary 左键：绘制瓦片 / 设置碰撞
	ButtonPrimary Button = iota
	// ButtonSecondary 右键：清除瓦片 / 取消碰撞
	ButtonSecondary
)

// NewMapRequest 新建地图参数
// 图集必须已经解码，解码失败应在调用前以 ErrDecodeFailure 返回
type NewMapRequest struct {
	Atlas       image.Image
	TilesetPath string // 仅用于日志和设置记录
	TileWidth   int
	TileHeight  int
	Columns     int
	Rows        int
}

// Options 会话选项
type Options struct {
	Padding    int               // 调色板瓦片间距
	TileWidth  int               // 尚未加载图集时导入地图使用的瓦片宽度
	TileHeight int               // 尚未加载图集时导入地图使用的瓦片高度
	Exporter   *game.MapExporter // 为 nil 时使用当前目录
}

// Session 编辑会话
type Session struct {
	grid    *tilemap.TileGrid
	palette *tilemap.TilePalette

	mode Layer

	showTiles      bool
	showCollisions bool
	showGrid       bool

	hovering bool
	hoverCol int
	hoverRow int

	tilesetPath string
	defaultTW   int
	defaultTH   int
	exporter    *game.MapExporter

	status string
}

// Layer 绘制模式（tilemap.Layer 的别名，便于调用方只引用本包）
type Layer = tilemap.Layer

// NewSession 创建空会话
// 在 NewMap 或 Import 成功之前不能绘制
func NewSession(opts Options) *Session {
	exporter := opts.Exporter
	if exporter == nil {
		exporter = game.NewMapExporter("")
	}
	return &Session{
		palette:        tilemap.NewTilePalette(opts.Padding),
		mode:           tilemap.LayerNone,
		showTiles:      true,
		showCollisions: true,
		showGrid:       true,
		defaultTW:      opts.TileWidth,
		defaultTH:      opts.TileHeight,
		exporter:       exporter,
	}
}

// NewMap 加载图集并创建新地图
//
// 先完成全部校验再替换状态：任何失败都保持当前地图和调色板不变。
func (s *Session) NewMap(req NewMapRequest) error {
	if req.Atlas == nil {
		return s.fail(fmt.Errorf("%w: no atlas image", tilemap.ErrDecodeFailure))
	}

	palette := tilemap.NewTilePalette(s.palette.Padding())
	if err := palette.LoadAtlas(req.Atlas, req.TileWidth, req.TileHeight); err != nil {
		return s.fail(fmt.Errorf("failed to load tileset: %w", err))
	}
	grid, err := tilemap.NewTileGrid(req.Columns, req.Rows, req.TileWidth, req.TileHeight)
	if err != nil {
		return s.fail(fmt.Errorf("failed to create map: %w", err))
	}

	grid.SetTileSource(palette)
	s.grid = grid
	s.palette = palette
	s.tilesetPath = req.TilesetPath
	s.hovering = false

	log.Printf("[Session] New map %dx%d, tile %dx%d, tileset %q (%d tiles)",
		req.Columns, req.Rows, req.TileWidth, req.TileHeight, req.TilesetPath, palette.TileCount())
	s.setStatus(fmt.Sprintf("New map %dx%d", req.Columns, req.Rows))
	return nil
}

// CanDraw 是否已有地图
func (s *Session) CanDraw() bool {
	return s.grid != nil
}

// Grid 返回当前地图，尚未创建时为 nil
func (s *Session) Grid() *tilemap.TileGrid { return s.grid }

// Palette 返回当前调色板（可能尚未加载图集）
func (s *Session) Palette() *tilemap.TilePalette { return s.palette }

// TilesetPath 返回当前图集路径
func (s *Session) TilesetPath() string { return s.tilesetPath }

// Mode 返回当前绘制模式
func (s *Session) Mode() Layer { return s.mode }

// ToggleDrawMode 切换绘制模式，再次选择当前模式时回到 LayerNone
func (s *Session) ToggleDrawMode(target Layer) Layer {
	s.mode = s.mode.Toggle(target)
	s.setStatus("Draw mode: " + s.mode.String())
	return s.mode
}

// PointerPress 在地图像素坐标处按下指针
//
// 越界或尚无地图时静默忽略。瓦片模式下左键需要先选择画笔，
// 否则返回 ErrNoSelection。
func (s *Session) PointerPress(pixelX, pixelY int, button Button) error {
	if !s.CanDraw() {
		return nil
	}
	col, row, ok := s.grid.CellAt(pixelX, pixelY)
	if !ok {
		return nil
	}

	switch s.mode {
	case tilemap.LayerTile:
		if button == ButtonSecondary {
			s.grid.ClearTile(col, row)
			return nil
		}
		brush, ok := s.palette.Selection()
		if !ok {
			return s.fail(tilemap.ErrNoSelection)
		}
		s.grid.PaintTile(col, row, brush.ID)
	case tilemap.LayerCollision:
		s.grid.SetCollision(col, row, button == ButtonPrimary)
	}
	return nil
}

// PointerDrag 拖动时逐格应用与按下相同的操作
func (s *Session) PointerDrag(pixelX, pixelY int, button Button) error {
	s.Hover(pixelX, pixelY)
	return s.PointerPress(pixelX, pixelY, button)
}

// Hover 更新悬停格子（限制在地图范围内）
func (s *Session) Hover(pixelX, pixelY int) {
	if !s.CanDraw() {
		return
	}
	s.hoverCol, s.hoverRow = s.grid.ClampedCellAt(pixelX, pixelY)
	s.hovering = true
}

// ClearHover 指针离开地图区域
func (s *Session) ClearHover() {
	s.hovering = false
}

// HoverCell 返回悬停格子
func (s *Session) HoverCell() (col, row int, ok bool) {
	if !s.hovering || !s.CanDraw() {
		return 0, 0, false
	}
	return s.hoverCol, s.hoverRow, true
}

// AddColumn 在右侧增加一列
func (s *Session) AddColumn() bool { return s.resize("column", 1, 0) }

// RemoveColumn 删除最右侧一列
func (s *Session) RemoveColumn() bool { return s.resize("column", -1, 0) }

// AddRow 在底部增加一行
func (s *Session) AddRow() bool { return s.resize("row", 0, 1) }

// RemoveRow 删除最底部一行
func (s *Session) RemoveRow() bool { return s.resize("row", 0, -1) }

func (s *Session) resize(what string, dc, dr int) bool {
	if !s.CanDraw() {
		return false
	}
	var changed bool
	if dc != 0 {
		changed, _ = s.grid.ResizeColumns(dc)
	} else {
		changed, _ = s.grid.ResizeRows(dr)
	}
	if !changed {
		s.setStatus(fmt.Sprintf("Map size limit reached (%d..%d)", tilemap.MinColumns, tilemap.MaxColumns))
		return false
	}
	// 悬停格子可能已越界
	if s.hovering {
		s.hoverCol = min(s.hoverCol, s.grid.Columns()-1)
		s.hoverRow = min(s.hoverRow, s.grid.Rows()-1)
	}
	s.setStatus(fmt.Sprintf("Map %dx%d (%s %+d)", s.grid.Columns(), s.grid.Rows(), what, dc+dr))
	return true
}

// AutoFill 将所有非空瓦片格子设为阻挡，并打开碰撞层显示
func (s *Session) AutoFill() int {
	if !s.CanDraw() {
		return 0
	}
	n := s.grid.AutoFillCollision()
	s.showCollisions = true
	s.setStatus(fmt.Sprintf("Auto-fill: %d new blocked cells", n))
	return n
}

// SelectPalette 根据调色板面板像素坐标选择画笔
func (s *Session) SelectPalette(pixelX, pixelY int) bool {
	if !s.palette.SelectAt(pixelX, pixelY) {
		return false
	}
	brush, _ := s.palette.Selection()
	s.setStatus(fmt.Sprintf("Brush: tile %d", brush.ID))
	return true
}

// ViewFlags 返回三个视图开关
func (s *Session) ViewFlags() (tiles, collisions, grid bool) {
	return s.showTiles, s.showCollisions, s.showGrid
}

// SetViewFlags 设置视图开关（从保存的设置恢复）
func (s *Session) SetViewFlags(tiles, collisions, grid bool) {
	s.showTiles, s.showCollisions, s.showGrid = tiles, collisions, grid
}

// ToggleTileView 切换瓦片层显示
func (s *Session) ToggleTileView() bool {
	s.showTiles = !s.showTiles
	return s.showTiles
}

// ToggleCollisionView 切换碰撞层显示
func (s *Session) ToggleCollisionView() bool {
	s.showCollisions = !s.showCollisions
	return s.showCollisions
}

// ToggleGridView 切换网格线显示
func (s *Session) ToggleGridView() bool {
	s.showGrid = !s.showGrid
	return s.showGrid
}

// Export 导出地图到 name + ".txt"
func (s *Session) Export(name string) (string, error) {
	if !s.CanDraw() {
		return "", s.fail(errors.New("no map to export"))
	}
	path, err := s.exporter.Export(s.grid, name)
	if err != nil {
		return "", s.fail(err)
	}
	s.setStatus("Exported " + path)
	return path, nil
}

// Import 读取导出文件替换当前地图
//
// 瓦片尺寸沿用当前地图，其次是当前图集，最后是会话默认值。
// 失败时当前地图不变。
func (s *Session) Import(path string) error {
	tw, th := s.currentTileSize()
	grid, err := s.exporter.Import(path, tw, th)
	if err != nil {
		return s.fail(err)
	}
	if s.palette.Loaded() {
		grid.SetTileSource(s.palette)
	}
	s.grid = grid
	s.hovering = false
	s.setStatus(fmt.Sprintf("Imported %dx%d map", grid.Columns(), grid.Rows()))
	return nil
}

func (s *Session) currentTileSize() (int, int) {
	switch {
	case s.grid != nil:
		return s.grid.TileWidth(), s.grid.TileHeight()
	case s.palette.Loaded():
		return s.palette.TileWidth(), s.palette.TileHeight()
	default:
		return s.defaultTW, s.defaultTH
	}
}

// Status 返回状态栏消息
func (s *Session) Status() string { return s.status }

func (s *Session) setStatus(msg string) {
	s.status = msg
}

// ReportError 将会话外部的错误（如图集文件读取失败）显示到状态栏
func (s *Session) ReportError(err error) error {
	return s.fail(err)
}

// fail 记录错误到状态栏和日志，原样返回错误
func (s *Session) fail(err error) error {
	log.Printf("[Session] %v", err)
	s.status = "Error: " + err.Error()
	return err
}
