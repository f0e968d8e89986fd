package systems

import (
	"log"

	"github.com/decker502/tilemaker/pkg/editor"
	"github.com/decker502/tilemaker/pkg/tilemap"
	"github.com/decker502/tilemaker/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// InputSource 每帧输入的来源
// 运行时由 utils.EbitenInput 实现，测试中使用假实现
type InputSource interface {
	CursorPosition() (int, int)
	IsMouseButtonPressed(button ebiten.MouseButton) bool
	IsMouseButtonJustPressed(button ebiten.MouseButton) bool
	IsKeyJustPressed(key ebiten.Key) bool
	IsKeyPressed(key ebiten.Key) bool
	Wheel() (float64, float64)
}

// Command 需要场景处理的请求（涉及文件名和设置）
type Command int

const (
	CommandNone Command = iota
	CommandExport
	CommandImport
)

// 键盘工具栏
var (
	keyDrawTiles      = ebiten.KeyT
	keyDrawCollisions = ebiten.KeyC
	keyAutoFill       = ebiten.KeyF
	keyExport         = ebiten.KeyE
	keyImport         = ebiten.KeyI
	keyAddColumn      = ebiten.KeyBracketRight
	keyRemoveColumn   = ebiten.KeyBracketLeft
	keyAddRow         = ebiten.KeyEqual
	keyRemoveRow      = ebiten.KeyMinus
	keyToggleTiles    = ebiten.KeyDigit1
	keyToggleCollide  = ebiten.KeyDigit2
	keyToggleGrid     = ebiten.KeyDigit3
)

// InputSystem 将鼠标和键盘输入转换为会话操作
//
// 地图区域：左键绘制/设置碰撞，右键清除/取消碰撞，按住拖动连续绘制。
// 调色板区域：左键选择画笔。
// 滚轮滚动指针所在的区域，方向键滚动地图。
type InputSystem struct {
	input       InputSource
	session     *editor.Session
	mapView     *utils.Viewport
	paletteView *utils.Viewport
	scrollSpeed float64

	dragging   bool
	dragButton editor.Button
	lastCol    int
	lastRow    int
}

// NewInputSystem 创建输入系统
func NewInputSystem(input InputSource, session *editor.Session, mapView, paletteView *utils.Viewport, scrollSpeed float64) *InputSystem {
	return &InputSystem{
		input:       input,
		session:     session,
		mapView:     mapView,
		paletteView: paletteView,
		scrollSpeed: scrollSpeed,
	}
}

// Update 处理本帧输入
//
// 返回：
//   - Command: 需要场景处理的导出/导入请求
func (s *InputSystem) Update() Command {
	cmd := s.handleKeys()
	s.handleScroll()
	s.handlePointer()
	return cmd
}

func (s *InputSystem) handleKeys() Command {
	in := s.input

	switch {
	case in.IsKeyJustPressed(keyDrawTiles):
		s.session.ToggleDrawMode(tilemap.LayerTile)
	case in.IsKeyJustPressed(keyDrawCollisions):
		s.session.ToggleDrawMode(tilemap.LayerCollision)
	case in.IsKeyJustPressed(keyAutoFill):
		s.session.AutoFill()
	case in.IsKeyJustPressed(keyAddColumn):
		s.session.AddColumn()
	case in.IsKeyJustPressed(keyRemoveColumn):
		s.session.RemoveColumn()
		s.clampMapScroll()
	case in.IsKeyJustPressed(keyAddRow):
		s.session.AddRow()
	case in.IsKeyJustPressed(keyRemoveRow):
		s.session.RemoveRow()
		s.clampMapScroll()
	case in.IsKeyJustPressed(keyToggleTiles):
		s.session.ToggleTileView()
	case in.IsKeyJustPressed(keyToggleCollide):
		s.session.ToggleCollisionView()
	case in.IsKeyJustPressed(keyToggleGrid):
		s.session.ToggleGridView()
	case in.IsKeyJustPressed(keyExport):
		return CommandExport
	case in.IsKeyJustPressed(keyImport):
		return CommandImport
	}
	return CommandNone
}

func (s *InputSystem) handleScroll() {
	dx, dy := 0.0, 0.0
	if s.input.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		dx -= s.scrollSpeed
	}
	if s.input.IsKeyJustPressed(ebiten.KeyArrowRight) {
		dx += s.scrollSpeed
	}
	if s.input.IsKeyJustPressed(ebiten.KeyArrowUp) {
		dy -= s.scrollSpeed
	}
	if s.input.IsKeyJustPressed(ebiten.KeyArrowDown) {
		dy += s.scrollSpeed
	}
	if dx != 0 || dy != 0 {
		s.scrollMap(dx, dy)
	}

	wx, wy := s.input.Wheel()
	if wx == 0 && wy == 0 {
		return
	}
	// 滚轮向上为正，内容向下滚动为正
	dx, dy = -wx*s.scrollSpeed, -wy*s.scrollSpeed
	if s.input.IsKeyPressed(ebiten.KeyShift) {
		dx, dy = dy, dx
	}

	x, y := s.input.CursorPosition()
	switch {
	case s.paletteView.Contains(x, y):
		w, h := s.session.Palette().LayoutSize()
		s.paletteView.Scroll(dx, dy, w, h)
	case s.mapView.Contains(x, y):
		s.scrollMap(dx, dy)
	}
}

func (s *InputSystem) scrollMap(dx, dy float64) {
	grid := s.session.Grid()
	if grid == nil {
		return
	}
	w, h := grid.PixelSize()
	s.mapView.Scroll(dx, dy, w, h)
}

func (s *InputSystem) clampMapScroll() {
	s.scrollMap(0, 0)
}

func (s *InputSystem) handlePointer() {
	x, y := s.input.CursorPosition()
	leftDown := s.input.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	rightDown := s.input.IsMouseButtonPressed(ebiten.MouseButtonRight)

	if s.dragging && !s.isDown(s.dragButton, leftDown, rightDown) {
		s.dragging = false
	}

	if s.paletteView.Contains(x, y) {
		s.session.ClearHover()
		if s.input.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			px, py, _ := s.paletteView.ScreenToContent(x, y)
			s.session.SelectPalette(px, py)
		}
		return
	}

	mx, my, inside := s.mapView.ScreenToContent(x, y)
	if !inside {
		s.session.ClearHover()
		return
	}
	s.session.Hover(mx, my)

	switch {
	case s.input.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		s.press(mx, my, editor.ButtonPrimary)
	case s.input.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		s.press(mx, my, editor.ButtonSecondary)
	case s.dragging:
		s.apply(mx, my)
	}
}

func (s *InputSystem) isDown(button editor.Button, leftDown, rightDown bool) bool {
	if button == editor.ButtonPrimary {
		return leftDown
	}
	return rightDown
}

func (s *InputSystem) press(mx, my int, button editor.Button) {
	s.dragging = true
	s.dragButton = button
	s.lastCol, s.lastRow = -1, -1
	s.apply(mx, my)
}

// apply 只在进入新格子时应用操作
func (s *InputSystem) apply(mx, my int) {
	grid := s.session.Grid()
	if grid == nil {
		return
	}
	col, row, ok := grid.CellAt(mx, my)
	if !ok || (col == s.lastCol && row == s.lastRow) {
		return
	}
	s.lastCol, s.lastRow = col, row

	if err := s.session.PointerDrag(mx, my, s.dragButton); err != nil {
		// 未选择画笔时停止本次拖动，避免每格重复报错
		log.Printf("[InputSystem] Drag cancelled: %v", err)
		s.dragging = false
	}
}
