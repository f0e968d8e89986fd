package systems

import (
	"image"
	"testing"

	"github.com/decker502/tilemaker/pkg/editor"
	"github.com/decker502/tilemaker/pkg/tilemap"
	"github.com/decker502/tilemaker/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// 与默认配置相同的布局：状态栏 40，地图 800x600，调色板 256x600
const (
	testToolbar  = 40
	testPaletteX = 800
)

type inputFixture struct {
	input   *fakeInput
	session *editor.Session
	mapView *utils.Viewport
	palView *utils.Viewport
	system  *InputSystem
}

func newInputFixture(t *testing.T, columns, rows int) *inputFixture {
	t.Helper()
	session := editor.NewSession(editor.Options{Padding: 5})
	err := session.NewMap(editor.NewMapRequest{
		Atlas:      image.NewRGBA(image.Rect(0, 0, 4*32, 2*32)),
		TileWidth:  32,
		TileHeight: 32,
		Columns:    columns,
		Rows:       rows,
	})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}

	f := &inputFixture{
		input:   newFakeInput(),
		session: session,
		mapView: utils.NewViewport(0, testToolbar, testPaletteX, 600),
		palView: utils.NewViewport(testPaletteX, testToolbar, 256, 600),
	}
	f.system = NewInputSystem(f.input, session, f.mapView, f.palView, 32)
	return f
}

// frame 执行一帧并清除瞬时输入
func (f *inputFixture) frame() Command {
	cmd := f.system.Update()
	f.input.nextFrame()
	return cmd
}

// selectBrush 在调色板上点击第 col 个瓦片
func (f *inputFixture) selectBrush(col int) {
	f.input.moveTo(testPaletteX+col*37+1, testToolbar+1)
	f.input.press(ebiten.MouseButtonLeft)
	f.frame()
	f.input.release(ebiten.MouseButtonLeft)
	f.frame()
}

func TestInputSystem_KeyboardToolbar(t *testing.T) {
	f := newInputFixture(t, 4, 3)

	steps := []struct {
		name  string
		key   ebiten.Key
		check func(t *testing.T)
	}{
		{"T 切换到瓦片模式", ebiten.KeyT, func(t *testing.T) {
			if f.session.Mode() != tilemap.LayerTile {
				t.Errorf("mode = %v", f.session.Mode())
			}
		}},
		{"C 切换到碰撞模式", ebiten.KeyC, func(t *testing.T) {
			if f.session.Mode() != tilemap.LayerCollision {
				t.Errorf("mode = %v", f.session.Mode())
			}
		}},
		{"再次 C 回到无模式", ebiten.KeyC, func(t *testing.T) {
			if f.session.Mode() != tilemap.LayerNone {
				t.Errorf("mode = %v", f.session.Mode())
			}
		}},
		{"] 增加一列", ebiten.KeyBracketRight, func(t *testing.T) {
			if f.session.Grid().Columns() != 5 {
				t.Errorf("columns = %d", f.session.Grid().Columns())
			}
		}},
		{"[ 删除一列", ebiten.KeyBracketLeft, func(t *testing.T) {
			if f.session.Grid().Columns() != 4 {
				t.Errorf("columns = %d", f.session.Grid().Columns())
			}
		}},
		{"= 增加一行", ebiten.KeyEqual, func(t *testing.T) {
			if f.session.Grid().Rows() != 4 {
				t.Errorf("rows = %d", f.session.Grid().Rows())
			}
		}},
		{"- 删除一行", ebiten.KeyMinus, func(t *testing.T) {
			if f.session.Grid().Rows() != 3 {
				t.Errorf("rows = %d", f.session.Grid().Rows())
			}
		}},
		{"3 隐藏网格", ebiten.KeyDigit3, func(t *testing.T) {
			if _, _, grid := f.session.ViewFlags(); grid {
				t.Error("grid view should be hidden")
			}
		}},
		{"2 隐藏碰撞层", ebiten.KeyDigit2, func(t *testing.T) {
			if _, collisions, _ := f.session.ViewFlags(); collisions {
				t.Error("collision view should be hidden")
			}
		}},
		{"F 自动填充并显示碰撞层", ebiten.KeyF, func(t *testing.T) {
			if _, collisions, _ := f.session.ViewFlags(); !collisions {
				t.Error("auto-fill should show the collision view")
			}
		}},
	}

	f.input.moveTo(-100, -100)
	for _, step := range steps {
		f.input.tapKey(step.key)
		if cmd := f.frame(); cmd != CommandNone {
			t.Errorf("%s: command = %v", step.name, cmd)
		}
		t.Run(step.name, step.check)
	}
}

func TestInputSystem_Commands(t *testing.T) {
	f := newInputFixture(t, 4, 3)

	f.input.tapKey(ebiten.KeyE)
	if cmd := f.frame(); cmd != CommandExport {
		t.Errorf("E: command = %v, want CommandExport", cmd)
	}
	f.input.tapKey(ebiten.KeyI)
	if cmd := f.frame(); cmd != CommandImport {
		t.Errorf("I: command = %v, want CommandImport", cmd)
	}
	if cmd := f.frame(); cmd != CommandNone {
		t.Errorf("idle frame: command = %v", cmd)
	}
}

func TestInputSystem_PaintAndDrag(t *testing.T) {
	f := newInputFixture(t, 4, 3)
	f.selectBrush(1)
	f.input.tapKey(ebiten.KeyT)
	f.frame()

	// 按下 (1, 1)
	f.input.moveTo(40, testToolbar+40)
	f.input.press(ebiten.MouseButtonLeft)
	f.frame()
	if got := f.session.Grid().TileAt(1, 1); got != 1 {
		t.Fatalf("TileAt(1,1) = %d, want 1", got)
	}

	// 按住拖到 (2, 1)
	f.input.moveTo(72, testToolbar+40)
	f.frame()
	if got := f.session.Grid().TileAt(2, 1); got != 1 {
		t.Errorf("drag: TileAt(2,1) = %d, want 1", got)
	}

	// 松开后移动不再绘制
	f.input.release(ebiten.MouseButtonLeft)
	f.input.moveTo(104, testToolbar+40)
	f.frame()
	if got := f.session.Grid().TileAt(3, 1); got != tilemap.EmptyTile {
		t.Errorf("after release: TileAt(3,1) = %d, want empty", got)
	}

	// 右键清除
	f.input.moveTo(40, testToolbar+40)
	f.input.press(ebiten.MouseButtonRight)
	f.frame()
	if got := f.session.Grid().TileAt(1, 1); got != tilemap.EmptyTile {
		t.Errorf("right click: TileAt(1,1) = %d, want empty", got)
	}
}

func TestInputSystem_CollisionDrag(t *testing.T) {
	f := newInputFixture(t, 4, 3)
	f.input.tapKey(ebiten.KeyC)
	f.frame()

	f.input.moveTo(1, testToolbar+1)
	f.input.press(ebiten.MouseButtonLeft)
	f.frame()
	for _, x := range []int{33, 65, 97} {
		f.input.moveTo(x, testToolbar+1)
		f.frame()
	}

	for col := 0; col < 4; col++ {
		if !f.session.Grid().IsBlocked(col, 0) {
			t.Errorf("cell (%d, 0) should be blocked", col)
		}
	}
	if f.session.Grid().IsBlocked(0, 1) {
		t.Error("cell (0, 1) should be passable")
	}
}

func TestInputSystem_DragWithoutBrushStops(t *testing.T) {
	f := newInputFixture(t, 4, 3)
	f.input.tapKey(ebiten.KeyT)
	f.frame()

	f.input.moveTo(1, testToolbar+1)
	f.input.press(ebiten.MouseButtonLeft)
	f.frame()
	if f.system.dragging {
		t.Error("drag should stop when no brush is selected")
	}
}

func TestInputSystem_Hover(t *testing.T) {
	f := newInputFixture(t, 4, 3)

	f.input.moveTo(70, testToolbar+70)
	f.frame()
	if col, row, ok := f.session.HoverCell(); !ok || col != 2 || row != 2 {
		t.Errorf("HoverCell = (%d, %d, %v), want (2, 2, true)", col, row, ok)
	}

	// 移到状态栏
	f.input.moveTo(70, 10)
	f.frame()
	if _, _, ok := f.session.HoverCell(); ok {
		t.Error("hover should clear when the pointer leaves the map")
	}

	// 移到调色板
	f.input.moveTo(70, testToolbar+70)
	f.frame()
	f.input.moveTo(testPaletteX+10, testToolbar+10)
	f.frame()
	if _, _, ok := f.session.HoverCell(); ok {
		t.Error("hover should clear over the palette")
	}
}

func TestInputSystem_Scroll(t *testing.T) {
	f := newInputFixture(t, 40, 30) // 1280x960 大于视口

	f.input.tapKey(ebiten.KeyArrowRight)
	f.input.tapKey(ebiten.KeyArrowDown)
	f.frame()
	if f.mapView.ScrollX != 32 || f.mapView.ScrollY != 32 {
		t.Fatalf("scroll = (%v, %v), want (32, 32)", f.mapView.ScrollX, f.mapView.ScrollY)
	}

	// 滚轮向下滚动地图
	f.input.moveTo(100, 100)
	f.input.wheelY = -2
	f.frame()
	if f.mapView.ScrollY != 96 {
		t.Errorf("wheel scrollY = %v, want 96", f.mapView.ScrollY)
	}

	// 滚动后指针坐标按内容坐标计算
	f.input.tapKey(ebiten.KeyC)
	f.frame()
	f.input.moveTo(0, testToolbar)
	f.input.press(ebiten.MouseButtonLeft)
	f.frame()
	if !f.session.Grid().IsBlocked(1, 3) {
		t.Error("click at viewport origin should hit cell (1, 3) after scrolling")
	}

	// 调色板内容小于面板，滚轮不生效
	f.input.release(ebiten.MouseButtonLeft)
	f.input.moveTo(testPaletteX+10, testToolbar+10)
	f.input.wheelY = -3
	f.frame()
	if f.palView.ScrollY != 0 {
		t.Errorf("palette scrollY = %v, want 0", f.palView.ScrollY)
	}
}

func TestInputSystem_ShrinkClampsScroll(t *testing.T) {
	f := newInputFixture(t, 27, 3) // 864px，最多滚动 64
	f.input.tapKey(ebiten.KeyArrowRight)
	f.frame()
	f.input.tapKey(ebiten.KeyArrowRight)
	f.frame()
	if f.mapView.ScrollX != 64 {
		t.Fatalf("scrollX = %v, want 64", f.mapView.ScrollX)
	}

	f.input.tapKey(ebiten.KeyBracketLeft)
	f.frame()
	if f.mapView.ScrollX != 32 {
		t.Errorf("after removing a column scrollX = %v, want 32", f.mapView.ScrollX)
	}
}
