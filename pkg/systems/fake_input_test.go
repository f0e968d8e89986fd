package systems

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// fakeInput 测试用输入源
// 每个测试帧前设置按键状态，调用 nextFrame 清除"刚按下"状态
type fakeInput struct {
	x, y           int
	pressed        map[ebiten.MouseButton]bool
	justPressed    map[ebiten.MouseButton]bool
	keys           map[ebiten.Key]bool
	justKeys       map[ebiten.Key]bool
	wheelX, wheelY float64
}

func newFakeInput() *fakeInput {
	return &fakeInput{
		pressed:     make(map[ebiten.MouseButton]bool),
		justPressed: make(map[ebiten.MouseButton]bool),
		keys:        make(map[ebiten.Key]bool),
		justKeys:    make(map[ebiten.Key]bool),
	}
}

func (f *fakeInput) CursorPosition() (int, int) { return f.x, f.y }

func (f *fakeInput) IsMouseButtonPressed(b ebiten.MouseButton) bool { return f.pressed[b] }

func (f *fakeInput) IsMouseButtonJustPressed(b ebiten.MouseButton) bool { return f.justPressed[b] }

func (f *fakeInput) IsKeyJustPressed(k ebiten.Key) bool { return f.justKeys[k] }

func (f *fakeInput) IsKeyPressed(k ebiten.Key) bool { return f.keys[k] }

func (f *fakeInput) Wheel() (float64, float64) { return f.wheelX, f.wheelY }

// moveTo 移动指针
func (f *fakeInput) moveTo(x, y int) {
	f.x, f.y = x, y
}

// press 按下鼠标按键（本帧为"刚按下"）
func (f *fakeInput) press(b ebiten.MouseButton) {
	f.pressed[b] = true
	f.justPressed[b] = true
}

// release 松开鼠标按键
func (f *fakeInput) release(b ebiten.MouseButton) {
	f.pressed[b] = false
	f.justPressed[b] = false
}

// tapKey 本帧按下一次按键
func (f *fakeInput) tapKey(k ebiten.Key) {
	f.justKeys[k] = true
}

// nextFrame 清除本帧的瞬时状态
func (f *fakeInput) nextFrame() {
	clear(f.justPressed)
	clear(f.justKeys)
	f.wheelX, f.wheelY = 0, 0
}
