package utils

// Viewport 窗口中的矩形绘制区域（地图区域或调色板区域）
// 内容在区域内按 ScrollX/ScrollY 偏移显示
type Viewport struct {
	X, Y          int
	Width, Height int

	ScrollX float64
	ScrollY float64
}

// NewViewport 创建视口
func NewViewport(x, y, width, height int) *Viewport {
	return &Viewport{X: x, Y: y, Width: width, Height: height}
}

// Contains 检查屏幕坐标是否落在视口内
func (v *Viewport) Contains(screenX, screenY int) bool {
	return screenX >= v.X && screenX < v.X+v.Width &&
		screenY >= v.Y && screenY < v.Y+v.Height
}

// ScreenToContent 将屏幕坐标转换为内容像素坐标（考虑滚动）
//
// 返回：
//   - contentX, contentY: 内容坐标（可能为负或超出内容范围）
//   - inside: 屏幕坐标是否在视口内
func (v *Viewport) ScreenToContent(screenX, screenY int) (contentX, contentY int, inside bool) {
	contentX = screenX - v.X + int(v.ScrollX)
	contentY = screenY - v.Y + int(v.ScrollY)
	return contentX, contentY, v.Contains(screenX, screenY)
}

// ContentToScreen 将内容像素坐标转换为屏幕坐标
func (v *Viewport) ContentToScreen(contentX, contentY float64) (screenX, screenY float64) {
	return contentX + float64(v.X) - v.ScrollX, contentY + float64(v.Y) - v.ScrollY
}

// Scroll 按增量滚动并限制在内容范围内
//
// 参数：
//   - dx, dy: 滚动增量（像素）
//   - contentWidth, contentHeight: 内容总尺寸
func (v *Viewport) Scroll(dx, dy float64, contentWidth, contentHeight int) {
	v.ScrollX = ClampScroll(v.ScrollX+dx, contentWidth, v.Width)
	v.ScrollY = ClampScroll(v.ScrollY+dy, contentHeight, v.Height)
}

// Clamp 在内容尺寸变化后（如删除行列）重新限制滚动位置
func (v *Viewport) Clamp(contentWidth, contentHeight int) {
	v.Scroll(0, 0, contentWidth, contentHeight)
}

// ClampScroll 将滚动位置限制在 [0, content-view]
// 内容小于视口时滚动位置为 0
func ClampScroll(scroll float64, content, view int) float64 {
	maxScroll := float64(content - view)
	if maxScroll <= 0 || scroll < 0 {
		return 0
	}
	if scroll > maxScroll {
		return maxScroll
	}
	return scroll
}

// CellRect 返回格子在内容坐标中的矩形（左上角和尺寸）
func CellRect(col, row, cellWidth, cellHeight int) (x, y, w, h float64) {
	return float64(col * cellWidth), float64(row * cellHeight), float64(cellWidth), float64(cellHeight)
}

// VisibleCells 返回视口中可见的格子范围 [minCol, maxCol) x [minRow, maxRow)
// 渲染时只绘制这部分格子
func (v *Viewport) VisibleCells(cellWidth, cellHeight, columns, rows int) (minCol, minRow, maxCol, maxRow int) {
	if cellWidth <= 0 || cellHeight <= 0 {
		return 0, 0, 0, 0
	}
	minCol = max(int(v.ScrollX)/cellWidth, 0)
	minRow = max(int(v.ScrollY)/cellHeight, 0)
	maxCol = min((int(v.ScrollX)+v.Width+cellWidth-1)/cellWidth, columns)
	maxRow = min((int(v.ScrollY)+v.Height+cellHeight-1)/cellHeight, rows)
	return minCol, minRow, maxCol, maxRow
}
