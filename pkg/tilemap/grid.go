// Package tilemap 提供瓦片地图编辑器的核心数据模型
//
// 包含两个组件：
//   - TileGrid：可编辑地图（瓦片层 + 碰撞层），负责绘制、调整尺寸、自动填充和导出
//   - TilePalette：图集切片和画笔选择
//
// 本包不依赖任何渲染库，图片统一使用标准库 image.Image 接口，
// 渲染层（pkg/systems）负责转换为 Ebitengine 图片。
package tilemap

import (
	"fmt"
	"image"
)

// 网格尺寸边界
const (
	MinColumns = 2
	MinRows    = 2
	MaxColumns = 1024
	MaxRows    = 1024
)

// 单元格取值
const (
	EmptyTile = 0 // 空瓦片 ID
	Passable  = 0 // 可通行
	Blocked   = 1 // 阻挡
)

// TileSource 根据瓦片 ID 查找瓦片图片
// TilePalette 实现此接口；图片严格由 (id, 当前图集) 推导
type TileSource interface {
	TileImage(id int) (image.Image, bool)
}

// TileGrid 可编辑的瓦片地图
//
// 两个图层始终保持相同的 rows x columns 形状：
//   - tiles[row][col]: 瓦片 ID，0 表示空
//   - collisions[row][col]: 1 阻挡，0 可通行
//
// 每格的瓦片图片不单独存储，通过 TileSource 由 ID 推导，
// 避免 ID 与图片缓存不同步。
type TileGrid struct {
	columns    int
	rows       int
	tileWidth  int
	tileHeight int

	tiles      [][]int
	collisions [][]int

	source TileSource
}

// NewTileGrid 创建空白地图，所有格子为空且可通行
//
// 参数：
//   - columns, rows: 列数和行数，范围 [2, 1024]
//   - tileWidth, tileHeight: 瓦片像素尺寸，必须为正数
//
// 返回：
//   - error: 尺寸无效时返回 ErrInvalidDimension
func NewTileGrid(columns, rows, tileWidth, tileHeight int) (*TileGrid, error) {
	if err := ValidateMapSize(columns, rows); err != nil {
		return nil, err
	}
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrInvalidDimension, tileWidth, tileHeight)
	}

	return &TileGrid{
		columns:    columns,
		rows:       rows,
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
		tiles:      newLayer(columns, rows),
		collisions: newLayer(columns, rows),
	}, nil
}

// ValidateMapSize 检查地图行列数是否在 [Min, Max] 范围内
func ValidateMapSize(columns, rows int) error {
	if columns < MinColumns || columns > MaxColumns {
		return fmt.Errorf("%w: columns %d (valid range %d-%d)", ErrInvalidDimension, columns, MinColumns, MaxColumns)
	}
	if rows < MinRows || rows > MaxRows {
		return fmt.Errorf("%w: rows %d (valid range %d-%d)", ErrInvalidDimension, rows, MinRows, MaxRows)
	}
	return nil
}

func newLayer(columns, rows int) [][]int {
	layer := make([][]int, rows)
	for y := range layer {
		layer[y] = make([]int, columns)
	}
	return layer
}

// Columns 返回列数
func (g *TileGrid) Columns() int { return g.columns }

// Rows 返回行数
func (g *TileGrid) Rows() int { return g.rows }

// TileWidth 返回瓦片宽度（像素）
func (g *TileGrid) TileWidth() int { return g.tileWidth }

// TileHeight 返回瓦片高度（像素）
func (g *TileGrid) TileHeight() int { return g.tileHeight }

// PixelSize 返回地图的像素尺寸
func (g *TileGrid) PixelSize() (width, height int) {
	return g.columns * g.tileWidth, g.rows * g.tileHeight
}

// SetTileSource 设置瓦片图片来源（通常是当前调色板）
// 更换图集后已绘制的 ID 不做重新校验
func (g *TileGrid) SetTileSource(source TileSource) {
	g.source = source
}

// InBounds 检查格子坐标是否在地图范围内
func (g *TileGrid) InBounds(col, row int) bool {
	return col >= 0 && col < g.columns && row >= 0 && row < g.rows
}

// CellAt 将地图像素坐标转换为格子坐标
//
// col = pixelX / tileWidth, row = pixelY / tileHeight
// 负坐标或超出地图范围时 ok 为 false（指针拖出网格是正常情况）
func (g *TileGrid) CellAt(pixelX, pixelY int) (col, row int, ok bool) {
	if pixelX < 0 || pixelY < 0 {
		return 0, 0, false
	}
	col = pixelX / g.tileWidth
	row = pixelY / g.tileHeight
	return col, row, g.InBounds(col, row)
}

// ClampedCellAt 将像素坐标转换为格子坐标并限制在地图范围内
// 用于悬停光标显示
func (g *TileGrid) ClampedCellAt(pixelX, pixelY int) (col, row int) {
	col = clamp(floorDiv(pixelX, g.tileWidth), 0, g.columns-1)
	row = clamp(floorDiv(pixelY, g.tileHeight), 0, g.rows-1)
	return col, row
}

// PaintTile 在指定格子设置瓦片 ID
// 越界时静默忽略
func (g *TileGrid) PaintTile(col, row, id int) {
	if !g.InBounds(col, row) {
		return
	}
	g.tiles[row][col] = id
}

// ClearTile 清空指定格子的瓦片
// 越界时静默忽略
func (g *TileGrid) ClearTile(col, row int) {
	if !g.InBounds(col, row) {
		return
	}
	g.tiles[row][col] = EmptyTile
}

// SetCollision 设置指定格子的碰撞标记
// 越界时静默忽略
func (g *TileGrid) SetCollision(col, row int, blocked bool) {
	if !g.InBounds(col, row) {
		return
	}
	if blocked {
		g.collisions[row][col] = Blocked
	} else {
		g.collisions[row][col] = Passable
	}
}

// TileAt 返回格子的瓦片 ID，越界返回 0
func (g *TileGrid) TileAt(col, row int) int {
	if !g.InBounds(col, row) {
		return EmptyTile
	}
	return g.tiles[row][col]
}

// CollisionAt 返回格子的碰撞标记，越界返回 0
func (g *TileGrid) CollisionAt(col, row int) int {
	if !g.InBounds(col, row) {
		return Passable
	}
	return g.collisions[row][col]
}

// IsBlocked 检查格子是否阻挡
func (g *TileGrid) IsBlocked(col, row int) bool {
	return g.CollisionAt(col, row) == Blocked
}

// TileImageAt 返回格子应显示的瓦片图片
// 空格子、越界或没有图片来源时返回 false
func (g *TileGrid) TileImageAt(col, row int) (image.Image, bool) {
	id := g.TileAt(col, row)
	if id == EmptyTile || g.source == nil {
		return nil, false
	}
	return g.source.TileImage(id)
}

// ResizeColumns 按 ±1 调整列数
//
// 增长时在右侧追加空列，缩小时截断最右一列；已在边界时不做任何操作。
// delta 只能是 +1 或 -1，否则返回 ErrInvalidDimension。
//
// 返回：
//   - bool: 列数是否发生变化
func (g *TileGrid) ResizeColumns(delta int) (bool, error) {
	if delta != 1 && delta != -1 {
		return false, fmt.Errorf("%w: column delta %d (must be +1 or -1)", ErrInvalidDimension, delta)
	}
	columns := g.columns + delta
	if columns < MinColumns || columns > MaxColumns {
		return false, nil
	}
	g.reallocate(columns, g.rows)
	return true, nil
}

// ResizeRows 按 ±1 调整行数
// 增长时在底部追加空行，缩小时截断最后一行
func (g *TileGrid) ResizeRows(delta int) (bool, error) {
	if delta != 1 && delta != -1 {
		return false, fmt.Errorf("%w: row delta %d (must be +1 or -1)", ErrInvalidDimension, delta)
	}
	rows := g.rows + delta
	if rows < MinRows || rows > MaxRows {
		return false, nil
	}
	g.reallocate(g.columns, rows)
	return true, nil
}

// AddColumn 在右侧追加一列
func (g *TileGrid) AddColumn() bool {
	changed, _ := g.ResizeColumns(1)
	return changed
}

// RemoveColumn 删除最右一列
func (g *TileGrid) RemoveColumn() bool {
	changed, _ := g.ResizeColumns(-1)
	return changed
}

// AddRow 在底部追加一行
func (g *TileGrid) AddRow() bool {
	changed, _ := g.ResizeRows(1)
	return changed
}

// RemoveRow 删除最后一行
func (g *TileGrid) RemoveRow() bool {
	changed, _ := g.ResizeRows(-1)
	return changed
}

// reallocate 按新尺寸重新分配两个图层
// 复制左上角重叠区域，新格子填零
func (g *TileGrid) reallocate(columns, rows int) {
	tiles := newLayer(columns, rows)
	collisions := newLayer(columns, rows)

	copyRows := min(rows, g.rows)
	copyColumns := min(columns, g.columns)
	for y := 0; y < copyRows; y++ {
		copy(tiles[y][:copyColumns], g.tiles[y][:copyColumns])
		copy(collisions[y][:copyColumns], g.collisions[y][:copyColumns])
	}

	g.columns = columns
	g.rows = rows
	g.tiles = tiles
	g.collisions = collisions
}

// AutoFillCollision 根据瓦片占用推导碰撞层
//
// 有瓦片的格子设为阻挡；没有瓦片的格子保持原值不变
// （不会清除手动设置的碰撞），因此这是单向推导而非完全同步。
//
// 返回：
//   - int: 新标记为阻挡的格子数
func (g *TileGrid) AutoFillCollision() int {
	filled := 0
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.columns; x++ {
			if g.tiles[y][x] != EmptyTile && g.collisions[y][x] != Blocked {
				g.collisions[y][x] = Blocked
				filled++
			}
		}
	}
	return filled
}

// TileLayer 返回瓦片层的副本
func (g *TileGrid) TileLayer() [][]int {
	return cloneLayer(g.tiles)
}

// CollisionLayer 返回碰撞层的副本
func (g *TileGrid) CollisionLayer() [][]int {
	return cloneLayer(g.collisions)
}

func cloneLayer(layer [][]int) [][]int {
	out := make([][]int, len(layer))
	for y, row := range layer {
		out[y] = append([]int(nil), row...)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// floorDiv 向下取整除法（负坐标也落在左/上侧）
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
