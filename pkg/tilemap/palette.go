package tilemap

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// DefaultPadding 调色板面板中瓦片之间的间距（像素）
const DefaultPadding = 5

// Brush 画笔：当前选中的瓦片图片及其 ID
type Brush struct {
	ID    int
	Col   int
	Row   int
	Image image.Image
}

// subImager 支持零拷贝切片的图片（*image.RGBA、*image.NRGBA 等）
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// TilePalette 瓦片调色板
//
// 持有解码后的图集，并按固定瓦片尺寸切片。
// 瓦片 ID = col + row*columns，只在当前图集内有意义。
type TilePalette struct {
	atlas      image.Image
	tileWidth  int
	tileHeight int
	padding    int

	columns int
	rows    int
	tiles   [][]image.Image

	selected    bool
	selectedCol int
	selectedRow int
}

// NewTilePalette 创建空调色板
// padding 为负数时使用 DefaultPadding
func NewTilePalette(padding int) *TilePalette {
	if padding < 0 {
		padding = DefaultPadding
	}
	return &TilePalette{padding: padding}
}

// LoadAtlas 加载图集并切片
//
// 不足一个瓦片的右侧/底部残余部分被丢弃。加载成功后清空选择。
// 失败时保持原图集不变。
//
// 参数：
//   - atlas: 已解码的图集图片
//   - tileWidth, tileHeight: 切片尺寸
//
// 返回：
//   - error: 尺寸非正数或图集小于一个瓦片时返回 ErrInvalidDimension
func (p *TilePalette) LoadAtlas(atlas image.Image, tileWidth, tileHeight int) error {
	if atlas == nil {
		return fmt.Errorf("%w: nil atlas", ErrDecodeFailure)
	}
	if tileWidth <= 0 || tileHeight <= 0 {
		return fmt.Errorf("%w: tile size %dx%d", ErrInvalidDimension, tileWidth, tileHeight)
	}

	bounds := atlas.Bounds()
	columns := bounds.Dx() / tileWidth
	rows := bounds.Dy() / tileHeight
	if columns == 0 || rows == 0 {
		return fmt.Errorf("%w: atlas %dx%d is smaller than one %dx%d tile",
			ErrInvalidDimension, bounds.Dx(), bounds.Dy(), tileWidth, tileHeight)
	}

	tiles := make([][]image.Image, rows)
	for y := 0; y < rows; y++ {
		tiles[y] = make([]image.Image, columns)
		for x := 0; x < columns; x++ {
			r := image.Rect(
				bounds.Min.X+x*tileWidth,
				bounds.Min.Y+y*tileHeight,
				bounds.Min.X+(x+1)*tileWidth,
				bounds.Min.Y+(y+1)*tileHeight,
			)
			tiles[y][x] = sliceTile(atlas, r)
		}
	}

	p.atlas = atlas
	p.tileWidth = tileWidth
	p.tileHeight = tileHeight
	p.columns = columns
	p.rows = rows
	p.tiles = tiles
	p.selected = false
	p.selectedCol = 0
	p.selectedRow = 0
	return nil
}

// sliceTile 取出图集中的一个瓦片
// 支持 SubImage 的图片返回共享像素的视图，否则复制一份
func sliceTile(atlas image.Image, r image.Rectangle) image.Image {
	if si, ok := atlas.(subImager); ok {
		return si.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Draw(dst, dst.Bounds(), atlas, r.Min, xdraw.Src)
	return dst
}

// Loaded 是否已加载图集
func (p *TilePalette) Loaded() bool { return p.atlas != nil }

// Atlas 返回当前图集
func (p *TilePalette) Atlas() image.Image { return p.atlas }

// Columns 返回图集列数
func (p *TilePalette) Columns() int { return p.columns }

// Rows 返回图集行数
func (p *TilePalette) Rows() int { return p.rows }

// TileWidth 返回切片宽度
func (p *TilePalette) TileWidth() int { return p.tileWidth }

// TileHeight 返回切片高度
func (p *TilePalette) TileHeight() int { return p.tileHeight }

// Padding 返回面板间距
func (p *TilePalette) Padding() int { return p.padding }

// TileCount 返回瓦片总数
func (p *TilePalette) TileCount() int { return p.columns * p.rows }

// TileID 计算瓦片 ID
func (p *TilePalette) TileID(col, row int) int {
	return col + row*p.columns
}

// TileImage 根据 ID 返回瓦片图片（实现 TileSource）
func (p *TilePalette) TileImage(id int) (image.Image, bool) {
	if p.columns == 0 || id < 0 || id >= p.TileCount() {
		return nil, false
	}
	return p.tiles[id/p.columns][id%p.columns], true
}

// TileRect 返回瓦片在图集中的像素区域（渲染层用于 SubImage）
func (p *TilePalette) TileRect(id int) (image.Rectangle, bool) {
	if p.columns == 0 || id < 0 || id >= p.TileCount() {
		return image.Rectangle{}, false
	}
	col, row := id%p.columns, id/p.columns
	origin := p.atlas.Bounds().Min
	return image.Rect(
		origin.X+col*p.tileWidth,
		origin.Y+row*p.tileHeight,
		origin.X+(col+1)*p.tileWidth,
		origin.Y+(row+1)*p.tileHeight,
	), true
}

// pitch 返回面板中一格（瓦片 + 间距）的尺寸
func (p *TilePalette) pitch() (int, int) {
	return p.tileWidth + p.padding, p.tileHeight + p.padding
}

// LayoutSize 返回面板所需的像素尺寸
func (p *TilePalette) LayoutSize() (width, height int) {
	pw, ph := p.pitch()
	return p.columns * pw, p.rows * ph
}

// TileOrigin 返回瓦片在面板中的左上角坐标
func (p *TilePalette) TileOrigin(col, row int) (x, y int) {
	pw, ph := p.pitch()
	return col * pw, row * ph
}

// SelectAt 根据面板像素坐标选择瓦片
//
// 坐标除以 (瓦片尺寸 + 间距) 得到格子；越界时保持原选择不变。
//
// 返回：
//   - bool: 是否选中了新瓦片
func (p *TilePalette) SelectAt(pixelX, pixelY int) bool {
	if !p.Loaded() || pixelX < 0 || pixelY < 0 {
		return false
	}
	pw, ph := p.pitch()
	return p.Select(pixelX/pw, pixelY/ph)
}

// Select 按格子坐标选择瓦片，越界时不做任何操作
func (p *TilePalette) Select(col, row int) bool {
	if col < 0 || col >= p.columns || row < 0 || row >= p.rows {
		return false
	}
	p.selected = true
	p.selectedCol = col
	p.selectedRow = row
	return true
}

// SelectID 按瓦片 ID 选择
func (p *TilePalette) SelectID(id int) bool {
	if p.columns == 0 || id < 0 || id >= p.TileCount() {
		return false
	}
	return p.Select(id%p.columns, id/p.columns)
}

// Selection 返回当前画笔
// 尚未选择时 ok 为 false，调用者必须拒绝绘制
func (p *TilePalette) Selection() (brush Brush, ok bool) {
	if !p.selected {
		return Brush{}, false
	}
	return Brush{
		ID:    p.TileID(p.selectedCol, p.selectedRow),
		Col:   p.selectedCol,
		Row:   p.selectedRow,
		Image: p.tiles[p.selectedRow][p.selectedCol],
	}, true
}
