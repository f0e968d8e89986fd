package tilemap

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// 导出格式（纯文本，每个图层一个块）：
//
//	<columns>
//	<rows>
//	<第 0 行的值，空格分隔，行尾带一个空格>
//	...
//	<第 rows-1 行的值>
//
// 完整导出 = 瓦片层块 + 碰撞层块，直接拼接后去掉首尾空白。

// SerializeTileLayer 将瓦片层序列化为导出块
func (g *TileGrid) SerializeTileLayer() string {
	return serializeLayer(g.columns, g.rows, g.tiles)
}

// SerializeCollisionLayer 将碰撞层序列化为导出块
func (g *TileGrid) SerializeCollisionLayer() string {
	return serializeLayer(g.columns, g.rows, g.collisions)
}

// Export 返回完整的导出文本（瓦片层 + 碰撞层，去掉首尾空白）
func (g *TileGrid) Export() string {
	return strings.TrimSpace(g.SerializeTileLayer() + g.SerializeCollisionLayer())
}

func serializeLayer(columns, rows int, layer [][]int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(columns))
	sb.WriteByte('\n')
	sb.WriteString(strconv.Itoa(rows))
	sb.WriteByte('\n')
	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			sb.WriteString(strconv.Itoa(layer[y][x]))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// LayerData 解析后的单个图层块
type LayerData struct {
	Columns int
	Rows    int
	Cells   [][]int // [row][col]
}

// layerScanner 按空白分隔读取整数
type layerScanner struct {
	scanner *bufio.Scanner
	tokens  int
}

func newLayerScanner(text string) *layerScanner {
	s := bufio.NewScanner(strings.NewReader(text))
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.Split(bufio.ScanWords)
	return &layerScanner{scanner: s}
}

func (ls *layerScanner) next() (int, bool, error) {
	if !ls.scanner.Scan() {
		if err := ls.scanner.Err(); err != nil {
			return 0, false, fmt.Errorf("%w: %v", ErrMalformedExport, err)
		}
		return 0, false, nil
	}
	ls.tokens++
	v, err := strconv.Atoi(ls.scanner.Text())
	if err != nil {
		return 0, false, fmt.Errorf("%w: token %d %q is not an integer", ErrMalformedExport, ls.tokens, ls.scanner.Text())
	}
	return v, true, nil
}

func (ls *layerScanner) mustNext(what string) (int, error) {
	v, ok, err := ls.next()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: unexpected end of input reading %s", ErrMalformedExport, what)
	}
	return v, nil
}

// readBlock 读取一个图层块
func (ls *layerScanner) readBlock(name string) (*LayerData, error) {
	columns, err := ls.mustNext(name + " columns")
	if err != nil {
		return nil, err
	}
	rows, err := ls.mustNext(name + " rows")
	if err != nil {
		return nil, err
	}
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %s block has size %dx%d", ErrMalformedExport, name, columns, rows)
	}
	if columns > MaxColumns || rows > MaxRows {
		return nil, fmt.Errorf("%w: %s block size %dx%d exceeds %dx%d", ErrMalformedExport, name, columns, rows, MaxColumns, MaxRows)
	}

	cells := newLayer(columns, rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			v, err := ls.mustNext(fmt.Sprintf("%s cell (%d, %d)", name, x, y))
			if err != nil {
				return nil, err
			}
			cells[y][x] = v
		}
	}
	return &LayerData{Columns: columns, Rows: rows, Cells: cells}, nil
}

// ParseLayer 解析单个图层块（SerializeTileLayer / SerializeCollisionLayer 的逆操作）
func ParseLayer(text string) (*LayerData, error) {
	ls := newLayerScanner(text)
	layer, err := ls.readBlock("layer")
	if err != nil {
		return nil, err
	}
	if _, ok, _ := ls.next(); ok {
		return nil, fmt.Errorf("%w: trailing data after layer block", ErrMalformedExport)
	}
	return layer, nil
}

// ParseExport 解析完整导出文本，返回瓦片层和碰撞层
//
// 两个块的尺寸必须一致，碰撞层的值只能是 0 或 1。
func ParseExport(text string) (tiles, collisions *LayerData, err error) {
	ls := newLayerScanner(text)
	if tiles, err = ls.readBlock("tile"); err != nil {
		return nil, nil, err
	}
	if collisions, err = ls.readBlock("collision"); err != nil {
		return nil, nil, err
	}
	if _, ok, _ := ls.next(); ok {
		return nil, nil, fmt.Errorf("%w: trailing data after collision block", ErrMalformedExport)
	}

	if tiles.Columns != collisions.Columns || tiles.Rows != collisions.Rows {
		return nil, nil, fmt.Errorf("%w: tile layer %dx%d does not match collision layer %dx%d",
			ErrMalformedExport, tiles.Columns, tiles.Rows, collisions.Columns, collisions.Rows)
	}
	for y, row := range collisions.Cells {
		for x, v := range row {
			if v != Passable && v != Blocked {
				return nil, nil, fmt.Errorf("%w: collision value %d at (%d, %d)", ErrMalformedExport, v, x, y)
			}
		}
	}
	return tiles, collisions, nil
}

// NewTileGridFromExport 从导出文本重建地图
// 导出格式不包含瓦片像素尺寸，由调用者提供
func NewTileGridFromExport(text string, tileWidth, tileHeight int) (*TileGrid, error) {
	tiles, collisions, err := ParseExport(text)
	if err != nil {
		return nil, err
	}
	g, err := NewTileGrid(tiles.Columns, tiles.Rows, tileWidth, tileHeight)
	if err != nil {
		return nil, err
	}
	g.tiles = tiles.Cells
	g.collisions = collisions.Cells
	return g, nil
}
