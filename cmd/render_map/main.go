// Package main 将导出的地图渲染为 PNG 预览图
//
// 用法:
//
//	go run ./cmd/render_map -map level1.txt -tileset tiles.png [flags]
//
// 参数:
//
//	-map <path>          导出的地图文件（必填）
//	-tileset <path>      图集图片（必填，PNG/JPEG/GIF/BMP/TIFF/WebP）
//	-tile-width <px>     瓦片宽度（默认 32）
//	-tile-height <px>    瓦片高度（默认 32）
//	-collisions          叠加半透明红色碰撞层
//	-scale <n>           整数放大倍数（默认 1）
//	-o <path>            输出 PNG 路径（默认 <map>.png）
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/decker502/tilemaker/pkg/game"
	"github.com/decker502/tilemaker/pkg/tilemap"
	xdraw "golang.org/x/image/draw"
)

var (
	mapFlag        = flag.String("map", "", "Exported map file")
	tilesetFlag    = flag.String("tileset", "", "Tileset atlas image")
	tileWidthFlag  = flag.Int("tile-width", 32, "Tile width in pixels")
	tileHeightFlag = flag.Int("tile-height", 32, "Tile height in pixels")
	collisionsFlag = flag.Bool("collisions", false, "Overlay the collision layer")
	scaleFlag      = flag.Int("scale", 1, "Integer upscale factor")
	outFlag        = flag.String("o", "", "Output PNG path (default: <map>.png)")
)

// collisionOverlay 碰撞层颜色（红色，50% 透明度，预乘）
var collisionOverlay = color.RGBA{R: 128, A: 128}

// renderMap 将地图绘制到新图片上
// 空格子保持透明，scale 小于 1 时按 1 处理
func renderMap(grid *tilemap.TileGrid, showCollisions bool, scale int) *image.RGBA {
	w, h := grid.PixelSize()
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	tw, th := grid.TileWidth(), grid.TileHeight()

	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Columns(); col++ {
			cell := image.Rect(col*tw, row*th, (col+1)*tw, (row+1)*th)
			if tile, ok := grid.TileImageAt(col, row); ok {
				xdraw.Draw(canvas, cell, tile, tile.Bounds().Min, xdraw.Over)
			}
			if showCollisions && grid.IsBlocked(col, row) {
				xdraw.Draw(canvas, cell, image.NewUniform(collisionOverlay), image.Point{}, xdraw.Over)
			}
		}
	}

	if scale <= 1 {
		return canvas
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
	return scaled
}

// loadMap 读取地图和图集，图集作为瓦片图片来源
func loadMap(mapPath, tilesetPath string, tileWidth, tileHeight int) (*tilemap.TileGrid, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("读取地图失败: %w", err)
	}
	grid, err := tilemap.NewTileGridFromExport(string(data), tileWidth, tileHeight)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mapPath, err)
	}

	atlas, err := game.NewResourceManager().LoadImage(tilesetPath)
	if err != nil {
		return nil, err
	}
	palette := tilemap.NewTilePalette(0)
	if err := palette.LoadAtlas(atlas, tileWidth, tileHeight); err != nil {
		return nil, fmt.Errorf("%s: %w", tilesetPath, err)
	}
	grid.SetTileSource(palette)
	return grid, nil
}

func main() {
	flag.Parse()
	if *mapFlag == "" || *tilesetFlag == "" {
		fmt.Println("用法: go run ./cmd/render_map -map <map.txt> -tileset <tiles.png> [-collisions] [-scale n] [-o out.png]")
		os.Exit(1)
	}

	grid, err := loadMap(*mapFlag, *tilesetFlag, *tileWidthFlag, *tileHeightFlag)
	if err != nil {
		log.Fatalf("加载失败: %v", err)
	}

	out := *outFlag
	if out == "" {
		out = strings.TrimSuffix(*mapFlag, ".txt") + ".png"
	}
	f, err := os.Create(out)
	if err != nil {
		log.Fatalf("创建输出文件失败: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, renderMap(grid, *collisionsFlag, *scaleFlag)); err != nil {
		log.Fatalf("写入 PNG 失败: %v", err)
	}
	fmt.Printf("已渲染 %dx%d 地图到 %s\n", grid.Columns(), grid.Rows(), out)
}
