package game

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/tilemaker/pkg/tilemap"
)

// ExportExtension 导出文件后缀，无论用户输入的名称是否已带后缀都会追加
const ExportExtension = ".txt"

// MapExporter 地图导出/导入管理器
//
// 职责：
//   - 将 TileGrid 的两个图层写入文本文件
//   - 从导出文件重建 TileGrid
//
// 相对路径相对于 saveDir 解析（saveDir 为空时相对于当前目录）
type MapExporter struct {
	saveDir string
}

// NewMapExporter 创建导出管理器
//
// 参数：
//   - saveDir: 默认导出目录，可为空
func NewMapExporter(saveDir string) *MapExporter {
	return &MapExporter{saveDir: saveDir}
}

// SaveDir 返回默认导出目录
func (me *MapExporter) SaveDir() string {
	return me.saveDir
}

// ResolveExportPath 返回实际写入的文件路径
// 总是追加 .txt 后缀，"level" → "level.txt"，"level.txt" → "level.txt.txt"
func (me *MapExporter) ResolveExportPath(name string) string {
	return me.resolve(name) + ExportExtension
}

func (me *MapExporter) resolve(name string) string {
	if me.saveDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(me.saveDir, name)
}

// Export 将地图写入 name + ".txt"
//
// 返回：
//   - string: 实际写入的文件路径
//   - error: 名称为空或写入失败时返回错误
func (me *MapExporter) Export(grid *tilemap.TileGrid, name string) (string, error) {
	if grid == nil {
		return "", fmt.Errorf("no map to export")
	}
	if name == "" {
		return "", fmt.Errorf("export name cannot be empty")
	}

	path := me.ResolveExportPath(name)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(grid.Export()), 0644); err != nil {
		return "", fmt.Errorf("failed to write map file %s: %w", path, err)
	}

	log.Printf("[MapExporter] Exported %dx%d map to %s", grid.Columns(), grid.Rows(), path)
	return path, nil
}

// Import 读取导出文件并重建地图
// 文件中不记录瓦片尺寸，由调用方传入
func (me *MapExporter) Import(path string, tileWidth, tileHeight int) (*tilemap.TileGrid, error) {
	resolved := me.resolve(path)
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", resolved, err)
	}

	grid, err := tilemap.NewTileGridFromExport(string(data), tileWidth, tileHeight)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resolved, err)
	}

	log.Printf("[MapExporter] Imported %dx%d map from %s", grid.Columns(), grid.Rows(), resolved)
	return grid, nil
}
