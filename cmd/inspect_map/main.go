// Package main 检查导出的地图文件
//
// 用法:
//
//	go run ./cmd/inspect_map <map.txt>
//
// 输出地图尺寸、非空瓦片数、阻挡格子数、用到的瓦片 ID，
// 以及自动填充碰撞会新增多少阻挡格子。文件格式错误时退出码为 1。
package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/decker502/tilemaker/pkg/tilemap"
)

// report 地图统计
type report struct {
	Columns     int
	Rows        int
	Painted     int   // 非空瓦片格子数
	Blocked     int   // 阻挡格子数
	TileIDs     []int // 用到的瓦片 ID（升序）
	Unprotected int   // 有瓦片但未阻挡的格子数（自动填充会新增的数量）
}

// inspect 解析导出文本并统计
func inspect(text string) (*report, error) {
	tiles, collisions, err := tilemap.ParseExport(text)
	if err != nil {
		return nil, err
	}

	r := &report{Columns: tiles.Columns, Rows: tiles.Rows}
	seen := make(map[int]bool)
	for y := 0; y < tiles.Rows; y++ {
		for x := 0; x < tiles.Columns; x++ {
			id := tiles.Cells[y][x]
			blocked := collisions.Cells[y][x] == tilemap.Blocked
			if blocked {
				r.Blocked++
			}
			if id == tilemap.EmptyTile {
				continue
			}
			r.Painted++
			if !blocked {
				r.Unprotected++
			}
			if !seen[id] {
				seen[id] = true
				r.TileIDs = append(r.TileIDs, id)
			}
		}
	}
	sort.Ints(r.TileIDs)
	return r, nil
}

func (r *report) String() string {
	ids := make([]string, len(r.TileIDs))
	for i, id := range r.TileIDs {
		ids[i] = fmt.Sprint(id)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "尺寸: %d x %d (%d 格)\n", r.Columns, r.Rows, r.Columns*r.Rows)
	fmt.Fprintf(&sb, "非空瓦片: %d\n", r.Painted)
	fmt.Fprintf(&sb, "阻挡格子: %d\n", r.Blocked)
	fmt.Fprintf(&sb, "瓦片 ID: [%s]\n", strings.Join(ids, " "))
	fmt.Fprintf(&sb, "自动填充将新增阻挡: %d\n", r.Unprotected)
	return sb.String()
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("用法: go run ./cmd/inspect_map <map.txt>")
		os.Exit(1)
	}

	path := os.Args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("读取失败: %v", err)
	}

	r, err := inspect(string(data))
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}

	fmt.Printf("地图文件: %s\n", path)
	fmt.Print(r)
}
