// Tile Map Maker 是一个二维瓦片地图编辑器。
//
// 用法：
//
//	go run . [flags]
//
// 参数：
//
//	-tileset <path>       启动时加载的图集（默认使用上次的图集）
//	-tile-width <px>      瓦片宽度
//	-tile-height <px>     瓦片高度
//	-columns <n>          地图列数（2..1024）
//	-rows <n>             地图行数（2..1024）
//	-out <name>           导出名称，实际写入 <name>.txt
//	-import <path>        启动时导入的地图文件
//	-config <path>        编辑器配置文件（默认使用内嵌的 data/editor.yaml）
//	-verbose              输出详细日志
package main

import (
	"flag"
	"log"

	"github.com/decker502/tilemaker/pkg/app"
	"github.com/decker502/tilemaker/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verboseFlag    = flag.Bool("verbose", false, "Enable verbose logging")
	configFlag     = flag.String("config", "", "Editor config YAML (default: embedded data/editor.yaml)")
	tilesetFlag    = flag.String("tileset", "", "Tileset atlas image to load on start")
	tileWidthFlag  = flag.Int("tile-width", 0, "Tile width in pixels")
	tileHeightFlag = flag.Int("tile-height", 0, "Tile height in pixels")
	columnsFlag    = flag.Int("columns", 0, "Map columns (2..1024)")
	rowsFlag       = flag.Int("rows", 0, "Map rows (2..1024)")
	outFlag        = flag.String("out", "", "Export name; the map is written to <name>.txt")
	importFlag     = flag.String("import", "", "Exported map file to import on start")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	editorApp, err := app.NewApp(app.Config{
		Verbose:     *verboseFlag,
		ConfigPath:  *configFlag,
		TilesetPath: *tilesetFlag,
		TileWidth:   *tileWidthFlag,
		TileHeight:  *tileHeightFlag,
		Columns:     *columnsFlag,
		Rows:        *rowsFlag,
		ExportName:  *outFlag,
		ImportPath:  *importFlag,
	})
	if err != nil {
		log.Fatalf("编辑器初始化失败: %v", err)
	}

	ebiten.SetWindowSize(editorApp.WindowSize())
	ebiten.SetWindowTitle(editorApp.WindowTitle())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	runErr := ebiten.RunGame(&closeHandler{App: editorApp})

	// 窗口关闭后保存设置
	editorApp.GetSceneManager().SaveOnExit()

	if runErr != nil && runErr != ebiten.Termination {
		log.Fatal(runErr)
	}
}

// closeHandler 处理窗口关闭请求，让 RunGame 正常返回以便保存设置
type closeHandler struct {
	*app.App
}

func (h *closeHandler) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	return h.App.Update()
}
