// Package app 提供编辑器应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，main.go 只负责解析参数。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/tilemaker/pkg/config"
	"github.com/decker502/tilemaker/pkg/game"
	"github.com/decker502/tilemaker/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// AppName gdata 存储使用的应用名
const AppName = "tilemaker"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 编辑器配置文件，为空时使用内嵌默认配置
	ConfigPath string

	// TilesetPath 启动时加载的图集，为空时使用上次的图集（如果有）
	TilesetPath string
	// 新建地图参数，0 表示使用上次的值或配置默认值
	TileWidth  int
	TileHeight int
	Columns    int
	Rows       int

	// ExportName 导出名称（不含 .txt）
	ExportName string
	// ImportPath 启动时导入的地图文件
	ImportPath string
}

// App 是编辑器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg                      *config.EditorConfig
	sceneManager             *game.SceneManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化编辑器应用
//
// 调用此函数前，应先调用 embedded.Init() 初始化内嵌的默认配置。
// 启动时的图集或导入文件加载失败不是致命错误，错误显示在状态栏。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	editorConfig, err := loadEditorConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	settings := game.NewSettingsManager(game.OpenSettingsStorage(AppName))
	scene := scenes.NewEditorScene(scenes.EditorSceneOptions{
		Config:     editorConfig,
		Settings:   settings,
		Resources:  game.NewResourceManager(),
		ExportName: cfg.ExportName,
		ImportPath: cfg.ImportPath,
	})

	params := resolveNewMap(cfg, editorConfig, settings.GetSettings())
	if params.tilesetPath != "" {
		if err := scene.LoadTileset(params.tilesetPath, params.tileWidth, params.tileHeight, params.columns, params.rows); err != nil {
			log.Printf("[App] Failed to load tileset %s: %v", params.tilesetPath, err)
		}
	}
	if cfg.ImportPath != "" {
		if err := scene.ImportMap(cfg.ImportPath); err != nil {
			log.Printf("[App] Failed to import %s: %v", cfg.ImportPath, err)
		}
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	return &App{
		cfg:          editorConfig,
		sceneManager: sceneManager,
		verbose:      cfg.Verbose,
	}, nil
}

func loadEditorConfig(path string) (*config.EditorConfig, error) {
	if path == "" {
		cfg, err := config.LoadEmbeddedEditorConfig()
		if err != nil {
			return nil, fmt.Errorf("内嵌配置加载失败: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadEditorConfig(path)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	log.Printf("[Config] Loaded editor config from %s", path)
	return cfg, nil
}

// newMapParams 启动时新建地图使用的参数
type newMapParams struct {
	tilesetPath string
	tileWidth   int
	tileHeight  int
	columns     int
	rows        int
}

// resolveNewMap 合并启动参数、上次设置和配置默认值
// 优先级：命令行参数 > 上次新建地图的参数 > 配置文件
func resolveNewMap(cfg Config, editorConfig *config.EditorConfig, prefs *game.EditorSettings) newMapParams {
	pick := func(values ...int) int {
		for _, v := range values {
			if v > 0 {
				return v
			}
		}
		return 0
	}
	tileset := cfg.TilesetPath
	if tileset == "" {
		tileset = prefs.LastTilesetPath
	}
	return newMapParams{
		tilesetPath: tileset,
		tileWidth:   pick(cfg.TileWidth, prefs.TileWidth, editorConfig.Map.TileWidth),
		tileHeight:  pick(cfg.TileHeight, prefs.TileHeight, editorConfig.Map.TileHeight),
		columns:     pick(cfg.Columns, prefs.Columns, editorConfig.Map.Columns),
		rows:        pick(cfg.Rows, prefs.Rows, editorConfig.Map.Rows),
	}
}

// WindowSize 返回窗口逻辑尺寸
func (a *App) WindowSize() (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// WindowTitle 返回窗口标题
func (a *App) WindowTitle() string {
	return a.cfg.Window.Title
}

// Update 更新编辑器逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.WindowSize())
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.cfg.Window.Width, a.cfg.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制编辑器画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	// 瓦片需要像素清晰，不使用线性滤波
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.WindowSize()
}

// GetSceneManager 返回场景管理器
// 用于在窗口关闭时保存设置
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
