package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/tilemaker/pkg/config"
	"github.com/decker502/tilemaker/pkg/editor"
	"github.com/decker502/tilemaker/pkg/game"
	"github.com/decker502/tilemaker/pkg/systems"
	"github.com/decker502/tilemaker/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// defaultExportName 未指定导出名称时使用
const defaultExportName = "map"

// EditorSceneOptions 编辑器场景依赖
type EditorSceneOptions struct {
	Config    *config.EditorConfig
	Settings  *game.SettingsManager
	Resources *game.ResourceManager
	Input     systems.InputSource

	// ExportName 导出名称（不含 .txt），为空时使用上次导出名称
	ExportName string
	// ImportPath 按 I 键时导入的文件，为空时导入上次导出的文件
	ImportPath string
}

// EditorScene 地图编辑场景
//
// 布局：顶部状态栏，左侧地图区域，右侧调色板面板。
// 场景本身只负责组装；编辑状态全部在 editor.Session 中。
type EditorScene struct {
	cfg       *config.EditorConfig
	settings  *game.SettingsManager
	resources *game.ResourceManager

	session     *editor.Session
	mapView     *utils.Viewport
	paletteView *utils.Viewport

	inputSystem   *systems.InputSystem
	renderSystem  *systems.RenderSystem
	paletteSystem *systems.PaletteRenderSystem
	statusSystem  *systems.StatusRenderSystem

	exportName string
	importPath string
}

// NewEditorScene 创建编辑器场景
// 视图开关从保存的设置恢复
func NewEditorScene(opts EditorSceneOptions) *EditorScene {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultEditorConfig()
	}
	settings := opts.Settings
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}
	resources := opts.Resources
	if resources == nil {
		resources = game.NewResourceManager()
	}
	input := opts.Input
	if input == nil {
		input = utils.NewEbitenInput()
	}

	session := editor.NewSession(editor.Options{
		Padding:    cfg.Palette.Padding,
		TileWidth:  cfg.Map.TileWidth,
		TileHeight: cfg.Map.TileHeight,
		Exporter:   game.NewMapExporter(cfg.SaveDir),
	})
	prefs := settings.GetSettings()
	session.SetViewFlags(prefs.ShowTileLayer, prefs.ShowCollisionLayer, prefs.ShowGrid)

	mapView := utils.NewViewport(cfg.MapViewport())
	paletteView := utils.NewViewport(cfg.PaletteViewport())
	atlas := systems.NewAtlasCache()

	font, err := utils.LoadDefaultFace(13)
	if err != nil {
		log.Printf("[EditorScene] Warning: %v (status bar text disabled)", err)
	}

	colors := cfg.Colors
	scene := &EditorScene{
		cfg:         cfg,
		settings:    settings,
		resources:   resources,
		session:     session,
		mapView:     mapView,
		paletteView: paletteView,
		inputSystem: systems.NewInputSystem(input, session, mapView, paletteView, cfg.ScrollSpeed),
		renderSystem: systems.NewRenderSystem(session, mapView, atlas, systems.RenderColors{
			Background: config.MustColor(colors.Background),
			Grid:       config.MustColor(colors.Grid),
			Collision:  config.MustColor(colors.Collision),
			Selection:  config.MustColor(colors.Selection),
		}),
		paletteSystem: systems.NewPaletteRenderSystem(session, paletteView, atlas,
			config.MustColor(colors.PaletteBg), config.MustColor(colors.Selection)),
		statusSystem: systems.NewStatusRenderSystem(session, font, cfg.Window.Width, cfg.Window.ToolbarHeight,
			config.MustColor(colors.Background), config.MustColor(colors.StatusText)),
		exportName: opts.ExportName,
		importPath: opts.ImportPath,
	}

	log.Printf("[EditorScene] Created (map view %dx%d, palette %dx%d)",
		mapView.Width, mapView.Height, paletteView.Width, paletteView.Height)
	return scene
}

// Session 返回编辑会话
func (s *EditorScene) Session() *editor.Session {
	return s.session
}

// LoadTileset 加载图集并新建地图
// 任一步骤失败时保持当前地图不变
func (s *EditorScene) LoadTileset(path string, tileWidth, tileHeight, columns, rows int) error {
	atlas, err := s.resources.LoadImage(path)
	if err != nil {
		return s.session.ReportError(err)
	}

	err = s.session.NewMap(editor.NewMapRequest{
		Atlas:       atlas,
		TilesetPath: path,
		TileWidth:   tileWidth,
		TileHeight:  tileHeight,
		Columns:     columns,
		Rows:        rows,
	})
	if err != nil {
		s.resources.ReleaseImage(path)
		return err
	}

	// 旧图集不再需要
	s.resources.ReleaseAllExcept(path)
	s.mapView.ScrollX, s.mapView.ScrollY = 0, 0
	s.paletteView.ScrollX, s.paletteView.ScrollY = 0, 0
	s.settings.RememberNewMap(path, tileWidth, tileHeight, columns, rows)
	return nil
}

// ExportMap 导出地图
// 名称优先使用启动参数，其次是上次导出名称，最后是 "map"
func (s *EditorScene) ExportMap() (string, error) {
	name := s.exportName
	if name == "" {
		name = s.settings.GetSettings().LastExportPath
	}
	if name == "" {
		name = defaultExportName
	}

	path, err := s.session.Export(name)
	if err != nil {
		return "", err
	}
	s.settings.RememberExport(name)
	return path, nil
}

// ImportMap 导入导出文件
// path 为空时导入上次导出的文件
func (s *EditorScene) ImportMap(path string) error {
	if path == "" {
		path = s.importPath
	}
	if path == "" {
		last := s.settings.GetSettings().LastExportPath
		if last == "" {
			last = defaultExportName
		}
		path = last + game.ExportExtension
	}

	if err := s.session.Import(path); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	grid := s.session.Grid()
	w, h := grid.PixelSize()
	s.mapView.Clamp(w, h)
	return nil
}

// Update 更新场景
func (s *EditorScene) Update(deltaTime float64) {
	switch s.inputSystem.Update() {
	case systems.CommandExport:
		if _, err := s.ExportMap(); err != nil {
			log.Printf("[EditorScene] Export failed: %v", err)
		}
	case systems.CommandImport:
		if err := s.ImportMap(""); err != nil {
			log.Printf("[EditorScene] Import failed: %v", err)
		}
	}
}

// Draw 绘制场景：地图 → 调色板 → 状态栏
func (s *EditorScene) Draw(screen *ebiten.Image) {
	s.renderSystem.Draw(screen)
	s.paletteSystem.Draw(screen)
	s.statusSystem.Draw(screen)
}

// SaveOnExit 保存视图开关等设置（实现 game.Saveable）
func (s *EditorScene) SaveOnExit() bool {
	tiles, collisions, grid := s.session.ViewFlags()
	s.settings.SetViewFlags(tiles, collisions, grid)
	if err := s.settings.Save(); err != nil {
		log.Printf("[EditorScene] Failed to save settings: %v", err)
		return false
	}
	return true
}
