package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// EditorSettings 用户偏好设置
// 与地图内容无关，只记录界面状态和上次使用的参数
type EditorSettings struct {
	// 视图开关
	ShowTileLayer      bool `yaml:"showTileLayer"`      // 显示瓦片层
	ShowCollisionLayer bool `yaml:"showCollisionLayer"` // 显示碰撞层
	ShowGrid           bool `yaml:"showGrid"`           // 显示网格线

	// 上次新建地图的参数（0 表示使用配置文件默认值）
	LastTilesetPath string `yaml:"lastTilesetPath"`
	TileWidth       int    `yaml:"tileWidth"`
	TileHeight      int    `yaml:"tileHeight"`
	Columns         int    `yaml:"columns"`
	Rows            int    `yaml:"rows"`

	// 上次导出路径（不含 .txt 后缀）
	LastExportPath string `yaml:"lastExportPath"`
}

// DefaultSettings 返回默认设置：三个视图开关全部打开
func DefaultSettings() *EditorSettings {
	return &EditorSettings{
		ShowTileLayer:      true,
		ShowCollisionLayer: true,
		ShowGrid:           true,
	}
}

// SettingsManager 设置管理器
// 负责编辑器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *EditorSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "editor"
)

// NewSettingsManager 创建设置管理器并尝试加载已保存的设置
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不是致命错误，使用默认设置并记录警告。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// OpenSettingsStorage 打开 gdata 存储
// 失败时返回 nil（降级模式），不影响编辑器启动
func OpenSettingsStorage(appName string) *gdata.Manager {
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("[SettingsManager] Warning: gdata unavailable: %v (settings will not persist)", err)
		return nil
	}
	return manager
}

// Load 从 gdata 加载设置
//
// gdataManager 为 nil 或设置不存在时使用默认设置
//
// 返回：
//   - error: 如果读取或反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 在默认值上反序列化，旧版本缺失的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *EditorSettings {
	return sm.settings
}

// SetViewFlags 记录视图开关
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetViewFlags(tiles, collisions, grid bool) {
	sm.settings.ShowTileLayer = tiles
	sm.settings.ShowCollisionLayer = collisions
	sm.settings.ShowGrid = grid
}

// RememberNewMap 记录最近一次新建地图使用的参数
func (sm *SettingsManager) RememberNewMap(tilesetPath string, tileWidth, tileHeight, columns, rows int) {
	sm.settings.LastTilesetPath = tilesetPath
	sm.settings.TileWidth = tileWidth
	sm.settings.TileHeight = tileHeight
	sm.settings.Columns = columns
	sm.settings.Rows = rows
}

// RememberExport 记录最近一次导出路径
func (sm *SettingsManager) RememberExport(path string) {
	sm.settings.LastExportPath = path
}
