package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/tilemaker/pkg/embedded"
	"github.com/decker502/tilemaker/pkg/tilemap"
	"gopkg.in/yaml.v3"
)

// DefaultEditorConfigPath 内嵌默认配置文件路径
const DefaultEditorConfigPath = "data/editor.yaml"

// EditorConfig 编辑器配置
// 默认值来自内嵌的 data/editor.yaml，可通过 -config 参数覆盖
type EditorConfig struct {
	Window  WindowConfig  `yaml:"window"`
	Map     MapConfig     `yaml:"map"`
	Palette PaletteConfig `yaml:"palette"`
	Colors  ColorConfig   `yaml:"colors"`

	ScrollSpeed float64 `yaml:"scrollSpeed"` // 方向键/滚轮每次滚动的像素数
	SaveDir     string  `yaml:"saveDir"`     // 导出默认目录（为空时使用当前目录）
}

// WindowConfig 窗口布局
type WindowConfig struct {
	Width         int    `yaml:"width"`         // 窗口逻辑宽度
	Height        int    `yaml:"height"`        // 窗口逻辑高度
	Title         string `yaml:"title"`         // 窗口标题
	ToolbarHeight int    `yaml:"toolbarHeight"` // 顶部状态栏高度
}

// MapConfig 新建地图默认值
type MapConfig struct {
	Columns    int `yaml:"columns"`
	Rows       int `yaml:"rows"`
	TileWidth  int `yaml:"tileWidth"`
	TileHeight int `yaml:"tileHeight"`
}

// PaletteConfig 调色板面板
type PaletteConfig struct {
	Width   int `yaml:"width"`   // 面板宽度（位于窗口右侧）
	Padding int `yaml:"padding"` // 瓦片间距
}

// ColorConfig 界面颜色（#RRGGBB 或 #RRGGBBAA）
type ColorConfig struct {
	Background string `yaml:"background"`
	Grid       string `yaml:"grid"`
	Collision  string `yaml:"collision"`
	Selection  string `yaml:"selection"`
	PaletteBg  string `yaml:"paletteBackground"`
	StatusText string `yaml:"statusText"`
}

// DefaultEditorConfig 返回内置默认配置（内嵌文件不可用时使用）
func DefaultEditorConfig() *EditorConfig {
	return &EditorConfig{
		Window: WindowConfig{
			Width:         1056,
			Height:        640,
			Title:         "Tile Map Maker",
			ToolbarHeight: 40,
		},
		Map: MapConfig{
			Columns:    24,
			Rows:       18,
			TileWidth:  32,
			TileHeight: 32,
		},
		Palette: PaletteConfig{
			Width:   256,
			Padding: tilemap.DefaultPadding,
		},
		Colors: ColorConfig{
			Background: "#ffffff",
			Grid:       "#000000",
			Collision:  "#ff0000",
			Selection:  "#00ffff",
			PaletteBg:  "#808080",
			StatusText: "#202020",
		},
		ScrollSpeed: 32,
	}
}

// ParseEditorConfig 解析 YAML 配置
// 未出现的字段保留默认值
func ParseEditorConfig(data []byte) (*EditorConfig, error) {
	cfg := DefaultEditorConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse editor config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid editor config: %w", err)
	}
	return cfg, nil
}

// LoadEditorConfig 从磁盘加载配置文件
func LoadEditorConfig(path string) (*EditorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read editor config file %s: %w", path, err)
	}
	cfg, err := ParseEditorConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadEmbeddedEditorConfig 加载内嵌的默认配置
// embedded 包未初始化时返回 DefaultEditorConfig()
func LoadEmbeddedEditorConfig() (*EditorConfig, error) {
	if !embedded.IsInitialized() {
		return DefaultEditorConfig(), nil
	}
	data, err := embedded.ReadFile(DefaultEditorConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded config: %w", err)
	}
	return ParseEditorConfig(data)
}

// Validate 检查配置合法性
func (c *EditorConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.ToolbarHeight < 0 || c.Window.ToolbarHeight >= c.Window.Height {
		return fmt.Errorf("toolbarHeight %d out of range", c.Window.ToolbarHeight)
	}
	if c.Palette.Width <= 0 || c.Palette.Width >= c.Window.Width {
		return fmt.Errorf("palette width %d out of range (window width %d)", c.Palette.Width, c.Window.Width)
	}
	if c.Palette.Padding < 0 {
		return fmt.Errorf("palette padding cannot be negative, got %d", c.Palette.Padding)
	}
	if err := tilemap.ValidateMapSize(c.Map.Columns, c.Map.Rows); err != nil {
		return fmt.Errorf("map: %w", err)
	}
	if c.Map.TileWidth <= 0 || c.Map.TileHeight <= 0 {
		return fmt.Errorf("map: %w: tile size %dx%d", tilemap.ErrInvalidDimension, c.Map.TileWidth, c.Map.TileHeight)
	}
	if c.ScrollSpeed <= 0 {
		return fmt.Errorf("scrollSpeed must be positive, got %v", c.ScrollSpeed)
	}
	for name, value := range map[string]string{
		"background":        c.Colors.Background,
		"grid":              c.Colors.Grid,
		"collision":         c.Colors.Collision,
		"selection":         c.Colors.Selection,
		"paletteBackground": c.Colors.PaletteBg,
		"statusText":        c.Colors.StatusText,
	} {
		if _, err := ParseHexColor(value); err != nil {
			return fmt.Errorf("colors.%s: %w", name, err)
		}
	}
	return nil
}

// MapViewport 返回地图绘制区域（左侧，状态栏下方）的尺寸
func (c *EditorConfig) MapViewport() (x, y, width, height int) {
	return 0, c.Window.ToolbarHeight, c.Window.Width - c.Palette.Width, c.Window.Height - c.Window.ToolbarHeight
}

// PaletteViewport 返回调色板面板区域（右侧）的尺寸
func (c *EditorConfig) PaletteViewport() (x, y, width, height int) {
	return c.Window.Width - c.Palette.Width, c.Window.ToolbarHeight, c.Palette.Width, c.Window.Height - c.Window.ToolbarHeight
}

// ParseHexColor 解析 #RRGGBB / #RRGGBBAA 颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q (want #RRGGBB or #RRGGBBAA)", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustColor 解析已通过 Validate 的颜色
func MustColor(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}
