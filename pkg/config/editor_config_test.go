package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/decker502/tilemaker/pkg/tilemap"
)

// TestDefaultEditorConfig 测试默认配置合法且与原版默认值一致
func TestDefaultEditorConfig(t *testing.T) {
	cfg := DefaultEditorConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Map.Columns != 24 || cfg.Map.Rows != 18 {
		t.Errorf("default map = %dx%d, want 24x18", cfg.Map.Columns, cfg.Map.Rows)
	}
	if cfg.Map.TileWidth != 32 || cfg.Map.TileHeight != 32 {
		t.Errorf("default tile = %dx%d, want 32x32", cfg.Map.TileWidth, cfg.Map.TileHeight)
	}
	if cfg.Palette.Padding != 5 || cfg.Palette.Width != 256 {
		t.Errorf("default palette = width %d padding %d", cfg.Palette.Width, cfg.Palette.Padding)
	}
}

// TestEmbeddedDefaultsMatch 测试 data/editor.yaml 与内置默认值一致
func TestEmbeddedDefaultsMatch(t *testing.T) {
	path := filepath.Join("..", "..", DefaultEditorConfigPath)
	if _, err := os.Stat(path); err != nil {
		t.Skipf("default config file not found: %v", err)
	}
	cfg, err := LoadEditorConfig(path)
	if err != nil {
		t.Fatalf("LoadEditorConfig error: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultEditorConfig()) {
		t.Errorf("data/editor.yaml = %+v, want %+v", cfg, DefaultEditorConfig())
	}
}

// TestLoadEmbeddedEditorConfig_NotInitialized 测试未初始化内嵌资源时使用内置默认值
func TestLoadEmbeddedEditorConfig_NotInitialized(t *testing.T) {
	cfg, err := LoadEmbeddedEditorConfig()
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if cfg.Map.Columns != 24 {
		t.Errorf("columns = %d, want 24", cfg.Map.Columns)
	}
}

// TestParseEditorConfig_PartialOverride 测试部分覆盖保留其他默认值
func TestParseEditorConfig_PartialOverride(t *testing.T) {
	data := []byte(`
map:
  columns: 40
  tileWidth: 16
palette:
  padding: 2
`)
	cfg, err := ParseEditorConfig(data)
	if err != nil {
		t.Fatalf("ParseEditorConfig error: %v", err)
	}
	if cfg.Map.Columns != 40 || cfg.Map.TileWidth != 16 {
		t.Errorf("map = %+v", cfg.Map)
	}
	if cfg.Map.Rows != 18 || cfg.Map.TileHeight != 32 {
		t.Errorf("defaults lost: %+v", cfg.Map)
	}
	if cfg.Palette.Padding != 2 || cfg.Palette.Width != 256 {
		t.Errorf("palette = %+v", cfg.Palette)
	}
}

// TestParseEditorConfig_Invalid 测试非法配置
func TestParseEditorConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"YAML 语法错误", "map: [1, 2"},
		{"列数过小", "map:\n  columns: 1\n"},
		{"行数过大", "map:\n  rows: 2000\n"},
		{"瓦片尺寸为零", "map:\n  tileHeight: 0\n"},
		{"面板宽于窗口", "palette:\n  width: 5000\n"},
		{"间距为负", "palette:\n  padding: -1\n"},
		{"颜色非法", "colors:\n  grid: \"blue\"\n"},
		{"滚动速度为零", "scrollSpeed: 0\n"},
		{"窗口高度为负", "window:\n  height: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseEditorConfig([]byte(tt.yaml)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// TestParseEditorConfig_InvalidDimensionWrapped 测试尺寸错误可用 errors.Is 判断
func TestParseEditorConfig_InvalidDimensionWrapped(t *testing.T) {
	_, err := ParseEditorConfig([]byte("map:\n  columns: 0\n"))
	if !errors.Is(err, tilemap.ErrInvalidDimension) {
		t.Errorf("error = %v, want ErrInvalidDimension", err)
	}
}

// TestLoadEditorConfig_FileNotFound 测试文件不存在
func TestLoadEditorConfig_FileNotFound(t *testing.T) {
	if _, err := LoadEditorConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestParseHexColor 测试颜色解析
func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff0000", color.RGBA{R: 255, A: 255}, false},
		{"00ffff", color.RGBA{G: 255, B: 255, A: 255}, false},
		{"#ff000080", color.RGBA{R: 255, A: 128}, false},
		{"#fff", color.RGBA{}, true},
		{"#gg0000", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestViewports 测试地图区域和调色板区域互不重叠
func TestViewports(t *testing.T) {
	cfg := DefaultEditorConfig()
	mx, my, mw, mh := cfg.MapViewport()
	px, py, pw, ph := cfg.PaletteViewport()
	if mx != 0 || my != cfg.Window.ToolbarHeight {
		t.Errorf("map viewport origin = (%d, %d)", mx, my)
	}
	if mx+mw != px {
		t.Errorf("map viewport ends at %d, palette starts at %d", mx+mw, px)
	}
	if px+pw != cfg.Window.Width || py+ph != cfg.Window.Height || mh != ph {
		t.Errorf("palette viewport = (%d, %d, %d, %d)", px, py, pw, ph)
	}
}
