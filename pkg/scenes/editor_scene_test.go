package scenes

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/tilemaker/pkg/config"
	"github.com/decker502/tilemaker/pkg/game"
	"github.com/decker502/tilemaker/pkg/tilemap"
	"github.com/hajimehoshi/ebiten/v2"
)

// keyInput 只模拟按键的输入源，指针停在窗口外
type keyInput struct {
	just map[ebiten.Key]bool
}

func (k *keyInput) CursorPosition() (int, int)                       { return -1, -1 }
func (k *keyInput) IsMouseButtonPressed(ebiten.MouseButton) bool     { return false }
func (k *keyInput) IsMouseButtonJustPressed(ebiten.MouseButton) bool { return false }
func (k *keyInput) IsKeyJustPressed(key ebiten.Key) bool             { return k.just[key] }
func (k *keyInput) IsKeyPressed(ebiten.Key) bool                     { return false }
func (k *keyInput) Wheel() (float64, float64)                        { return 0, 0 }

// writeTileset 写入 cols x rows 个 32px 瓦片的 PNG 图集
func writeTileset(t *testing.T, dir string, cols, rows int) string {
	t.Helper()
	path := filepath.Join(dir, "tiles.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, cols*32, rows*32))); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestScene(t *testing.T, input *keyInput) (*EditorScene, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultEditorConfig()
	cfg.SaveDir = filepath.Join(dir, "maps")

	opts := EditorSceneOptions{
		Config:   cfg,
		Settings: game.NewSettingsManager(nil),
	}
	if input != nil {
		opts.Input = input
	}
	return NewEditorScene(opts), dir
}

func TestEditorScene_LoadTileset(t *testing.T) {
	scene, dir := newTestScene(t, &keyInput{})
	path := writeTileset(t, dir, 3, 2)

	if err := scene.LoadTileset(path, 32, 32, 10, 8); err != nil {
		t.Fatalf("LoadTileset error: %v", err)
	}
	grid := scene.Session().Grid()
	if grid == nil || grid.Columns() != 10 || grid.Rows() != 8 {
		t.Fatalf("grid = %+v", grid)
	}
	if scene.Session().Palette().TileCount() != 6 {
		t.Errorf("palette tiles = %d, want 6", scene.Session().Palette().TileCount())
	}

	prefs := scene.settings.GetSettings()
	if prefs.LastTilesetPath != path || prefs.Columns != 10 || prefs.TileWidth != 32 {
		t.Errorf("settings not remembered: %+v", prefs)
	}
}

func TestEditorScene_LoadTilesetFailureKeepsMap(t *testing.T) {
	scene, dir := newTestScene(t, &keyInput{})
	path := writeTileset(t, dir, 2, 2)
	if err := scene.LoadTileset(path, 32, 32, 5, 5); err != nil {
		t.Fatal(err)
	}
	before := scene.Session().Grid()

	tests := []struct {
		name string
		path string
		tw   int
		cols int
		want error
	}{
		{"文件不存在", filepath.Join(dir, "missing.png"), 32, 5, tilemap.ErrDecodeFailure},
		{"瓦片宽度非法", path, 0, 5, tilemap.ErrInvalidDimension},
		{"列数越界", path, 32, 2000, tilemap.ErrInvalidDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scene.LoadTileset(tt.path, tt.tw, 32, tt.cols, 5)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if scene.Session().Grid() != before {
				t.Error("failed load replaced the current map")
			}
		})
	}
}

func TestEditorScene_ExportImport(t *testing.T) {
	input := &keyInput{just: map[ebiten.Key]bool{}}
	scene, dir := newTestScene(t, input)
	if err := scene.LoadTileset(writeTileset(t, dir, 2, 2), 32, 32, 4, 4); err != nil {
		t.Fatal(err)
	}
	grid := scene.Session().Grid()
	grid.PaintTile(1, 1, 3)
	grid.SetCollision(2, 2, true)

	// E 键导出到 saveDir/map.txt
	input.just[ebiten.KeyE] = true
	scene.Update(1.0 / 60)
	input.just[ebiten.KeyE] = false

	want := filepath.Join(dir, "maps", "map.txt")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	if scene.settings.GetSettings().LastExportPath != "map" {
		t.Errorf("LastExportPath = %q", scene.settings.GetSettings().LastExportPath)
	}

	// 修改后用 I 键导入上次导出的文件
	exported := grid.Export()
	scene.Session().AddColumn()
	input.just[ebiten.KeyI] = true
	scene.Update(1.0 / 60)
	input.just[ebiten.KeyI] = false

	if got := scene.Session().Grid().Export(); got != exported {
		t.Errorf("imported map = %q, want %q", got, exported)
	}
}

func TestEditorScene_ExportNameOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultEditorConfig()
	cfg.SaveDir = dir
	scene := NewEditorScene(EditorSceneOptions{
		Config:     cfg,
		Settings:   game.NewSettingsManager(nil),
		Input:      &keyInput{},
		ExportName: "level1",
	})
	if err := scene.LoadTileset(writeTileset(t, dir, 1, 1), 32, 32, 2, 2); err != nil {
		t.Fatal(err)
	}
	path, err := scene.ExportMap()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "level1.txt") {
		t.Errorf("path = %q", path)
	}
}

func TestEditorScene_ImportMissingFile(t *testing.T) {
	scene, dir := newTestScene(t, &keyInput{})
	if err := scene.ImportMap(filepath.Join(dir, "nope.txt")); err == nil {
		t.Error("expected error importing a missing file")
	}
	if scene.Session().CanDraw() {
		t.Error("failed import should not create a map")
	}
}

func TestEditorScene_SaveOnExit(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	scene := NewEditorScene(EditorSceneOptions{
		Settings: settings,
		Input:    &keyInput{},
	})
	scene.Session().ToggleGridView()

	if !scene.SaveOnExit() {
		t.Fatal("SaveOnExit returned false in degraded mode")
	}
	if settings.GetSettings().ShowGrid {
		t.Error("grid view flag should be saved as hidden")
	}

	var _ game.Saveable = scene
}

func TestEditorScene_RestoresViewFlags(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	settings.SetViewFlags(false, true, false)
	scene := NewEditorScene(EditorSceneOptions{Settings: settings, Input: &keyInput{}})

	tiles, collisions, grid := scene.Session().ViewFlags()
	if tiles || !collisions || grid {
		t.Errorf("view flags = %v/%v/%v, want false/true/false", tiles, collisions, grid)
	}
}
