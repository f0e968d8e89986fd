package app

import (
	"testing"

	"github.com/decker502/tilemaker/pkg/config"
	"github.com/decker502/tilemaker/pkg/game"
)

func TestResolveNewMap(t *testing.T) {
	editorConfig := config.DefaultEditorConfig()

	tests := []struct {
		name  string
		cfg   Config
		prefs game.EditorSettings
		want  newMapParams
	}{
		{
			name: "全部使用配置默认值",
			want: newMapParams{tileWidth: 32, tileHeight: 32, columns: 24, rows: 18},
		},
		{
			name:  "上次设置优先于配置",
			prefs: game.EditorSettings{LastTilesetPath: "old.png", TileWidth: 16, TileHeight: 16, Columns: 40, Rows: 30},
			want:  newMapParams{tilesetPath: "old.png", tileWidth: 16, tileHeight: 16, columns: 40, rows: 30},
		},
		{
			name:  "命令行参数优先",
			cfg:   Config{TilesetPath: "new.png", TileWidth: 48, Rows: 10},
			prefs: game.EditorSettings{LastTilesetPath: "old.png", TileWidth: 16, TileHeight: 16, Columns: 40, Rows: 30},
			want:  newMapParams{tilesetPath: "new.png", tileWidth: 48, tileHeight: 16, columns: 40, rows: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := tt.prefs
			if got := resolveNewMap(tt.cfg, editorConfig, &prefs); got != tt.want {
				t.Errorf("resolveNewMap = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadEditorConfig(t *testing.T) {
	cfg, err := loadEditorConfig("")
	if err != nil {
		t.Fatalf("embedded defaults error: %v", err)
	}
	if cfg.Window.Width != 1056 {
		t.Errorf("window width = %d", cfg.Window.Width)
	}
	if _, err := loadEditorConfig("does/not/exist.yaml"); err == nil {
		t.Error("expected error for a missing config file")
	}
}
