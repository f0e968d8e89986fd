package systems

import (
	"image"
	"log"

	"github.com/decker502/tilemaker/pkg/tilemap"
	"github.com/hajimehoshi/ebiten/v2"
)

// AtlasCache 将调色板的图集转换为 GPU 图片
// 图集只在更换时上传一次，地图和调色板面板共用
type AtlasCache struct {
	source image.Image
	image  *ebiten.Image
}

// NewAtlasCache 创建空缓存
func NewAtlasCache() *AtlasCache {
	return &AtlasCache{}
}

// Image 返回当前图集的 GPU 图片，调色板未加载时返回 nil
func (c *AtlasCache) Image(palette *tilemap.TilePalette) *ebiten.Image {
	if palette == nil || !palette.Loaded() {
		return nil
	}
	atlas := palette.Atlas()
	if atlas != c.source {
		if c.image != nil {
			c.image.Deallocate()
		}
		c.image = ebiten.NewImageFromImage(atlas)
		c.source = atlas
		log.Printf("[AtlasCache] Uploaded atlas %dx%d", atlas.Bounds().Dx(), atlas.Bounds().Dy())
	}
	return c.image
}

// Tile 返回瓦片的 GPU 子图，ID 无效时返回 nil
func (c *AtlasCache) Tile(palette *tilemap.TilePalette, id int) *ebiten.Image {
	img := c.Image(palette)
	if img == nil {
		return nil
	}
	rect, ok := palette.TileRect(id)
	if !ok {
		return nil
	}
	// NewImageFromImage 生成的图片原点为 (0, 0)
	rect = rect.Sub(palette.Atlas().Bounds().Min)
	return img.SubImage(rect).(*ebiten.Image)
}
