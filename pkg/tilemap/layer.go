package tilemap

// Layer 当前绘制目标图层
// 三种模式互斥：不绘制、绘制瓦片层、绘制碰撞层
type Layer int

const (
	LayerNone Layer = iota
	LayerTile
	LayerCollision
)

// String 返回图层名称（用于日志和状态栏）
func (l Layer) String() string {
	switch l {
	case LayerTile:
		return "tiles"
	case LayerCollision:
		return "collisions"
	default:
		return "none"
	}
}

// Toggle 切换绘制模式
// 再次选择当前模式时回到 LayerNone（工具栏按钮组的行为）
func (l Layer) Toggle(target Layer) Layer {
	if l == target {
		return LayerNone
	}
	return target
}
