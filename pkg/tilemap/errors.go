package tilemap

import "errors"

// 地图编辑器核心错误
//
// 调用者使用 errors.Is 判断错误类型：
//
//	if errors.Is(err, tilemap.ErrInvalidDimension) {
//	    // 提示用户检查尺寸
//	}
var (
	// ErrInvalidDimension 尺寸参数非正数或超出网格范围
	// 在创建/调整尺寸/加载图集时返回，操作中止且状态不变
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrDecodeFailure 图集图片无法解码
	ErrDecodeFailure = errors.New("atlas decode failure")

	// ErrNoSelection 调色板尚未选择画笔时尝试绘制
	ErrNoSelection = errors.New("no tile selected")

	// ErrMalformedExport 导出文本格式错误（导入时返回）
	ErrMalformedExport = errors.New("malformed map export")
)
