// Package utils 提供编辑器通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenInput 从 Ebitengine 读取当前帧的输入
//
// 同时支持鼠标和触摸：有活动触摸时，第一个触摸点视为按下的左键。
type EbitenInput struct{}

// NewEbitenInput 创建输入源
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{}
}

// CursorPosition 获取当前指针位置（优先触摸）
func (EbitenInput) CursorPosition() (int, int) {
	if touchIDs := ebiten.AppendTouchIDs(nil); len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}

// IsMouseButtonPressed 检查按键是否按下（触摸视为左键）
func (EbitenInput) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	if button == ebiten.MouseButtonLeft && len(ebiten.AppendTouchIDs(nil)) > 0 {
		return true
	}
	return ebiten.IsMouseButtonPressed(button)
}

// IsMouseButtonJustPressed 检查按键是否在本帧刚按下
func (EbitenInput) IsMouseButtonJustPressed(button ebiten.MouseButton) bool {
	if button == ebiten.MouseButtonLeft && len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		return true
	}
	return inpututil.IsMouseButtonJustPressed(button)
}

// IsKeyJustPressed 检查按键是否在本帧刚按下
func (EbitenInput) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// IsKeyPressed 检查按键是否按住
func (EbitenInput) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

// Wheel 返回本帧的滚轮增量
func (EbitenInput) Wheel() (float64, float64) {
	return ebiten.Wheel()
}
