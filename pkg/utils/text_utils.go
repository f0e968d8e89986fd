package utils

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ellipsis 截断文本时追加的后缀
const ellipsis = "..."

// LoadDefaultFace 加载内置的 Go Regular 字体
// 用于状态栏和面板标签，不依赖外部字体文件
func LoadDefaultFace(size float64) (*text.GoTextFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load default font: %w", err)
	}
	return &text.GoTextFace{
		Source: source,
		Size:   size,
	}, nil
}

// FitText 将文本截断到指定宽度内
// 参数:
//   - textStr: 要显示的文本
//   - font: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - string: 原文本（未超宽时），或截断后追加 "..." 的文本
//
// 按字符截断，支持多字节字符。连 "..." 都放不下时返回空字符串。
func FitText(textStr string, font *text.GoTextFace, maxWidth float64) string {
	if textStr == "" || font == nil || maxWidth <= 0 {
		return ""
	}
	if measureTextWidth(textStr, font) <= maxWidth {
		return textStr
	}

	// 从尾部逐字符删除，直到加上省略号后不超宽
	for len(textStr) > 0 {
		_, size := utf8.DecodeLastRuneInString(textStr)
		textStr = textStr[:len(textStr)-size]
		if measureTextWidth(textStr+ellipsis, font) <= maxWidth {
			return textStr + ellipsis
		}
	}
	return ""
}

// measureTextWidth 测量文本宽度
func measureTextWidth(textStr string, font *text.GoTextFace) float64 {
	if textStr == "" || font == nil {
		return 0
	}

	// 使用 Measure 方法测量文本尺寸
	width, _ := text.Measure(textStr, font, 0)
	return width
}
