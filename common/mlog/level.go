package mlog

import (
	"fmt"
	"strings"
)

type level uint8

const (
	DebugLevel level = iota + 1
	InfoLevel
	WarnLevel
	ErrorLevel
	PanicLevel
	NaN
)

var levels = []level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel, PanicLevel}

// String 返回描述日志等级的 Level 的小写字符串形式。
func (l level) String() (levelStr string) {
	switch l {
	case DebugLevel:
		levelStr = "debug"
	case InfoLevel:
		levelStr = "info"
	case WarnLevel:
		levelStr = "warn"
	case ErrorLevel:
		levelStr = "error"
	case PanicLevel:
		levelStr = "panic"
	default:
		levelStr = "NaN"
	}
	return levelStr
}

func (l level) ColorString() (levelStr string) {
	switch l {
	case DebugLevel:
		return fmt.Sprintf("\x1b[34m%s\x1b[0m", "debug")
	case InfoLevel:
		return fmt.Sprintf("\x1b[32m%s\x1b[0m", "info")
	case WarnLevel:
		return fmt.Sprintf("\x1b[33m%s\x1b[0m", "warn")
	case ErrorLevel:
		return fmt.Sprintf("\x1b[31m%s\x1b[0m", "error")
	case PanicLevel:
		return fmt.Sprintf("\x1b[35m%s\x1b[0m", "panic")
	default:
		return fmt.Sprintf("\x1b[36m%s\x1b[0m", "NaN")
	}
}

// ParseLevel 给定描述日志等级的字符串（不区分大小写），返回其对应的 Level，无法识别时返回 NaN。
func ParseLevel(levelStr string) (lvl level) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		lvl = DebugLevel
	case "info":
		lvl = InfoLevel
	case "warn", "warning":
		lvl = WarnLevel
	case "error":
		lvl = ErrorLevel
	case "panic":
		lvl = PanicLevel
	default:
		lvl = NaN
	}
	return lvl
}
