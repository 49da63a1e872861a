package logger

import (
	"testing"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/config"
)

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Error("无效日志级别应报错")
	}
}

func TestNewLogger_Console(t *testing.T) {
	l, err := NewLogger(&config.LogConfig{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}
	if !l.Core().Enabled(-1) {
		t.Error("debug 级别应启用")
	}
}
