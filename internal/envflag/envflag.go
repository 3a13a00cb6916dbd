// Package envflag 给 cmd/* 的 flag 默认值提供环境变量兜底：
//
//	addr := flag.String("addr", envflag.String("TRICHESS_ADDR", ":2888"), "listen address")
package envflag

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Bool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

// Int 解析失败时用默认值
func Int(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Millis 读毫秒数，例如 TRICHESS_TIME_MS=1500
func Millis(key string, def time.Duration) time.Duration {
	if n := Int(key, -1); n >= 0 {
		return time.Duration(n) * time.Millisecond
	}
	return def
}
