package utils

import (
	"os"
)

// DirExists 判断路径存在且为目录，用于检测 Lustre 上是否有用户目录
func DirExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.IsDir()
}
