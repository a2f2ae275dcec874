package utils

import (
	"fmt"
	"math"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
)

const (
	KiB = 1024.0
	MiB = 1024.0 * KiB
)

var sizeUnits = []string{"K", "M", "G", "T", "P"}

// TrimMarkers 去掉 quota / lfs 在超额数值前后加的 '*' 或 '+'
func TrimMarkers(s string) string {
	return strings.Trim(strings.TrimSpace(s), "*+")
}

// ParseSize 把 quota 工具输出的容量转换为 MiB。
// 工具输出的 K/M/G/T 都是二进制单位，没有后缀时单位是 KiB (1K block)。
// 无法解析时返回 0。
func ParseSize(s string) float64 {
	s = TrimMarkers(s)
	if s == "" {
		return 0
	}

	s = strings.TrimSuffix(strings.TrimSuffix(s, "B"), "b")
	if s == "" {
		return 0
	}
	last := s[len(s)-1]
	switch {
	case last >= '0' && last <= '9':
		s += "Ki"
	case strings.ContainsRune("kKmMgGtTpPeE", rune(last)):
		s = s[:len(s)-1] + strings.ToUpper(string(last)) + "i"
	}

	return parseQuantity(s) / MiB
}

// ParseCount 把文件数转换为绝对数量，k/K = 1000，m/M = 1000000。
// 无法解析时返回 0。
func ParseCount(s string) int64 {
	s = TrimMarkers(s)
	if s == "" {
		return 0
	}

	switch s[len(s)-1] {
	case 'K':
		s = s[:len(s)-1] + "k"
	case 'm':
		// resource 里小写 m 是 milli
		s = s[:len(s)-1] + "M"
	}

	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0
	}
	return q.Value()
}

func parseQuantity(s string) float64 {
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0
	}
	return q.AsApproximateFloat64()
}

// FormatSize 把 MiB 数值格式化为最小且数值 < 1024 的单位，如 512M、2.0G。
// 按舍入后的数值选单位，1023.97M 输出 1.0G 而不是 1024M。
func FormatSize(mib float64) string {
	v := mib * KiB
	for i, unit := range sizeUnits {
		decimals := 1
		if i <= 1 {
			decimals = 0
		}
		if round(v, decimals) < 1024 || i == len(sizeUnits)-1 {
			return fmt.Sprintf("%.*f%s", decimals, v, unit)
		}
		v /= 1024
	}
	return ""
}

// FormatNumber 格式化文件数: 999, 1.5k, 2.0M
func FormatNumber(n int64) string {
	switch k := float64(n) / 1000; {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case round(k, 1) < 1000:
		return fmt.Sprintf("%.1fk", k)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
