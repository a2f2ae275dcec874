package threshold

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Severity int

const (
	Normal Severity = iota
	Warning
	Critical
)

const (
	// WarningPct 软限制使用率达到该值时告警
	WarningPct = 75.0
	FullPct    = 100.0
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "normal"
	}
}

// Usage 是一个数量 (空间或文件数) 相对软/硬限制的评估结果
type Usage struct {
	PctSoft  float64
	PctHard  float64
	Severity Severity

	// SoftExceeded 为 true 时渲染宽限期信息
	SoftExceeded bool
}

// Evaluate 计算使用率和告警等级，空间与文件数共用同一公式。
// soft 或 hard 只有一个为 0 时用另一个代替。
func Evaluate(used, soft, hard float64, grace string) Usage {
	if soft <= 0 {
		soft = hard
	}
	if hard <= 0 {
		hard = soft
	}

	var u Usage
	if soft > 0 {
		u.PctSoft = used / soft * 100
	}
	if hard > 0 {
		u.PctHard = used / hard * 100
	}
	u.SoftExceeded = u.PctSoft >= FullPct

	switch {
	case u.PctHard >= FullPct:
		u.Severity = Critical
	case u.SoftExceeded && !GraceRemaining(grace):
		// 超过软限制却没有剩余宽限期 (包括源工具根本没给出 grace 列)
		u.Severity = Critical
	case u.PctSoft >= WarningPct:
		u.Severity = Warning
	default:
		u.Severity = Normal
	}
	return u
}

var (
	clockPattern   = regexp.MustCompile(`^(\d+):(\d{1,2})$`)
	compactPattern = regexp.MustCompile(`^(\d+)(days?|hours?|minutes?|mins?)$`)
	lustrePattern  = regexp.MustCompile(`^(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)
	prefixPattern  = regexp.MustCompile(`^(\d+)([A-Za-z]+)$`)
)

// GraceRemaining 判断宽限期是否还有剩余。
// 空值、none、expired 以及数值为 0 的时长都视为已过期。
func GraceRemaining(grace string) bool {
	g := strings.ToLower(strings.TrimSpace(grace))
	switch g {
	case "", "none", "expired", "-":
		return false
	}

	if m := clockPattern.FindStringSubmatch(g); m != nil {
		return atoi(m[1])+atoi(m[2]) > 0
	}
	if m := compactPattern.FindStringSubmatch(g); m != nil {
		return atoi(m[1]) > 0
	}
	if m := lustrePattern.FindStringSubmatch(g); m != nil {
		return atoi(m[1])+atoi(m[2])+atoi(m[3])+atoi(m[4]) > 0
	}
	return true
}

// FormatGrace 把宽限期转换为可读文本:
//
//	"13:45"    -> "13 hours 45 minutes"
//	"50:00"    -> "2 days 2 hours"
//	"6days"    -> "6 days"
//	"1mins"    -> "1 minute"
//	"6d23h59m" -> "6 days 23 hours 59 minutes"
//
// 无法识别的格式只在数字和字母之间补一个空格。
func FormatGrace(grace string) string {
	g := strings.TrimSpace(grace)

	if m := clockPattern.FindStringSubmatch(g); m != nil {
		hours, minutes := atoi(m[1]), atoi(m[2])
		return breakdown(hours/24, hours%24, minutes, 0)
	}

	if m := compactPattern.FindStringSubmatch(g); m != nil {
		unit := strings.TrimSuffix(m[2], "s")
		if unit == "min" {
			unit = "minute"
		}
		return plural(atoi(m[1]), unit)
	}

	if m := lustrePattern.FindStringSubmatch(g); m != nil && g != "" {
		return breakdown(atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]))
	}

	if m := prefixPattern.FindStringSubmatch(g); m != nil {
		return m[1] + " " + m[2]
	}
	return g
}

func breakdown(days, hours, minutes, seconds int) string {
	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if seconds > 0 {
		parts = append(parts, plural(seconds, "second"))
	}
	if len(parts) == 0 {
		return "0 minutes"
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
