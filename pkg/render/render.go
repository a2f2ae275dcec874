package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/terminus-io/quotabar/pkg/policy"
	"github.com/terminus-io/quotabar/pkg/quota"
	"github.com/terminus-io/quotabar/pkg/threshold"
	"github.com/terminus-io/quotabar/pkg/utils"
)

const (
	BarWidth = 50

	fillChar   = "█"
	emptyChar  = "░"
	softChar   = "│"
	hardChar   = "┃"
	headerRule = "━"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("invalid color mode %q, want auto, always or never", s)
	}
}

var tagLabels = map[policy.Tag]string{
	policy.BothDefault:      "default quota",
	policy.DefaultSpaceOnly: "default space quota, custom file quota",
	policy.DefaultFilesOnly: "custom space quota, default file quota",
	policy.Custom:           "custom quota",
}

type Renderer struct {
	out io.Writer

	severity map[threshold.Severity]lipgloss.Style
	header   lipgloss.Style
	mount    lipgloss.Style
	label    lipgloss.Style
	dim      lipgloss.Style
}

func NewRenderer(out io.Writer, mode ColorMode) *Renderer {
	lg := lipgloss.NewRenderer(out)
	switch mode {
	case ColorAlways:
		lg.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		lg.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		out: out,
		severity: map[threshold.Severity]lipgloss.Style{
			threshold.Normal:   lg.NewStyle().Foreground(lipgloss.Color("2")),
			threshold.Warning:  lg.NewStyle().Foreground(lipgloss.Color("214")),
			threshold.Critical: lg.NewStyle().Foreground(lipgloss.Color("1")),
		},
		header: lg.NewStyle().Bold(true),
		mount:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		label:  lg.NewStyle().Bold(true),
		dim:    lg.NewStyle().Faint(true),
	}
}

// Header 输出分区标题，如 "━━ NFS filesystems ━━━…"
func (r *Renderer) Header(title string) {
	rule := strings.Repeat(headerRule, max(0, BarWidth-len(title)-4))
	fmt.Fprintf(r.out, "\n%s\n", r.header.Render(fmt.Sprintf("%s %s %s", headerRule+headerRule, title, rule)))
}

// Record 渲染一个挂载点，空间和文件数两部分在限制为 0 时各自省略，
// 两者都没有限制时整个挂载点不输出
func (r *Renderer) Record(rec quota.Record, tag policy.Tag) {
	if !rec.HasSpaceLimits() && !rec.HasFileLimits() {
		return
	}
	fmt.Fprintf(r.out, "\n%s  %s\n", r.mount.Render(rec.MountPoint), r.dim.Render("("+tagLabels[tag]+")"))

	if rec.HasSpaceLimits() {
		r.quantity("Space",
			rec.UsedSpace, rec.SoftSpace, rec.HardSpace, rec.SpaceGrace,
			utils.FormatSize)
	}
	if rec.HasFileLimits() {
		r.quantity("Files",
			float64(rec.UsedFiles), float64(rec.SoftFiles), float64(rec.HardFiles), rec.FilesGrace,
			func(v float64) string { return utils.FormatNumber(int64(v)) })
	}
}

func (r *Renderer) quantity(label string, used, soft, hard float64, grace string, format func(float64) string) {
	u := threshold.Evaluate(used, soft, hard, grace)
	if soft <= 0 {
		soft = hard
	}
	if hard <= 0 {
		hard = soft
	}

	fmt.Fprintf(r.out, "  %s  %s used / %s soft / %s hard\n",
		r.label.Render(fmt.Sprintf("%-5s", label)), format(used), format(soft), format(hard))

	fmt.Fprintf(r.out, "  %s %s\n",
		r.Bar(used, soft, hard, u.Severity),
		r.severity[u.Severity].Render(fmt.Sprintf("%.1f%% of soft limit (%.1f%% of hard limit)", u.PctSoft, u.PctHard)))

	if line := r.graceLine(u, grace); line != "" {
		fmt.Fprintf(r.out, "  %s  %s\n", r.label.Render("Grace"), line)
	}
}

func (r *Renderer) graceLine(u threshold.Usage, grace string) string {
	switch {
	case u.SoftExceeded && threshold.GraceRemaining(grace):
		return r.severity[threshold.Warning].Render(
			fmt.Sprintf("%s left before the soft limit is enforced", threshold.FormatGrace(grace)))
	case u.SoftExceeded:
		return r.severity[threshold.Critical].Render("expired, the soft limit is now enforced as a hard limit")
	case grace != "":
		// quota 工具在未超软限制时不会给出宽限期，保留该分支以防万一
		return r.severity[threshold.Warning].Render(fmt.Sprintf("%s (soft limit not exceeded)", threshold.FormatGrace(grace)))
	}
	return ""
}

// BarColumns 返回填充列数和软限制所在列，均按硬限制比例计算。
// soft >= hard 时没有软限制标记，softCol 为 -1。
func BarColumns(used, soft, hard float64) (filled, softCol int) {
	if hard <= 0 {
		return 0, -1
	}
	filled = int(math.Floor(used / hard * BarWidth))
	filled = min(max(filled, 0), BarWidth)

	if soft >= hard {
		return filled, -1
	}
	softCol = int(math.Floor(soft / hard * BarWidth))
	softCol = min(max(softCol, 0), BarWidth-1)
	return filled, softCol
}

// Bar 输出 BarWidth 列的进度条以及末尾表示硬限制的标记
func (r *Renderer) Bar(used, soft, hard float64, sev threshold.Severity) string {
	filled, softCol := BarColumns(used, soft, hard)

	var b strings.Builder
	b.WriteString(r.severity[sev].Render(strings.Repeat(fillChar, filled)))
	for col := filled; col < BarWidth; col++ {
		if col == softCol {
			b.WriteString(r.label.Render(softChar))
			continue
		}
		b.WriteString(r.dim.Render(emptyChar))
	}
	b.WriteString(r.label.Render(hardChar))
	return b.String()
}

func (r *Renderer) Legend() {
	fmt.Fprintf(r.out, "\n%s %s used  %s soft limit  %s hard limit    %s  %s  %s\n",
		r.header.Render("Legend:"),
		fillChar, softChar, hardChar,
		r.severity[threshold.Normal].Render("normal"),
		r.severity[threshold.Warning].Render(fmt.Sprintf("≥%.0f%% of soft limit", threshold.WarningPct)),
		r.severity[threshold.Critical].Render("over hard limit or grace expired"))
}
