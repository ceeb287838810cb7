package summarizer

import (
	"fmt"
	"strings"

	"github.com/ideamans/go-l10n"

	"github.com/user/vidplay/pkg/clock"
)

// NewMarkdownFormatter returns a Formatter that renders a Summary as a
// Markdown document with a file section and a stream table.
func NewMarkdownFormatter() Formatter {
	return FormatFunc(formatMarkdown)
}

func formatMarkdown(s *Summary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", l10n.T("Video Summary"))
	fmt.Fprintf(&sb, "%s: %s\n\n", l10n.T("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&sb, "## %s\n\n", l10n.T("File"))
	writeTable(&sb, [][2]string{
		{l10n.T("Path"), s.File.Path},
		{l10n.T("File Size"), formatBytes(s.File.Size)},
	})

	st := s.Stream
	layout := l10n.T("Progressive")
	if st.Fragmented {
		layout = l10n.T("Fragmented")
	}

	fmt.Fprintf(&sb, "\n## %s\n\n", l10n.T("Stream"))
	writeTable(&sb, [][2]string{
		{l10n.T("Codec"), st.Codec},
		{l10n.T("Frame Size"), fmt.Sprintf("%dx%d", st.Width, st.Height)},
		{l10n.T("Frame Count"), fmt.Sprintf("%d", st.FrameCount)},
		{l10n.T("Frame Rate"), fmt.Sprintf("%.3f fps", st.FPS)},
		{l10n.T("Duration"), clock.Format(st.DurationMs)},
		{l10n.T("Layout"), layout},
		{l10n.T("Rotation"), fmt.Sprintf("%d°", st.Rotation)},
	})

	return sb.String()
}

func writeTable(sb *strings.Builder, rows [][2]string) {
	fmt.Fprintf(sb, "| %s | %s |\n", l10n.T("Item"), l10n.T("Value"))
	sb.WriteString("|------|-------|\n")
	for _, row := range rows {
		fmt.Fprintf(sb, "| %s | %s |\n", row[0], row[1])
	}
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		"Video Summary": "動画サマリー",
		"Generated":     "生成日時",
		"File":          "ファイル",
		"Path":          "パス",
		"File Size":     "ファイルサイズ",
		"Stream":        "ストリーム",
		"Codec":         "コーデック",
		"Frame Size":    "フレームサイズ",
		"Frame Count":   "フレーム数",
		"Frame Rate":    "フレームレート",
		"Duration":      "再生時間",
		"Layout":        "構造",
		"Progressive":   "プログレッシブ",
		"Fragmented":    "フラグメント化",
		"Rotation":      "回転",
		"Item":          "項目",
		"Value":         "値",
	})
}
