// Package main provides localization for the vidplay CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Commands
		"Frame-accurate video player with a timecode overlay.": "タイムコード表示付きのフレーム単位動画プレーヤー",
		"Play a video file with keyboard scrubbing.":           "キーボード操作で動画ファイルを再生",
		"Print stream information for an MP4 file.":            "MP4ファイルのストリーム情報を表示",
		"Show version information.":                            "バージョン情報を表示",

		// Probe output
		"File: %s":             "ファイル: %s",
		"Codec: %s":            "コーデック: %s",
		"Size: %dx%d":          "サイズ: %dx%d",
		"Frames: %d":           "フレーム数: %d",
		"Frame rate: %.3f fps": "フレームレート: %.3f fps",
		"Duration: %s":         "再生時間: %s",
		"Layout: fragmented":   "構造: フラグメント化",
		"Rotation: %d degrees": "回転: %d 度",
		"Summary saved to %s":  "サマリーを %s に保存しました",

		// Version output
		"vidplay version %s": "vidplay バージョン %s",
		"Transforms: %s":     "変換: %s",
	})
}
