package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Player (info)
		"Opened %s: %dx%d, %d frames at %.2f fps": "%s を開きました: %dx%d, %d フレーム, %.2f fps",
		"Interrupted, shutting down...":           "中断されました。終了中...",

		// Player (debug/warn)
		"Could not read the first frame":    "最初のフレームを読み込めませんでした",
		"End of stream at frame %d":         "フレーム %d でストリームの終端に達しました",
		"Playback stopped by user":          "ユーザーが再生を停止しました",
		"Failed to save debug frame %d: %s": "デバッグフレーム %d の保存に失敗しました: %s",
		"Failed to release video: %s":       "動画の解放に失敗しました: %s",
		"Using %s backend (%s)":             "%s バックエンドを使用 (%s)",

		// Sources
		"Failed to start ffmpeg: %s":                           "ffmpeg の起動に失敗しました: %s",
		"Failed to read frame %d: %s":                          "フレーム %d の読み込みに失敗しました: %s",
		"Started ffmpeg at frame %d":                           "フレーム %d から ffmpeg を開始しました",
		"ffmpeg: %s":                                           "ffmpeg: %s",
		"Container metadata unavailable for %s, asking ffprobe: %s": "%s のコンテナ情報を読めないため ffprobe を使用します: %s",
		"OpenCV could not open %s, falling back to ffmpeg: %s": "OpenCV で %s を開けないため ffmpeg を使用します: %s",

		// Window (sdl component)
		"Window opened: %dx%d":                                 "ウィンドウを開きました: %dx%d",
		"Accelerated renderer unavailable, using software: %s": "ハードウェアレンダラーが使えないためソフトウェアを使用します: %s",
		"SetLogicalSize failed: %s":                            "SetLogicalSize に失敗しました: %s",
		"Failed to destroy window: %s":                         "ウィンドウの破棄に失敗しました: %s",
	})
}
