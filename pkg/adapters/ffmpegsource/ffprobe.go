package ffmpegsource

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/user/vidplay/pkg/adapters/mp4probe"
)

// ErrFFprobeNotFound is returned when a non-MP4 input needs ffprobe and none
// can be located.
var ErrFFprobeNotFound = errors.New("ffprobe not found")

// findFFprobe prefers the ffprobe installed next to ffmpeg, then PATH.
func findFFprobe(ffmpegPath string) (string, error) {
	execName := "ffprobe"
	if runtime.GOOS == "windows" {
		execName = "ffprobe.exe"
	}

	if ffmpegPath != "" {
		sibling := filepath.Join(filepath.Dir(ffmpegPath), execName)
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}

	path, err := exec.LookPath(execName)
	if err != nil {
		return "", ErrFFprobeNotFound
	}
	return path, nil
}

// probeStream asks ffprobe for the first video stream of path.
func probeStream(ffmpegPath, path string) (mp4probe.Info, error) {
	ffprobePath, err := findFFprobe(ffmpegPath)
	if err != nil {
		return mp4probe.Info{}, err
	}

	cmd := exec.Command(ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=codec_name,width,height,nb_frames,nb_read_packets,r_frame_rate,avg_frame_rate,duration:stream_tags=rotate:stream_side_data=rotation",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return mp4probe.Info{}, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return mp4probe.Info{}, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseStreamInfo(out)
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	CodecName     string `json:"codec_name"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	NbFrames      string `json:"nb_frames"`
	NbReadPackets string `json:"nb_read_packets"`
	RFrameRate    string `json:"r_frame_rate"`
	AvgFrameRate  string `json:"avg_frame_rate"`
	Duration      string `json:"duration"`
	Tags          struct {
		Rotate string `json:"rotate"`
	} `json:"tags"`
	SideDataList []struct {
		Rotation float64 `json:"rotation"`
	} `json:"side_data_list"`
}

// parseStreamInfo converts ffprobe JSON into stream metadata.
func parseStreamInfo(data []byte) (mp4probe.Info, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return mp4probe.Info{}, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return mp4probe.Info{}, mp4probe.ErrNoVideoTrack
	}
	st := out.Streams[0]

	info := mp4probe.Info{
		Codec:  mp4probe.Codec(st.CodecName),
		Width:  st.Width,
		Height: st.Height,
		FPS:    parseRate(st.AvgFrameRate),
	}
	if info.Codec == "" {
		info.Codec = mp4probe.CodecUnknown
	}
	if info.FPS <= 0 {
		info.FPS = parseRate(st.RFrameRate)
	}
	if seconds, err := strconv.ParseFloat(st.Duration, 64); err == nil && seconds > 0 {
		info.DurationMs = seconds * 1000
	}

	info.FrameCount, _ = strconv.Atoi(st.NbFrames)
	if info.FrameCount <= 0 {
		info.FrameCount, _ = strconv.Atoi(st.NbReadPackets)
	}
	if info.FrameCount <= 0 && info.DurationMs > 0 {
		info.FrameCount = int(math.Round(info.DurationMs * info.FPS / 1000))
	}
	if info.DurationMs <= 0 && info.FPS > 0 {
		info.DurationMs = float64(info.FrameCount) * 1000 / info.FPS
	}

	info.Rotation = streamRotation(st)
	return info, nil
}

// streamRotation normalizes ffprobe's rotation to clockwise degrees.
// Display matrix side data is counter-clockwise; the legacy rotate tag is
// clockwise.
func streamRotation(st ffprobeStream) int {
	var deg float64
	if st.Tags.Rotate != "" {
		deg, _ = strconv.ParseFloat(st.Tags.Rotate, 64)
	}
	for _, sd := range st.SideDataList {
		if sd.Rotation != 0 {
			deg = -sd.Rotation
			break
		}
	}
	quarter := int(math.Round(deg / 90))
	return ((quarter%4)+4)%4 * 90
}

// parseRate parses an ffprobe rational such as "30000/1001".
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
