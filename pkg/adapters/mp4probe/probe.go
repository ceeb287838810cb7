// Package mp4probe reads video stream metadata from MP4 containers.
package mp4probe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecVP9     Codec = "vp9"
	CodecUnknown Codec = "unknown"
)

// ErrNoVideoTrack is returned when the container holds no video track.
var ErrNoVideoTrack = errors.New("mp4probe: no video track found")

// Info describes the first video track of a file.
type Info struct {
	Codec      Codec
	TrackID    uint32
	Width      int
	Height     int
	FrameCount int
	Timescale  uint32
	DurationMs float64
	FPS        float64
	Fragmented bool
	// Rotation is the clockwise display rotation in degrees: 0, 90, 180 or 270.
	Rotation int
}

// DisplaySize returns the frame size after applying Rotation.
func (i Info) DisplaySize() (int, int) {
	if i.Rotation == 90 || i.Rotation == 270 {
		return i.Height, i.Width
	}
	return i.Width, i.Height
}

// FrameDurationMs returns the nominal duration of one frame.
func (i Info) FrameDurationMs() float64 {
	if i.FPS <= 0 {
		return 0
	}
	return 1000 / i.FPS
}

// Probe reads metadata from the MP4 file at path.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader reads metadata from an MP4 stream. Media data is not loaded.
func ProbeReader(reader io.ReadSeeker) (Info, error) {
	mp4File, err := mp4.DecodeFile(reader, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return Info{}, fmt.Errorf("decode mp4: %w", err)
	}

	var info Info
	if mp4File.IsFragmented() {
		info, err = probeFragmented(mp4File)
	} else {
		info, err = probeProgressive(mp4File)
	}
	if err != nil {
		return Info{}, err
	}

	rotations, err := trackRotations(reader)
	if err != nil {
		return Info{}, fmt.Errorf("read display matrix: %w", err)
	}
	info.Rotation = rotations[info.TrackID]
	return info, nil
}

func probeProgressive(mp4File *mp4.File) (Info, error) {
	if mp4File.Moov == nil {
		return Info{}, fmt.Errorf("no moov box found")
	}
	trak := findVideoTrack(mp4File.Moov)
	if trak == nil {
		return Info{}, ErrNoVideoTrack
	}

	info := trackInfo(trak)
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz != nil {
		info.FrameCount = int(stbl.Stsz.SampleNumber)
	}

	var ticks uint64
	if trak.Mdia.Mdhd != nil {
		ticks = trak.Mdia.Mdhd.Duration
	}
	if ticks == 0 && stbl.Stts != nil {
		for i, n := range stbl.Stts.SampleCount {
			ticks += uint64(n) * uint64(stbl.Stts.SampleTimeDelta[i])
		}
	}

	info.setTiming(ticks)
	return info, nil
}

func probeFragmented(mp4File *mp4.File) (Info, error) {
	if mp4File.Init == nil || mp4File.Init.Moov == nil {
		return Info{}, fmt.Errorf("no init segment found")
	}
	moov := mp4File.Init.Moov
	trak := findVideoTrack(moov)
	if trak == nil {
		return Info{}, ErrNoVideoTrack
	}

	info := trackInfo(trak)
	info.Fragmented = true
	trackID := info.TrackID

	var defaultDur uint32
	if moov.Mvex != nil {
		for _, trex := range moov.Mvex.Trexs {
			if trex.TrackID == trackID {
				defaultDur = trex.DefaultSampleDuration
			}
		}
	}

	var ticks uint64
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				dur := defaultDur
				if traf.Tfhd.HasDefaultSampleDuration() {
					dur = traf.Tfhd.DefaultSampleDuration
				}
				for _, trun := range traf.Truns {
					info.FrameCount += int(trun.SampleCount())
					for _, s := range trun.Samples {
						if trun.HasSampleDuration() {
							ticks += uint64(s.Dur)
						} else {
							ticks += uint64(dur)
						}
					}
				}
			}
		}
	}

	info.setTiming(ticks)
	return info, nil
}

func (i *Info) setTiming(ticks uint64) {
	if i.Timescale == 0 || ticks == 0 {
		return
	}
	seconds := float64(ticks) / float64(i.Timescale)
	i.DurationMs = seconds * 1000
	if i.FrameCount > 0 {
		i.FPS = float64(i.FrameCount) / seconds
	}
}

func findVideoTrack(moov *mp4.MoovBox) *mp4.TrakBox {
	for _, trak := range moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			continue
		}
		return trak
	}
	return nil
}

func trackInfo(trak *mp4.TrakBox) Info {
	info := Info{Codec: CodecUnknown}
	if trak.Mdia.Mdhd != nil {
		info.Timescale = trak.Mdia.Mdhd.Timescale
	}
	if trak.Tkhd != nil {
		info.TrackID = trak.Tkhd.TrackID
		info.Width = int(uint32(trak.Tkhd.Width) >> 16)
		info.Height = int(uint32(trak.Tkhd.Height) >> 16)
	}

	stsd := trak.Mdia.Minf.Stbl.Stsd
	if stsd == nil {
		return info
	}
	for _, child := range stsd.Children {
		codec := codecForType(child.Type())
		if codec == CodecUnknown {
			continue
		}
		info.Codec = codec
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok && vse.Width > 0 && vse.Height > 0 {
			info.Width = int(vse.Width)
			info.Height = int(vse.Height)
		}
		break
	}
	return info
}

func codecForType(boxType string) Codec {
	switch boxType {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "av01":
		return CodecAV1
	case "vp09":
		return CodecVP9
	default:
		return CodecUnknown
	}
}
