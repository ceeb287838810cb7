package mp4probe

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Eyevinn/mp4ff/bits"
	"github.com/Eyevinn/mp4ff/mp4"
)

// mp4.TkhdBox drops the display matrix, so rotation is read from the raw
// tkhd payloads.

// trackRotations maps track IDs to their clockwise display rotation.
func trackRotations(reader io.ReadSeeker) (map[uint32]int, error) {
	end, err := reader.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	rotations := make(map[uint32]int)
	if err := walkBoxes(reader, 0, uint64(end), rotations); err != nil {
		return nil, err
	}
	return rotations, nil
}

func walkBoxes(reader io.ReadSeeker, start, end uint64, rotations map[uint32]int) error {
	pos := start
	for pos < end {
		if _, err := reader.Seek(int64(pos), io.SeekStart); err != nil {
			return err
		}
		hdr, err := mp4.DecodeHeader(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("box header at %d: %w", pos, err)
		}
		bodyStart := pos + uint64(hdr.Hdrlen)
		boxEnd := pos + hdr.Size

		switch hdr.Name {
		case "moov", "trak":
			if err := walkBoxes(reader, bodyStart, boxEnd, rotations); err != nil {
				return err
			}
		case "tkhd":
			body := make([]byte, hdr.Size-uint64(hdr.Hdrlen))
			if _, err := io.ReadFull(reader, body); err != nil {
				return fmt.Errorf("read tkhd: %w", err)
			}
			trackID, rotation, err := decodeTkhdRotation(body)
			if err != nil {
				return err
			}
			rotations[trackID] = rotation
		}
		pos = boxEnd
	}
	return nil
}

func decodeTkhdRotation(body []byte) (uint32, int, error) {
	sr := bits.NewFixedSliceReader(body)
	version := sr.ReadUint32() >> 24

	var trackID uint32
	if version == 1 {
		sr.SkipBytes(16)
		trackID = sr.ReadUint32()
		sr.SkipBytes(12)
	} else {
		sr.SkipBytes(8)
		trackID = sr.ReadUint32()
		sr.SkipBytes(8)
	}
	// reserved, layer, alternate_group, volume, reserved
	sr.SkipBytes(16)

	a := sr.ReadInt32()
	b := sr.ReadInt32()
	if err := sr.AccError(); err != nil {
		return 0, 0, fmt.Errorf("decode tkhd: %w", err)
	}
	return trackID, matrixRotation(a, b), nil
}

// matrixRotation converts the first row of a 16.16 display matrix into a
// clockwise rotation snapped to a quarter turn.
func matrixRotation(a, b int32) int {
	if a == 0 && b == 0 {
		return 0
	}
	deg := math.Atan2(float64(b), float64(a)) * 180 / math.Pi
	quarter := int(math.Round(deg / 90))
	return ((quarter%4)+4)%4 * 90
}
