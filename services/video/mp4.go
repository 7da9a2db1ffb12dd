package video

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var ErrNoMovieHeader = errors.New("no movie header found")

// ProbeMP4Seconds reads the movie header of an MP4/MOV file and returns its
// duration in seconds.
func ProbeMP4Seconds(r io.ReadSeeker) (float64, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	moov, size, err := findBox(r, 0, end, "moov")
	if err != nil {
		return 0, err
	}
	mvhd, _, err := findBox(r, moov, moov+size, "mvhd")
	if err != nil {
		return 0, err
	}

	if _, err := r.Seek(mvhd, io.SeekStart); err != nil {
		return 0, err
	}
	var version [4]byte // version + flags
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return 0, err
	}

	var timescale uint32
	var duration uint64
	if version[0] == 1 {
		var hdr struct {
			Created, Modified uint64
			Timescale         uint32
			Duration          uint64
		}
		if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
			return 0, err
		}
		timescale, duration = hdr.Timescale, hdr.Duration
	} else {
		var hdr struct {
			Created, Modified uint32
			Timescale         uint32
			Duration          uint32
		}
		if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
			return 0, err
		}
		timescale, duration = hdr.Timescale, uint64(hdr.Duration)
	}

	if timescale == 0 {
		return 0, fmt.Errorf("mvhd: zero timescale")
	}
	return float64(duration) / float64(timescale), nil
}

// findBox scans sibling boxes in [start, end) and returns the payload offset
// and payload size of the first box of type name.
func findBox(r io.ReadSeeker, start, end int64, name string) (int64, int64, error) {
	pos := start
	for pos+8 <= end {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return 0, 0, err
		}
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return 0, 0, err
		}

		size := int64(binary.BigEndian.Uint32(hdr[:4]))
		headerLen := int64(8)
		switch size {
		case 0:
			size = end - pos
		case 1:
			var ext [8]byte
			if _, err := io.ReadFull(r, ext[:]); err != nil {
				return 0, 0, err
			}
			size = int64(binary.BigEndian.Uint64(ext[:]))
			headerLen = 16
		}
		if size < headerLen {
			return 0, 0, fmt.Errorf("malformed box %q at %d", hdr[4:], pos)
		}

		if string(hdr[4:]) == name {
			return pos + headerLen, size - headerLen, nil
		}
		pos += size
	}
	return 0, 0, ErrNoMovieHeader
}
