package video

import (
	"bytes"
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYouTubeID(t *testing.T) {
	tests := []struct {
		url string
		id  string
		ok  bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", true},
		{"youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://m.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://vimeo.com/123456", "", false},
		{"https://youtu.be/short", "", false},
	}

	for _, tt := range tests {
		id, ok := ParseYouTubeID(tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.id, id, tt.url)
	}
}

func TestParseDriveID(t *testing.T) {
	id, ok := ParseDriveID("https://drive.google.com/file/d/1AbC_d-EF/view?usp=sharing")
	assert.True(t, ok)
	assert.Equal(t, "1AbC_d-EF", id)

	id, ok = ParseDriveID("https://drive.google.com/open?id=XYZ123")
	assert.True(t, ok)
	assert.Equal(t, "XYZ123", id)

	_, ok = ParseDriveID("https://example.com/video.mp4")
	assert.False(t, ok)
}

func TestFormatISODuration(t *testing.T) {
	tests := map[string]string{
		"PT1H2M3S":  "1h 2m 3s",
		"PT4M13S":   "4m 13s",
		"PT45S":     "45s",
		"PT2H":      "2h 0m 0s",
		"P1DT1H":    "25h 0m 0s",
		"PT1M30.9S": "1m 30s",
		"PT10M":     "10m 0s",
	}
	for in, want := range tests {
		got, err := FormatISODuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := FormatISODuration("1:02:03")
	assert.ErrorIs(t, err, ErrBadDuration)
	_, err = FormatISODuration("PT")
	assert.ErrorIs(t, err, ErrBadDuration)
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "1h 2m 3s", FormatMillis(3723000))
	assert.Equal(t, "59s", FormatMillis(59999))
	assert.Equal(t, "1m 0s", FormatMillis(60000))
	assert.Equal(t, "", FormatMillis(-1))
}

func TestFormatUploadMinutes(t *testing.T) {
	assert.Equal(t, "2m", FormatUploadMinutes(90))
	assert.Equal(t, "1m", FormatUploadMinutes(89))
	assert.Equal(t, "0m", FormatUploadMinutes(10))
}

func TestResolverYouTube(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "contentDetails", r.URL.Query().Get("part"))
		assert.Equal(t, "yt-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("id") == "dQw4w9WgXcQ" {
			_, _ = w.Write([]byte(`{"items":[{"contentDetails":{"duration":"PT3M33S"}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, "yt-key", srv.URL, "drive-key")

	d, err := r.Duration(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "3m 33s", d)

	_, err = r.Duration(context.Background(), "https://youtu.be/aaaaaaaaaaa")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolverDrive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/files/vid1":
			_, _ = w.Write([]byte(`{"videoMediaMetadata":{"durationMillis":"3723000"}}`))
		case "/files/doc1":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, "yt-key", srv.URL, "drive-key")

	d, err := r.Duration(context.Background(), "https://drive.google.com/file/d/vid1/view")
	require.NoError(t, err)
	assert.Equal(t, "1h 2m 3s", d)

	_, err = r.Duration(context.Background(), "https://drive.google.com/file/d/doc1/view")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Duration(context.Background(), "https://drive.google.com/file/d/gone/view")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolverErrors(t *testing.T) {
	r := NewResolver("http://unused", "", "http://unused", "")

	_, err := r.Duration(context.Background(), "https://example.com/a.mp4")
	assert.ErrorIs(t, err, ErrUnsupportedURL)

	_, err = r.Duration(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func box(name string, payload []byte) []byte {
	buf := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(8+len(payload)))
	copy(buf[4:], name)
	return append(buf, payload...)
}

func TestProbeMP4Seconds(t *testing.T) {
	mvhd := make([]byte, 4+16)
	binary.BigEndian.PutUint32(mvhd[12:], 1000)   // timescale
	binary.BigEndian.PutUint32(mvhd[16:], 125500) // duration

	var file []byte
	file = append(file, box("ftyp", []byte("isom\x00\x00\x02\x00"))...)
	file = append(file, box("free", nil)...)
	file = append(file, box("moov", box("mvhd", mvhd))...)

	secs, err := ProbeMP4Seconds(bytes.NewReader(file))
	require.NoError(t, err)
	assert.InDelta(t, 125.5, secs, 1e-9)
	assert.Equal(t, "2m", FormatUploadMinutes(secs))

	_, err = ProbeMP4Seconds(bytes.NewReader(box("ftyp", []byte("isom"))))
	assert.ErrorIs(t, err, ErrNoMovieHeader)
}
