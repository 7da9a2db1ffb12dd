// Package video resolves lecture video sources (YouTube, Google Drive or an
// uploaded file) to a display duration such as "1h 2m 3s".
package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrUnsupportedURL = errors.New("invalid video URL, provide a YouTube or Google Drive URL")
	ErrNotFound       = errors.New("video not found")
	ErrNotConfigured  = errors.New("video API key not configured")
	ErrBadDuration    = errors.New("invalid duration format")
)

var (
	youtubeRe = regexp.MustCompile(`^(?:https?://)?(?:www\.)?(?:m\.)?(?:youtube\.com/(?:watch\?v=|embed/|v/)|youtu\.be/)([^&?\n]{11})`)
	driveRe   = regexp.MustCompile(`(?:https?://)?(?:drive\.google\.com/(?:file/d/|open\?id=)|docs\.google\.com/file/d/)([a-zA-Z0-9_-]+)`)
	isoRe     = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)
)

// ParseYouTubeID returns the 11 character video id of a YouTube URL.
func ParseYouTubeID(url string) (string, bool) {
	m := youtubeRe.FindStringSubmatch(url)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// ParseDriveID returns the file id of a Google Drive URL.
func ParseDriveID(url string) (string, bool) {
	m := driveRe.FindStringSubmatch(url)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// FormatISODuration converts an ISO 8601 duration ("PT1H2M3S") to
// "1h 2m 3s". Days fold into hours and fractional seconds are dropped.
func FormatISODuration(iso string) (string, error) {
	m := isoRe.FindStringSubmatch(iso)
	if m == nil || iso == "P" || iso == "PT" {
		return "", fmt.Errorf("%w: %q", ErrBadDuration, iso)
	}

	days := atoi(m[1])
	hours := atoi(m[2]) + days*24
	minutes := atoi(m[3])
	seconds := 0
	if m[4] != "" {
		f, _ := strconv.ParseFloat(m[4], 64)
		seconds = int(math.Floor(f))
	}
	return format(hours, minutes, seconds), nil
}

// FormatMillis formats a millisecond duration as "1h 2m 3s".
func FormatMillis(ms int64) string {
	if ms < 0 {
		return ""
	}
	total := ms / 1000
	return format(int(total/3600), int(total%3600/60), int(total%60))
}

// FormatUploadMinutes is the display form used for uploaded files: whole
// minutes, rounded.
func FormatUploadMinutes(seconds float64) string {
	return fmt.Sprintf("%dm", int(math.Round(seconds/60)))
}

func format(hours, minutes, seconds int) string {
	var b strings.Builder
	if hours > 0 {
		fmt.Fprintf(&b, "%dh ", hours)
	}
	if minutes > 0 || hours > 0 {
		fmt.Fprintf(&b, "%dm ", minutes)
	}
	fmt.Fprintf(&b, "%ds", seconds)
	return b.String()
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// Resolver looks durations up with the YouTube Data API and the Drive API.
type Resolver struct {
	youtubeKey string
	driveKey   string
	youtube    *resty.Client
	drive      *resty.Client
}

func NewResolver(youtubeURL, youtubeKey, driveURL, driveKey string) *Resolver {
	return &Resolver{
		youtubeKey: youtubeKey,
		driveKey:   driveKey,
		youtube:    resty.New().SetBaseURL(youtubeURL).SetTimeout(10 * time.Second),
		drive:      resty.New().SetBaseURL(driveURL).SetTimeout(10 * time.Second),
	}
}

// Duration resolves url to its display duration.
func (r *Resolver) Duration(ctx context.Context, url string) (string, error) {
	if id, ok := ParseYouTubeID(url); ok {
		return r.youtubeDuration(ctx, id)
	}
	if id, ok := ParseDriveID(url); ok {
		return r.driveDuration(ctx, id)
	}
	return "", ErrUnsupportedURL
}

func (r *Resolver) youtubeDuration(ctx context.Context, id string) (string, error) {
	if r.youtubeKey == "" {
		return "", fmt.Errorf("youtube: %w", ErrNotConfigured)
	}

	resp, err := r.youtube.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":   id,
			"part": "contentDetails",
			"key":  r.youtubeKey,
		}).
		Get("/videos")
	if err != nil {
		return "", fmt.Errorf("youtube request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("youtube request: status %d", resp.StatusCode())
	}

	var body struct {
		Items []struct {
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("decoding youtube response: %w", err)
	}
	if len(body.Items) == 0 {
		return "", fmt.Errorf("youtube video %s: %w", id, ErrNotFound)
	}
	return FormatISODuration(body.Items[0].ContentDetails.Duration)
}

func (r *Resolver) driveDuration(ctx context.Context, id string) (string, error) {
	if r.driveKey == "" {
		return "", fmt.Errorf("drive: %w", ErrNotConfigured)
	}

	resp, err := r.drive.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetQueryParams(map[string]string{
			"fields": "videoMediaMetadata",
			"key":    r.driveKey,
		}).
		Get("/files/{id}")
	if err != nil {
		return "", fmt.Errorf("drive request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", fmt.Errorf("drive file %s: %w", id, ErrNotFound)
	}
	if resp.IsError() {
		return "", fmt.Errorf("drive request: status %d", resp.StatusCode())
	}

	var body struct {
		VideoMediaMetadata *struct {
			DurationMillis string `json:"durationMillis"`
		} `json:"videoMediaMetadata"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("decoding drive response: %w", err)
	}
	if body.VideoMediaMetadata == nil || body.VideoMediaMetadata.DurationMillis == "" {
		return "", fmt.Errorf("drive file %s has no video metadata: %w", id, ErrNotFound)
	}

	ms, err := strconv.ParseInt(body.VideoMediaMetadata.DurationMillis, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: durationMillis %q", ErrBadDuration, body.VideoMediaMetadata.DurationMillis)
	}
	return FormatMillis(ms), nil
}
