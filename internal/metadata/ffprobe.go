package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DurationProber measures the playing time of a media file.
type DurationProber interface {
	DurationSeconds(ctx context.Context, path string) (float64, error)
}

// FFProbe runs the ffprobe executable and reads the container duration.
type FFProbe struct {
	Binary string
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (p FFProbe) DurationSeconds(ctx context.Context, path string) (float64, error) {
	binary := strings.TrimSpace(p.Binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	var out ffprobeOutput
	if err := json.Unmarshal(output, &out); err != nil {
		return 0, fmt.Errorf("ffprobe parse: %w", err)
	}
	d := strings.TrimSpace(out.Format.Duration)
	if d == "" || d == "N/A" {
		return 0, nil
	}
	seconds, err := strconv.ParseFloat(d, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", d, err)
	}
	return seconds, nil
}
