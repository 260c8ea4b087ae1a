// Package probe 封装外部媒体探测工具（ffprobe）。
// 探测失败一律降级为"时长未知"（0 秒），错误不越过本包边界，
// 不会因此中断上传流程。
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/Murari17/Clipverse-video/internal/config"
	"github.com/Murari17/Clipverse-video/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultBinary  = "ffprobe"
	defaultTimeout = 10 * time.Second
)

// Prober 媒体时长探测器
type Prober struct {
	binary  string
	timeout time.Duration
}

// NewProber 创建探测器，未配置时使用默认的 ffprobe 与 10 秒超时
func NewProber(cfg *config.ProbeConfig) *Prober {
	p := &Prober{binary: defaultBinary, timeout: defaultTimeout}
	if cfg != nil {
		if cfg.Binary != "" {
			p.binary = cfg.Binary
		}
		if cfg.Timeout > 0 {
			p.timeout = cfg.TimeoutDuration()
		}
	}
	return p
}

// Duration 返回视频文件的整秒时长（向下取整），失败时返回 0
func (p *Prober) Duration(ctx context.Context, videoPath string) int {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		videoPath,
	}

	output, err := exec.CommandContext(ctx, p.binary, args...).Output()
	if err != nil {
		logger.Warn("Probe video duration failed",
			zap.String("path", videoPath),
			zap.Error(err),
		)
		return 0
	}

	duration, err := parseDuration(output)
	if err != nil {
		logger.Warn("Parse probe output failed",
			zap.String("path", videoPath),
			zap.Error(err),
		)
		return 0
	}

	return duration
}

// parseDuration 解析 ffprobe JSON 输出中的 format.duration
func parseDuration(output []byte) (int, error) {
	var data struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}

	if err := json.Unmarshal(output, &data); err != nil {
		return 0, err
	}

	if data.Format.Duration == "" {
		return 0, errors.New("no duration in probe output")
	}

	dur, err := strconv.ParseFloat(data.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable duration %q: %w", data.Format.Duration, err)
	}
	if dur < 0 {
		return 0, fmt.Errorf("negative duration %f", dur)
	}

	return int(dur), nil
}
