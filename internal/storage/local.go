// Package storage 实现上传文件的本地磁盘存储。
// 视频与缩略图分别写入两个独立目录，文件名使用 xid 保证唯一，
// 并发上传之间不加锁，仅依赖文件名唯一性避免冲突。
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/Murari17/Clipverse-video/pkg/logger"

	"github.com/rs/xid"
	"go.uber.org/zap"
)

// 上传字段名，与多段表单的 part 名称一一对应
const (
	FieldVideo     = "video"
	FieldThumbnail = "thumbnail"
)

var (
	ErrUnknownField  = errors.New("未知的上传字段")
	ErrNotVideo      = errors.New("视频文件类型必须为 video/*")
	ErrNotImage      = errors.New("缩略图文件类型必须为 image/*")
	ErrFileTooLarge  = errors.New("文件大小超出限制")
	ErrFileNotExists = errors.New("文件不存在")
)

// StoredFile 落盘后的文件信息
type StoredFile struct {
	Filename string // 生成的文件名
	URL      string // 存储相对地址，如 /uploads/videos/video-xxx.mp4
	Path     string // 磁盘路径
}

// LocalStorage 本地磁盘存储
type LocalStorage struct {
	videoDir string
	thumbDir string
	maxSize  int64
}

// NewLocalStorage 创建本地存储并确保目录存在
func NewLocalStorage(uploadDir string, maxSize int64) (*LocalStorage, error) {
	s := &LocalStorage{
		videoDir: filepath.Join(uploadDir, "videos"),
		thumbDir: filepath.Join(uploadDir, "thumbnails"),
		maxSize:  maxSize,
	}

	for _, dir := range []string{s.videoDir, s.thumbDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
		}
	}

	return s, nil
}

// ValidateUpload 校验一个上传 part 的声明类型与大小，不落盘
// 违规时返回对应的哨兵错误，供上层在写任何文件之前拒绝整个请求
func (s *LocalStorage) ValidateUpload(fh *multipart.FileHeader, field string) error {
	contentType := fh.Header.Get("Content-Type")

	switch field {
	case FieldVideo:
		if !strings.HasPrefix(contentType, "video/") {
			return ErrNotVideo
		}
	case FieldThumbnail:
		if !strings.HasPrefix(contentType, "image/") {
			return ErrNotImage
		}
	default:
		return ErrUnknownField
	}

	if fh.Size > s.maxSize {
		return fmt.Errorf("%w（最大 %d 字节）", ErrFileTooLarge, s.maxSize)
	}

	return nil
}

// SaveUpload 校验并写入一个上传 part
// 文件名为 {字段名}-{xid}{原始扩展名}，按字段路由到 videos/ 或 thumbnails/ 目录
func (s *LocalStorage) SaveUpload(fh *multipart.FileHeader, field string) (*StoredFile, error) {
	if err := s.ValidateUpload(fh, field); err != nil {
		return nil, err
	}

	var dir string
	switch field {
	case FieldVideo:
		dir = s.videoDir
	case FieldThumbnail:
		dir = s.thumbDir
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	filename := fmt.Sprintf("%s-%s%s", field, xid.New().String(), ext)
	path := filepath.Join(dir, filename)

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded %s part: %w", field, err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// 写一半失败时清掉残留文件
		_ = os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	return &StoredFile{
		Filename: filename,
		URL:      fmt.Sprintf("/uploads/%s/%s", filepath.Base(dir), filename),
		Path:     path,
	}, nil
}

// Remove 删除已落盘的文件（错误路径清理用，尽力而为）
func (s *LocalStorage) Remove(file *StoredFile) {
	if file == nil {
		return
	}
	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove stored file",
			zap.String("path", file.Path),
			zap.Error(err),
		)
	}
}

// ResolveVideo 根据文件名解析视频文件磁盘路径
func (s *LocalStorage) ResolveVideo(filename string) (string, error) {
	return resolve(s.videoDir, filename)
}

// ResolveThumbnail 根据文件名解析缩略图磁盘路径
func (s *LocalStorage) ResolveThumbnail(filename string) (string, error) {
	return resolve(s.thumbDir, filename)
}

// resolve 拒绝路径穿越，文件不存在时返回 ErrFileNotExists
func resolve(dir, filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." || filename != filepath.Base(filename) {
		return "", ErrFileNotExists
	}

	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", ErrFileNotExists
	}
	return path, nil
}
