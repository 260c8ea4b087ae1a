package storage

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func makeFileHeader(t *testing.T, field, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File[field][0]
}

func newTestStorage(t *testing.T, maxSize int64) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, maxSize)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return s, dir
}

func TestNewLocalStorageCreatesDirs(t *testing.T) {
	_, dir := newTestStorage(t, 1<<20)

	for _, sub := range []string{"videos", "thumbnails"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil {
			t.Fatalf("stat %s: %v", sub, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", sub)
		}
	}
}

func TestValidateUpload(t *testing.T) {
	s, _ := newTestStorage(t, 1<<20)

	tests := []struct {
		name        string
		field       string
		contentType string
		wantErr     error
	}{
		{"valid video", FieldVideo, "video/mp4", nil},
		{"valid webm", FieldVideo, "video/webm", nil},
		{"valid image", FieldThumbnail, "image/png", nil},
		{"image as video", FieldVideo, "image/png", ErrNotVideo},
		{"video as thumbnail", FieldThumbnail, "video/mp4", ErrNotImage},
		{"text as video", FieldVideo, "text/plain", ErrNotVideo},
		{"unknown field", "avatar", "image/png", ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fh := makeFileHeader(t, tt.field, "file.bin", tt.contentType, "data")
			err := s.ValidateUpload(fh, tt.field)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateUpload() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateUpload() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUploadTooLarge(t *testing.T) {
	s, _ := newTestStorage(t, 8)

	fh := makeFileHeader(t, FieldVideo, "big.mp4", "video/mp4", "way more than eight bytes")
	if err := s.ValidateUpload(fh, FieldVideo); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("ValidateUpload() error = %v, want ErrFileTooLarge", err)
	}
}

func TestSaveUpload(t *testing.T) {
	s, dir := newTestStorage(t, 1<<20)

	fh := makeFileHeader(t, FieldVideo, "My Clip.MP4", "video/mp4", "fake video bytes")
	stored, err := s.SaveUpload(fh, FieldVideo)
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}

	// 文件名：{字段名}-{xid}{小写扩展名}
	if !strings.HasPrefix(stored.Filename, "video-") {
		t.Errorf("Filename = %q, want video- prefix", stored.Filename)
	}
	if !strings.HasSuffix(stored.Filename, ".mp4") {
		t.Errorf("Filename = %q, want lowercase .mp4 suffix", stored.Filename)
	}
	if stored.URL != "/uploads/videos/"+stored.Filename {
		t.Errorf("URL = %q, want /uploads/videos/%s", stored.URL, stored.Filename)
	}

	data, err := os.ReadFile(filepath.Join(dir, "videos", stored.Filename))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "fake video bytes" {
		t.Errorf("stored content = %q", data)
	}
}

func TestSaveUploadRoutesByField(t *testing.T) {
	s, dir := newTestStorage(t, 1<<20)

	thumb := makeFileHeader(t, FieldThumbnail, "cover.png", "image/png", "img")
	stored, err := s.SaveUpload(thumb, FieldThumbnail)
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "thumbnails", stored.Filename)); err != nil {
		t.Errorf("thumbnail not in thumbnails dir: %v", err)
	}
	if !strings.HasPrefix(stored.URL, "/uploads/thumbnails/") {
		t.Errorf("URL = %q, want /uploads/thumbnails/ prefix", stored.URL)
	}
}

// 同名文件并发上传也不互相覆盖
func TestSaveUploadUniqueNames(t *testing.T) {
	s, _ := newTestStorage(t, 1<<20)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		fh := makeFileHeader(t, FieldVideo, "same.mp4", "video/mp4", "data")
		stored, err := s.SaveUpload(fh, FieldVideo)
		if err != nil {
			t.Fatalf("SaveUpload() error = %v", err)
		}
		if seen[stored.Filename] {
			t.Fatalf("duplicate filename %q", stored.Filename)
		}
		seen[stored.Filename] = true
	}
}

func TestSaveUploadRejectsInvalid(t *testing.T) {
	s, dir := newTestStorage(t, 1<<20)

	fh := makeFileHeader(t, FieldVideo, "notes.txt", "text/plain", "data")
	if _, err := s.SaveUpload(fh, FieldVideo); !errors.Is(err, ErrNotVideo) {
		t.Fatalf("SaveUpload() error = %v, want ErrNotVideo", err)
	}

	// 被拒绝的上传不落盘
	entries, err := os.ReadDir(filepath.Join(dir, "videos"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("videos dir has %d files, want 0", len(entries))
	}
}

func TestRemove(t *testing.T) {
	s, _ := newTestStorage(t, 1<<20)

	fh := makeFileHeader(t, FieldVideo, "clip.mp4", "video/mp4", "data")
	stored, err := s.SaveUpload(fh, FieldVideo)
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}

	s.Remove(stored)
	if _, err := os.Stat(stored.Path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Remove")
	}

	// 重复删除与 nil 都不 panic
	s.Remove(stored)
	s.Remove(nil)
}

func TestResolve(t *testing.T) {
	s, _ := newTestStorage(t, 1<<20)

	fh := makeFileHeader(t, FieldVideo, "clip.mp4", "video/mp4", "data")
	stored, err := s.SaveUpload(fh, FieldVideo)
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}

	path, err := s.ResolveVideo(stored.Filename)
	if err != nil {
		t.Fatalf("ResolveVideo() error = %v", err)
	}
	if path != stored.Path {
		t.Errorf("path = %q, want %q", path, stored.Path)
	}

	// 视频文件名不能从缩略图目录解析出来
	if _, err := s.ResolveThumbnail(stored.Filename); !errors.Is(err, ErrFileNotExists) {
		t.Errorf("ResolveThumbnail(video name) error = %v, want ErrFileNotExists", err)
	}

	if _, err := s.ResolveVideo("no-such-file.mp4"); !errors.Is(err, ErrFileNotExists) {
		t.Errorf("ResolveVideo(missing) error = %v, want ErrFileNotExists", err)
	}
}

// 路径穿越一律拒绝
func TestResolveRejectsTraversal(t *testing.T) {
	s, _ := newTestStorage(t, 1<<20)

	for _, name := range []string{"", "../secret", "../../etc/passwd", "a/b.mp4", "..", "./x.mp4"} {
		if _, err := s.ResolveVideo(name); !errors.Is(err, ErrFileNotExists) {
			t.Errorf("ResolveVideo(%q) error = %v, want ErrFileNotExists", name, err)
		}
	}
}
