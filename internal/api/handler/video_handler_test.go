package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Murari17/Clipverse-video/internal/model"
	"github.com/Murari17/Clipverse-video/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// memVideoStore 内存版 repository.VideoStore，Handler 测试不落数据库
type memVideoStore struct {
	mu     sync.Mutex
	videos map[int64]*model.Video
	nextID int64
}

func newMemVideoStore() *memVideoStore {
	return &memVideoStore{videos: make(map[int64]*model.Video), nextID: 1}
}

func (f *memVideoStore) Create(video *model.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	video.ID = f.nextID
	f.nextID++
	copied := *video
	f.videos[video.ID] = &copied
	return nil
}

func (f *memVideoStore) GetByID(id int64) (*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *memVideoStore) GetByIDs(ids []int64) ([]model.Video, error) {
	var result []model.Video
	for _, id := range ids {
		if v, err := f.GetByID(id); err == nil {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (f *memVideoStore) List(limit, skip int, excludeID int64) ([]model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []model.Video
	for id := f.nextID - 1; id >= 1; id-- {
		v, ok := f.videos[id]
		if !ok || v.ID == excludeID {
			continue
		}
		all = append(all, *v)
	}
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *memVideoStore) IncrementViews(id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	v.Views++
	return v.Views, nil
}

func (f *memVideoStore) Search(q string, limit, skip int) ([]model.Video, int64, error) {
	return nil, 0, nil
}

func newVideoTestRouter(store *memVideoStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewVideoHandler(service.NewVideoService(store, nil))

	r := gin.New()
	r.GET("/videos", h.List)
	r.GET("/videos/:id", h.Get)
	r.POST("/videos/:id/view", h.AddView)
	return r
}

func seedStore(t *testing.T, store *memVideoStore, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		if err := store.Create(&model.Video{
			Title:      fmt.Sprintf("video %d", i),
			Uploader:   "alice",
			UploaderID: 1,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestVideoList(t *testing.T) {
	store := newMemVideoStore()
	seedStore(t, store, 3)
	r := newVideoTestRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Data    []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
	if len(body.Data) != 3 {
		t.Fatalf("len = %d, want 3", len(body.Data))
	}
	if body.Data[0].Title != "video 3" {
		t.Errorf("first = %q, want newest first", body.Data[0].Title)
	}
}

func TestVideoListExclude(t *testing.T) {
	store := newMemVideoStore()
	seedStore(t, store, 3)
	r := newVideoTestRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos?exclude=2", nil))

	var body struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("len = %d, want 2", len(body.Data))
	}
	for _, v := range body.Data {
		if v.ID == 2 {
			t.Errorf("excluded video %d present", v.ID)
		}
	}
}

func TestVideoGet(t *testing.T) {
	store := newMemVideoStore()
	seedStore(t, store, 1)
	r := newVideoTestRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos/1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var body struct {
		Data struct {
			Title string   `json:"title"`
			Tags  []string `json:"tags"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Data.Title != "video 1" {
		t.Errorf("title = %q, want %q", body.Data.Title, "video 1")
	}
	// tags 序列化为 [] 而非 null
	if body.Data.Tags == nil {
		t.Error("tags = null, want []")
	}
}

// 非法 ID 与不存在的记录都返回 404
func TestVideoGetNotFound(t *testing.T) {
	store := newMemVideoStore()
	seedStore(t, store, 1)
	r := newVideoTestRouter(store)

	for _, path := range []string{"/videos/999", "/videos/not-a-number"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, w.Code)
		}
	}
}

func TestVideoAddView(t *testing.T) {
	store := newMemVideoStore()
	seedStore(t, store, 1)
	r := newVideoTestRouter(store)

	for want := int64(1); want <= 3; want++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/videos/1/view", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var body struct {
			Data struct {
				Views int64 `json:"views"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body.Data.Views != want {
			t.Errorf("views = %d, want %d", body.Data.Views, want)
		}
	}
}

func TestVideoAddViewNotFound(t *testing.T) {
	store := newMemVideoStore()
	r := newVideoTestRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/videos/42/view", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
