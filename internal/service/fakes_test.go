package service

import (
	"strings"
	"sync"

	"github.com/Murari17/Clipverse-video/internal/model"

	"gorm.io/gorm"
)

// fakeUserStore 内存版 repository.UserStore，避免测试依赖数据库
type fakeUserStore struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64

	createErr error
	getErr    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User), nextID: 1}
}

func (f *fakeUserStore) GetByID(id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByGoogleID(googleID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) ExistsByUsername(username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ExistsByEmail(email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Update(id int64, updates map[string]interface{}) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for column, value := range updates {
		switch column {
		case "google_id":
			googleID := value.(string)
			u.GoogleID = &googleID
		case "photo_url":
			u.PhotoURL = value.(string)
		case "auth_provider":
			u.AuthProvider = value.(string)
		}
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

// fakeVideoStore 内存版 repository.VideoStore
type fakeVideoStore struct {
	mu     sync.Mutex
	videos map[int64]*model.Video
	nextID int64

	createErr error
	listErr   error
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{videos: make(map[int64]*model.Video), nextID: 1}
}

func (f *fakeVideoStore) Create(video *model.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	video.ID = f.nextID
	f.nextID++
	copied := *video
	f.videos[video.ID] = &copied
	return nil
}

func (f *fakeVideoStore) GetByID(id int64) (*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVideoStore) GetByIDs(ids []int64) ([]model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []model.Video
	for _, id := range ids {
		if v, ok := f.videos[id]; ok {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (f *fakeVideoStore) List(limit, skip int, excludeID int64) ([]model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	// 倒序：新视频在前
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

func (f *fakeVideoStore) IncrementViews(id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	v.Views++
	return v.Views, nil
}

func (f *fakeVideoStore) Search(q string, limit, skip int) ([]model.Video, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.Video
	for id := int64(1); id < f.nextID; id++ {
		v, ok := f.videos[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(v.Title), strings.ToLower(q)) ||
			strings.Contains(strings.ToLower(v.Description), strings.ToLower(q)) {
			matched = append(matched, *v)
		}
	}
	total := int64(len(matched))
	if skip >= len(matched) {
		return nil, total, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}
