package repository

import "github.com/Murari17/Clipverse-video/internal/model"

// UserStore 用户持久化接口，Service 层依赖接口便于测试替换
type UserStore interface {
	GetByID(id int64) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByGoogleID(googleID string) (*model.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	Create(user *model.User) error
	Update(id int64, updates map[string]interface{}) (*model.User, error)
}

// VideoStore 视频持久化接口
type VideoStore interface {
	Create(video *model.Video) error
	GetByID(id int64) (*model.Video, error)
	GetByIDs(ids []int64) ([]model.Video, error)
	List(limit, skip int, excludeID int64) ([]model.Video, error)
	IncrementViews(id int64) (int64, error)
	Search(q string, limit, skip int) ([]model.Video, int64, error)
}
