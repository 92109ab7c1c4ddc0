package service

import (
	"blog-backend/internal/common"
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"

	"go.uber.org/zap"
)

// GraphService 维护关注关系图。
// 边表是唯一事实来源，用户上的计数是它的反范式化投影。
type GraphService struct {
	graphRepo interfaces.GraphRepository
	userRepo  interfaces.UserRepository
}

func NewGraphService(graphRepo interfaces.GraphRepository, userRepo interfaces.UserRepository) *GraphService {
	return &GraphService{
		graphRepo: graphRepo,
		userRepo:  userRepo,
	}
}

// ToggleFollow 切换关注状态，返回切换后是否处于关注中
func (s *GraphService) ToggleFollow(followerID, followedID int) (bool, error) {
	if followerID == followedID {
		return false, errors.New(errors.ErrSelfFollow, "不能关注自己")
	}

	target, err := s.userRepo.FindByID(followedID)
	if err != nil {
		return false, err
	}
	if target == nil {
		return false, errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	exists, err := s.graphRepo.EdgeExists(followerID, followedID)
	if err != nil {
		return false, err
	}

	if exists {
		err = common.WithRetry(func() error {
			return s.graphRepo.DeleteEdge(followerID, followedID)
		}, 3)
		if err != nil {
			return false, err
		}
		util.Logger.Info("取消关注",
			zap.Int("follower_id", followerID),
			zap.Int("followed_id", followedID))
		return false, nil
	}

	// 并发切换撞上唯一索引时向调用方暴露409，由客户端重读状态
	err = common.WithRetry(func() error {
		return s.graphRepo.CreateEdge(followerID, followedID)
	}, 3)
	if err != nil {
		return false, err
	}

	util.Logger.Info("关注成功",
		zap.Int("follower_id", followerID),
		zap.Int("followed_id", followedID))
	return true, nil
}

// IsFollowing 检查 followerID 是否关注了 followedID
func (s *GraphService) IsFollowing(followerID, followedID int) (bool, error) {
	return s.graphRepo.EdgeExists(followerID, followedID)
}

// GetFollowers 分页获取粉丝列表
func (s *GraphService) GetFollowers(userID, page, pageSize int) ([]*model.UserSummary, int, error) {
	if err := s.checkUser(userID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 20
	}
	return s.graphRepo.GetFollowers(userID, page, pageSize)
}

// GetFollowing 分页获取关注列表
func (s *GraphService) GetFollowing(userID, page, pageSize int) ([]*model.UserSummary, int, error) {
	if err := s.checkUser(userID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 20
	}
	return s.graphRepo.GetFollowing(userID, page, pageSize)
}

func (s *GraphService) checkUser(userID int) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return nil
}

// GraphServiceInterface 定义了关注关系服务的方法
type GraphServiceInterface interface {
	ToggleFollow(followerID, followedID int) (bool, error)
	IsFollowing(followerID, followedID int) (bool, error)
	GetFollowers(userID, page, pageSize int) ([]*model.UserSummary, int, error)
	GetFollowing(userID, page, pageSize int) ([]*model.UserSummary, int, error)
}

var _ GraphServiceInterface = (*GraphService)(nil)
