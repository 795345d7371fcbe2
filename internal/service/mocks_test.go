package service

import (
	"context"

	"pulsegram/internal/model"
)

// Function-field mocks for the repository interfaces. Each test sets
// only the fields it needs; unset fields return zero-value defaults.

type mockUserRepo struct {
	createFn              func(ctx context.Context, user *model.User) error
	getByIDFn             func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn       func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn    func(ctx context.Context, username string) (bool, error)
	updateProfileFn       func(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error)
	searchFn              func(ctx context.Context, query string, limit int) ([]model.UserSummary, error)
	setVerifiedFn         func(ctx context.Context, userID int64, verified bool) error
	adjustFollowerCountFn func(ctx context.Context, userID int64, delta int) error
	adjustFollowingCntFn  func(ctx context.Context, userID int64, delta int) error
	setFollowerCountFn    func(ctx context.Context, userID int64, count int) error
	setFollowingCountFn   func(ctx context.Context, userID int64, count int) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, userID, req)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockUserRepo) SetVerified(ctx context.Context, userID int64, verified bool) error {
	if m.setVerifiedFn != nil {
		return m.setVerifiedFn(ctx, userID, verified)
	}
	return nil
}

func (m *mockUserRepo) AdjustFollowerCount(ctx context.Context, userID int64, delta int) error {
	if m.adjustFollowerCountFn != nil {
		return m.adjustFollowerCountFn(ctx, userID, delta)
	}
	return nil
}

func (m *mockUserRepo) AdjustFollowingCount(ctx context.Context, userID int64, delta int) error {
	if m.adjustFollowingCntFn != nil {
		return m.adjustFollowingCntFn(ctx, userID, delta)
	}
	return nil
}

func (m *mockUserRepo) SetFollowerCount(ctx context.Context, userID int64, count int) error {
	if m.setFollowerCountFn != nil {
		return m.setFollowerCountFn(ctx, userID, count)
	}
	return nil
}

func (m *mockUserRepo) SetFollowingCount(ctx context.Context, userID int64, count int) error {
	if m.setFollowingCountFn != nil {
		return m.setFollowingCountFn(ctx, userID, count)
	}
	return nil
}

type mockFollowRepo struct {
	createFn         func(ctx context.Context, followerID, followeeID int64) (bool, error)
	deleteFn         func(ctx context.Context, followerID, followeeID int64) error
	existsFn         func(ctx context.Context, followerID, followeeID int64) (bool, error)
	getFollowersFn   func(ctx context.Context, userID int64, offset, limit int) ([]model.UserSummary, error)
	getFollowingFn   func(ctx context.Context, userID int64, offset, limit int) ([]model.UserSummary, error)
	checkFollowsFn   func(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error)
	countFollowersFn func(ctx context.Context, userID int64) (int, error)
	countFollowingFn func(ctx context.Context, userID int64) (int, error)
}

func (m *mockFollowRepo) Create(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, followerID, followeeID)
	}
	return true, nil
}

func (m *mockFollowRepo) Delete(ctx context.Context, followerID, followeeID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, followeeID)
	}
	return nil
}

func (m *mockFollowRepo) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followeeID)
	}
	return false, nil
}

func (m *mockFollowRepo) GetFollowers(ctx context.Context, userID int64, offset, limit int) ([]model.UserSummary, error) {
	if m.getFollowersFn != nil {
		return m.getFollowersFn(ctx, userID, offset, limit)
	}
	return nil, nil
}

func (m *mockFollowRepo) GetFollowing(ctx context.Context, userID int64, offset, limit int) ([]model.UserSummary, error) {
	if m.getFollowingFn != nil {
		return m.getFollowingFn(ctx, userID, offset, limit)
	}
	return nil, nil
}

func (m *mockFollowRepo) CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error) {
	if m.checkFollowsFn != nil {
		return m.checkFollowsFn(ctx, followerID, followeeIDs)
	}
	return map[int64]bool{}, nil
}

func (m *mockFollowRepo) CountFollowers(ctx context.Context, userID int64) (int, error) {
	if m.countFollowersFn != nil {
		return m.countFollowersFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockFollowRepo) CountFollowing(ctx context.Context, userID int64) (int, error) {
	if m.countFollowingFn != nil {
		return m.countFollowingFn(ctx, userID)
	}
	return 0, nil
}

type mockPostRepo struct {
	createFn             func(ctx context.Context, userID int64, content string, mediaURL, mediaType *string) (*model.Post, error)
	getByIDFn            func(ctx context.Context, postID int64) (*model.Post, error)
	deleteFn             func(ctx context.Context, postID int64) error
	existsFn             func(ctx context.Context, postID int64) (bool, error)
	getFeedPageFn        func(ctx context.Context, offset, limit int) ([]model.FeedPost, error)
	getUserPostsFn       func(ctx context.Context, userID int64, offset, limit int) ([]model.Post, error)
	likeExistsFn         func(ctx context.Context, postID, userID int64) (bool, error)
	insertLikeFn         func(ctx context.Context, postID, userID int64) (bool, error)
	deleteLikeFn         func(ctx context.Context, postID, userID int64) error
	getLikersFn          func(ctx context.Context, postID int64, offset, limit int) ([]model.UserSummary, error)
	adjustLikeCountFn    func(ctx context.Context, postID int64, delta int) error
	adjustCommentCountFn func(ctx context.Context, postID int64, delta int) error
	setLikeCountFn       func(ctx context.Context, postID int64, count int) error
	setCommentCountFn    func(ctx context.Context, postID int64, count int) error
	countLikesFn         func(ctx context.Context, postID int64) (int, error)
	countCommentsFn      func(ctx context.Context, postID int64) (int, error)
	countLikesReceivedFn func(ctx context.Context, userID int64) (int, error)
}

func (m *mockPostRepo) Create(ctx context.Context, userID int64, content string, mediaURL, mediaType *string) (*model.Post, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, content, mediaURL, mediaType)
	}
	return &model.Post{ID: 1, UserID: userID, Content: content, MediaURL: mediaURL, MediaType: mediaType}, nil
}

func (m *mockPostRepo) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepo) Delete(ctx context.Context, postID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID)
	}
	return nil
}

func (m *mockPostRepo) Exists(ctx context.Context, postID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID)
	}
	return true, nil
}

func (m *mockPostRepo) GetFeedPage(ctx context.Context, offset, limit int) ([]model.FeedPost, error) {
	if m.getFeedPageFn != nil {
		return m.getFeedPageFn(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockPostRepo) GetUserPosts(ctx context.Context, userID int64, offset, limit int) ([]model.Post, error) {
	if m.getUserPostsFn != nil {
		return m.getUserPostsFn(ctx, userID, offset, limit)
	}
	return nil, nil
}

func (m *mockPostRepo) LikeExists(ctx context.Context, postID, userID int64) (bool, error) {
	if m.likeExistsFn != nil {
		return m.likeExistsFn(ctx, postID, userID)
	}
	return false, nil
}

func (m *mockPostRepo) InsertLike(ctx context.Context, postID, userID int64) (bool, error) {
	if m.insertLikeFn != nil {
		return m.insertLikeFn(ctx, postID, userID)
	}
	return true, nil
}

func (m *mockPostRepo) DeleteLike(ctx context.Context, postID, userID int64) error {
	if m.deleteLikeFn != nil {
		return m.deleteLikeFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockPostRepo) GetLikers(ctx context.Context, postID int64, offset, limit int) ([]model.UserSummary, error) {
	if m.getLikersFn != nil {
		return m.getLikersFn(ctx, postID, offset, limit)
	}
	return nil, nil
}

func (m *mockPostRepo) AdjustLikeCount(ctx context.Context, postID int64, delta int) error {
	if m.adjustLikeCountFn != nil {
		return m.adjustLikeCountFn(ctx, postID, delta)
	}
	return nil
}

func (m *mockPostRepo) AdjustCommentCount(ctx context.Context, postID int64, delta int) error {
	if m.adjustCommentCountFn != nil {
		return m.adjustCommentCountFn(ctx, postID, delta)
	}
	return nil
}

func (m *mockPostRepo) SetLikeCount(ctx context.Context, postID int64, count int) error {
	if m.setLikeCountFn != nil {
		return m.setLikeCountFn(ctx, postID, count)
	}
	return nil
}

func (m *mockPostRepo) SetCommentCount(ctx context.Context, postID int64, count int) error {
	if m.setCommentCountFn != nil {
		return m.setCommentCountFn(ctx, postID, count)
	}
	return nil
}

func (m *mockPostRepo) CountLikes(ctx context.Context, postID int64) (int, error) {
	if m.countLikesFn != nil {
		return m.countLikesFn(ctx, postID)
	}
	return 0, nil
}

func (m *mockPostRepo) CountComments(ctx context.Context, postID int64) (int, error) {
	if m.countCommentsFn != nil {
		return m.countCommentsFn(ctx, postID)
	}
	return 0, nil
}

func (m *mockPostRepo) CountLikesReceived(ctx context.Context, userID int64) (int, error) {
	if m.countLikesReceivedFn != nil {
		return m.countLikesReceivedFn(ctx, userID)
	}
	return 0, nil
}

type mockCommentRepo struct {
	createFn      func(ctx context.Context, postID, userID int64, content string) (*model.Comment, error)
	getByIDFn     func(ctx context.Context, commentID int64) (*model.Comment, error)
	deleteFn      func(ctx context.Context, commentID int64) error
	getByPostIDFn func(ctx context.Context, postID int64, offset, limit int) ([]model.Comment, error)
}

func (m *mockCommentRepo) Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID, content)
	}
	return &model.Comment{ID: 1, PostID: postID, UserID: userID, Content: content}, nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepo) Delete(ctx context.Context, commentID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, commentID)
	}
	return nil
}

func (m *mockCommentRepo) GetByPostID(ctx context.Context, postID int64, offset, limit int) ([]model.Comment, error) {
	if m.getByPostIDFn != nil {
		return m.getByPostIDFn(ctx, postID, offset, limit)
	}
	return nil, nil
}

type mockHashtagRepo struct {
	upsertFn          func(ctx context.Context, tag string) (*model.Hashtag, error)
	getByTagFn        func(ctx context.Context, tag string) (*model.Hashtag, error)
	linkFn            func(ctx context.Context, postID, hashtagID int64) (bool, error)
	adjustPostCountFn func(ctx context.Context, hashtagID int64, delta int) error
	setPostCountFn    func(ctx context.Context, hashtagID int64, count int) error
	countLinksFn      func(ctx context.Context, hashtagID int64) (int, error)
	searchFn          func(ctx context.Context, prefix string, limit int) ([]model.Hashtag, error)
}

func (m *mockHashtagRepo) Upsert(ctx context.Context, tag string) (*model.Hashtag, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, tag)
	}
	return &model.Hashtag{ID: 1, Tag: tag}, nil
}

func (m *mockHashtagRepo) GetByTag(ctx context.Context, tag string) (*model.Hashtag, error) {
	if m.getByTagFn != nil {
		return m.getByTagFn(ctx, tag)
	}
	return nil, model.ErrHashtagNotFound
}

func (m *mockHashtagRepo) Link(ctx context.Context, postID, hashtagID int64) (bool, error) {
	if m.linkFn != nil {
		return m.linkFn(ctx, postID, hashtagID)
	}
	return true, nil
}

func (m *mockHashtagRepo) AdjustPostCount(ctx context.Context, hashtagID int64, delta int) error {
	if m.adjustPostCountFn != nil {
		return m.adjustPostCountFn(ctx, hashtagID, delta)
	}
	return nil
}

func (m *mockHashtagRepo) SetPostCount(ctx context.Context, hashtagID int64, count int) error {
	if m.setPostCountFn != nil {
		return m.setPostCountFn(ctx, hashtagID, count)
	}
	return nil
}

func (m *mockHashtagRepo) CountLinks(ctx context.Context, hashtagID int64) (int, error) {
	if m.countLinksFn != nil {
		return m.countLinksFn(ctx, hashtagID)
	}
	return 0, nil
}

func (m *mockHashtagRepo) Search(ctx context.Context, prefix string, limit int) ([]model.Hashtag, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, prefix, limit)
	}
	return nil, nil
}

type mockVerificationRepo struct {
	createFn           func(ctx context.Context, userID int64) (*model.VerificationRequest, error)
	getByIDFn          func(ctx context.Context, requestID int64) (*model.VerificationRequest, error)
	getLatestForUserFn func(ctx context.Context, userID int64) (*model.VerificationRequest, error)
	getActiveForUserFn func(ctx context.Context, userID int64) (*model.VerificationRequest, error)
	decideFn           func(ctx context.Context, requestID int64, status string) (int64, error)
	listPendingFn      func(ctx context.Context, offset, limit int) ([]model.VerificationRequest, error)
}

func (m *mockVerificationRepo) Create(ctx context.Context, userID int64) (*model.VerificationRequest, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID)
	}
	return &model.VerificationRequest{ID: 1, UserID: userID, Status: model.VerificationStatusPending}, nil
}

func (m *mockVerificationRepo) GetByID(ctx context.Context, requestID int64) (*model.VerificationRequest, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, requestID)
	}
	return nil, model.ErrVerificationNotFound
}

func (m *mockVerificationRepo) GetLatestForUser(ctx context.Context, userID int64) (*model.VerificationRequest, error) {
	if m.getLatestForUserFn != nil {
		return m.getLatestForUserFn(ctx, userID)
	}
	return nil, model.ErrVerificationNotFound
}

func (m *mockVerificationRepo) GetActiveForUser(ctx context.Context, userID int64) (*model.VerificationRequest, error) {
	if m.getActiveForUserFn != nil {
		return m.getActiveForUserFn(ctx, userID)
	}
	return nil, model.ErrVerificationNotFound
}

func (m *mockVerificationRepo) Decide(ctx context.Context, requestID int64, status string) (int64, error) {
	if m.decideFn != nil {
		return m.decideFn(ctx, requestID, status)
	}
	return 0, model.ErrVerificationNotFound
}

func (m *mockVerificationRepo) ListPending(ctx context.Context, offset, limit int) ([]model.VerificationRequest, error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(ctx, offset, limit)
	}
	return nil, nil
}
