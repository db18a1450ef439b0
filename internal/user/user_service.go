package user

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode"

	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/dberr"
	"go-leaveflow/internal/shared/storage"
	usererrors "go-leaveflow/internal/user/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const profilePictureFolder = "profiles"

// FileStore keeps uploaded blobs. Implemented by storage.LocalStorage.
type FileStore interface {
	SaveUpload(folder, originalName string, r io.Reader) (string, error)
	Delete(rel string) error
	URL(rel string) string
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetProfile(ctx context.Context, userID uint) (UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest, picture *storage.Upload) (UserResponse, error)
	ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error
	AssignManager(ctx context.Context, userID, managerID uint) (UserResponse, error)

	ListAll(ctx context.Context) ([]UserResponse, error)
	ListManagers(ctx context.Context) ([]UserResponse, error)
	ListTeam(ctx context.Context, managerID uint) ([]UserResponse, error)
	Delete(ctx context.Context, callerID, targetID uint) error
}

type service struct {
	repo   Repository
	store  FileStore
	logger *zap.Logger
}

func NewService(repo Repository, store FileStore, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, store: store, logger: l}
}

func (s *service) GetProfile(ctx context.Context, userID uint) (UserResponse, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	return s.mapToResponse(*u), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest, picture *storage.Upload) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.findUser(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}

	if v := strings.TrimSpace(req.FullName); v != "" {
		u.FullName = v
	}
	if v := strings.TrimSpace(req.Department); v != "" {
		u.Department = v
	}
	if raw := strings.TrimSpace(req.Phone); raw != "" {
		phone, err := normalizePhone(raw)
		if err != nil {
			return UserResponse{}, err
		}
		u.Phone = phone
	}
	if v := strings.TrimSpace(req.Email); v != "" && !strings.EqualFold(v, u.Email) {
		existing, err := s.repo.FindByEmail(ctx, v)
		switch {
		case err == nil && existing.ID != u.ID:
			return UserResponse{}, usererrors.ErrUserAlreadyExists
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return UserResponse{}, err
		}
		u.Email = v
	}

	oldPicture, newPicture := "", ""
	if picture != nil && picture.Content != nil {
		if !storage.IsImage(picture.Filename) {
			return UserResponse{}, usererrors.ErrInvalidProfilePicture
		}
		rel, err := s.store.SaveUpload(profilePictureFolder, picture.Filename, picture.Content)
		if err != nil {
			l.Error("save profile picture failed", zap.Uint("user_id", userID), zap.Error(err))
			return UserResponse{}, err
		}
		oldPicture = u.ProfilePicture
		newPicture = rel
		u.ProfilePicture = rel
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if newPicture != "" {
			if derr := s.store.Delete(newPicture); derr != nil {
				l.Warn("orphan profile picture left behind", zap.String("path", newPicture), zap.Error(derr))
			}
		}
		if dberr.IsUniqueViolation(err, "idx_users_email") {
			return UserResponse{}, usererrors.ErrUserAlreadyExists
		}
		l.Error("update profile failed", zap.Uint("user_id", userID), zap.Error(err))
		return UserResponse{}, err
	}

	if oldPicture != "" {
		if err := s.store.Delete(oldPicture); err != nil {
			l.Warn("remove old profile picture failed", zap.String("path", oldPicture), zap.Error(err))
		}
	}

	l.Info("profile updated", zap.Uint("user_id", userID))
	return s.mapToResponse(*u), nil
}

// ChangePassword checks, in order: every field present, current password
// correct, confirmation matching, new password actually different.
func (s *service) ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return usererrors.ErrPasswordFieldsRequired
	}

	u, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}
	if req.NewPassword != req.ConfirmPassword {
		return usererrors.ErrPasswordConfirmMismatch
	}
	if req.NewPassword == req.CurrentPassword {
		return usererrors.ErrPasswordUnchanged
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		l.Error("failed to hash new password", zap.Error(err))
		return err
	}

	u.Password = string(hashed)
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	l.Info("password changed", zap.Uint("user_id", userID))
	return nil
}

func (s *service) AssignManager(ctx context.Context, userID, managerID uint) (UserResponse, error) {
	if userID == managerID {
		return UserResponse{}, usererrors.ErrSelfManager
	}

	manager, err := s.repo.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrInvalidManager
		}
		return UserResponse{}, err
	}
	if manager.Role != string(domain.RoleManager) {
		return UserResponse{}, usererrors.ErrInvalidManager
	}

	u, err := s.findUser(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}

	if err := s.repo.UpdateManager(ctx, userID, &managerID); err != nil {
		return UserResponse{}, err
	}
	u.ManagerID = &managerID
	u.Manager = manager

	contextutil.GetLogger(ctx, s.logger).Info("manager assigned",
		zap.Uint("user_id", userID),
		zap.Uint("manager_id", managerID),
	)
	return s.mapToResponse(*u), nil
}

func (s *service) ListAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(users), nil
}

func (s *service) ListManagers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindByRole(ctx, string(domain.RoleManager))
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(users), nil
}

func (s *service) ListTeam(ctx context.Context, managerID uint) ([]UserResponse, error) {
	users, err := s.repo.FindByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(users), nil
}

func (s *service) Delete(ctx context.Context, callerID, targetID uint) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if callerID == targetID {
		return usererrors.ErrSelfDelete
	}

	target, err := s.findUser(ctx, targetID)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, targetID)
	if err != nil {
		l.Error("delete user failed", zap.Uint("target_id", targetID), zap.Error(err))
		return err
	}
	if affected == 0 {
		return usererrors.ErrUserNotFound
	}

	if target.ProfilePicture != "" {
		if err := s.store.Delete(target.ProfilePicture); err != nil {
			l.Warn("remove profile picture failed", zap.String("path", target.ProfilePicture), zap.Error(err))
		}
	}

	l.Info("user deleted",
		zap.Uint("target_id", targetID),
		zap.String("email", target.Email),
	)
	return nil
}

func (s *service) findUser(ctx context.Context, id uint) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func normalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 10 {
		return "", usererrors.ErrInvalidPhone
	}
	return digits, nil
}

func (s *service) mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Name:       u.DisplayName(),
		Phone:      u.Phone,
		Department: u.Department,
		Role:       u.Role,
		ManagerID:  u.ManagerID,
		IsActive:   u.IsActive,
		DateJoined: u.DateJoined.Format("2006-01-02"),
	}
	if u.Manager != nil {
		name := u.Manager.DisplayName()
		resp.ManagerName = &name
	}
	if u.ProfilePicture != "" && s.store != nil {
		resp.ProfilePictureURL = s.store.URL(u.ProfilePicture)
	}
	return resp
}

func (s *service) mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = s.mapToResponse(u)
	}
	return resp
}
