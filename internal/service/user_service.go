package service

import (
	"context"
	"strings"

	"promptvault/internal/models"
	"promptvault/internal/repository"
	"promptvault/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// reservedAdminUsername always registers as an admin.
const reservedAdminUsername = "admin"

const maxBioLen = 500

type UserService struct {
	userRepo repository.UserRepository
	hashCost int
}

type RegisterInput struct {
	Username    string
	Password    string
	DisplayName string
	Bio         string
	Gender      string
	AvatarURL   string
}

// UpdateProfileInput carries a partial update. Nil fields are left alone.
type UpdateProfileInput struct {
	RequesterID  string
	Username     string
	DisplayName  *string
	Bio          *string
	Gender       *string
	AvatarURL    *string
	InstagramURL *string
	LinkedinURL  *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo, hashCost: bcrypt.DefaultCost}
}

// Register creates an account. The first account, and any account named
// "admin", is an administrator.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	fields := map[string]string{}
	if in.Username == "" {
		fields["username"] = "Username is required"
	} else if err := validation.ValidateUsername(in.Username); err != nil {
		fields["username"] = err.Error()
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields["password"] = err.Error()
	}
	if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
		fields["displayName"] = err.Error()
	}
	if err := validation.ValidateGender(in.Gender); err != nil {
		fields["gender"] = err.Error()
	}
	if err := validation.ValidateHTTPURL(in.AvatarURL); err != nil {
		fields["avatarUrl"] = "Avatar URL " + err.Error()
	}
	if len(in.Bio) > maxBioLen {
		fields["bio"] = "Bio too long (max 500 characters)"
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		return nil, models.NewDuplicateError("Username already exists")
	} else if !models.HasCode(err, models.CodeNotFound) {
		return nil, err
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    in.Username,
		DisplayName: in.DisplayName,
		Bio:         in.Bio,
		Gender:      in.Gender,
		AvatarURL:   in.AvatarURL,
		Password:    string(hash),
		IsAdmin:     count == 0 || models.UsernameKey(in.Username) == reservedAdminUsername,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	invalid := models.NewUnauthorizedError("Invalid credentials")
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, invalid
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsernameWithPrompts(ctx, username)
}

// IsAdmin resolves the admin flag for a user id. Unknown ids are not admins.
func (s *UserService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// UpdateProfile edits the requester's own profile, or another user's when
// the requester is an admin.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	requester, err := s.userRepo.GetByID(ctx, in.RequesterID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("Session user no longer exists")
		}
		return nil, err
	}

	user := requester
	if in.Username != "" && models.UsernameKey(in.Username) != requester.UsernameKey {
		if !requester.IsAdmin {
			return nil, models.NewForbiddenError("You can only update your own profile")
		}
		if user, err = s.userRepo.GetByUsername(ctx, in.Username); err != nil {
			return nil, err
		}
	}

	fields := map[string]string{}
	if in.DisplayName != nil {
		if err := validation.ValidateDisplayName(*in.DisplayName); err != nil {
			fields["displayName"] = err.Error()
		} else {
			user.DisplayName = strings.TrimSpace(*in.DisplayName)
		}
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			fields["bio"] = "Bio too long (max 500 characters)"
		} else {
			user.Bio = *in.Bio
		}
	}
	if in.Gender != nil {
		if err := validation.ValidateGender(*in.Gender); err != nil {
			fields["gender"] = err.Error()
		} else {
			user.Gender = *in.Gender
		}
	}
	applyURL := func(field string, value *string, dst *string) {
		if value == nil {
			return
		}
		v := strings.TrimSpace(*value)
		if err := validation.ValidateHTTPURL(v); err != nil {
			fields[field] = err.Error()
			return
		}
		*dst = v
	}
	applyURL("avatarUrl", in.AvatarURL, &user.AvatarURL)
	applyURL("instagramUrl", in.InstagramURL, &user.InstagramURL)
	applyURL("linkedinUrl", in.LinkedinURL, &user.LinkedinURL)
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	if user.AvatarURL == "" {
		user.AvatarURL = models.DefaultAvatarURL(user.Username)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account with its prompts and relations. Admin only.
func (s *UserService) DeleteUser(ctx context.Context, requesterID, username string) error {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return err
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}

// SetAdmin promotes or demotes a user. Admins cannot demote themselves.
func (s *UserService) SetAdmin(ctx context.Context, requesterID, username string, isAdmin bool) (*models.User, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !isAdmin && user.ID == requesterID {
		return nil, models.NewValidationError("You cannot remove your own admin role")
	}
	if err := s.userRepo.SetAdmin(ctx, user.ID, isAdmin); err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	return user, nil
}

func (s *UserService) requireAdmin(ctx context.Context, requesterID string) error {
	ok, err := s.IsAdmin(ctx, requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewForbiddenError("Admin access required")
	}
	return nil
}
