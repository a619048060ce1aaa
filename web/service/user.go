package service

import (
	"errors"

	"members-area/database"
	"members-area/database/model"
	"members-area/logger"
	"members-area/util/crypto"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	// ErrInvalidInput covers every validation failure; the client only ever
	// sees a generic invalid-input answer, never which field failed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmailTaken maps the store's unique-index violation.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so the client cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("wrong email or password")
	ErrUserNotFound       = errors.New("user not found")
	// ErrLastAdmin refuses the demotion that would leave no admin at all.
	ErrLastAdmin = errors.New("cannot demote the last admin")
)

var validate = validator.New()

// SignupInput carries the signup fields with their validation schema.
// There is no password minimum; any non-empty password up to 20 characters
// is accepted.
type SignupInput struct {
	Email    string `validate:"required,email"`
	Name     string `validate:"required,max=50"`
	Password string `validate:"required,max=20"`
}

type UserService struct {
	DB *gorm.DB
}

func NewUserService() *UserService {
	return &UserService{DB: database.GetDB()}
}

// UserDTO is the projection handed to the admin user list; it never carries
// the password hash.
type UserDTO struct {
	Id    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toDTO(u *model.User) UserDTO {
	return UserDTO{Id: u.Id, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Register validates the signup input, hashes the password and inserts the
// user with the default role. A duplicate email surfaces as ErrEmailTaken via
// the unique index, there is deliberately no pre-check.
func (s *UserService) Register(input SignupInput) (*model.User, error) {
	if err := validate.Struct(input); err != nil {
		logger.Debug("signup validation failed:", err)
		return nil, ErrInvalidInput
	}

	hash, err := crypto.HashPasswordAsBcrypt(input.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.DB.Create(u).Error; err != nil {
		if database.IsDuplicate(err) {
			logger.Warning("signup with already registered email:", input.Email)
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate checks email and password against the stored record. The
// unknown-email and wrong-password cases are logged apart but are the same
// error to the caller.
func (s *UserService) Authenticate(email string, password string) (*model.User, error) {
	if email == "" || validate.Var(email, "email") != nil {
		return nil, ErrInvalidCredentials
	}

	var u model.User
	err := s.DB.Where("email = ?", email).First(&u).Error
	if database.IsNotFound(err) {
		logger.Infof("login attempt for unknown email %q", email)
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if !crypto.CheckPasswordHash(u.PasswordHash, password) {
		logger.Infof("wrong password for %q", email)
		return nil, ErrInvalidCredentials
	}

	return &u, nil
}

func (s *UserService) GetByEmail(email string) (*model.User, error) {
	var u model.User
	err := s.DB.Where("email = ?", email).First(&u).Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) GetById(id int) (*model.User, error) {
	var u model.User
	err := s.DB.First(&u, id).Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) ListUsers() ([]UserDTO, error) {
	var users []model.User
	if err := s.DB.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toDTO(&users[i]))
	}
	return out, nil
}

// UpdateRole sets the target's role. Promoting an admin or demoting a plain
// user is a no-op in effect. Demoting the sole remaining admin is refused.
func (s *UserService) UpdateRole(id int, role string) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, ErrInvalidInput
	}

	var u model.User
	err := s.DB.First(&u, id).Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	if role == model.RoleUser && u.Role == model.RoleAdmin {
		admins, err := s.CountAdmins()
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	u.Role = role
	if err := s.DB.Save(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) CountAdmins() (int64, error) {
	var count int64
	err := s.DB.Model(&model.User{}).
		Where("role = ?", model.RoleAdmin).
		Count(&count).
		Error
	return count, err
}

// ResetPassword rehashes and stores a new password for the given email.
// Used by the command line, not by any route.
func (s *UserService) ResetPassword(email string, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidInput
	}
	u, err := s.GetByEmail(email)
	if err != nil {
		return err
	}
	hash, err := crypto.HashPasswordAsBcrypt(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.DB.Save(u).Error
}
