// Package user handles accounts: registration, login, profiles and the admin
// user list.
package user

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cinezone/cinezone/internal/application/note"
	domainMovie "github.com/cinezone/cinezone/internal/domain/movie"
	domainNote "github.com/cinezone/cinezone/internal/domain/note"
	domainUser "github.com/cinezone/cinezone/internal/domain/user"
	"github.com/cinezone/cinezone/internal/infrastructure/auth"
	"github.com/cinezone/cinezone/internal/shared/authorization"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/db"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/query"
)

const (
	defaultListLimit  = 20
	minPasswordLength = 6

	msgUserNotFound     = "User not found"
	msgEmailTaken       = "Email is already in use"
	msgPasswordUpdated  = "Password updated successfully"
	msgWrongPassword    = "Current password is incorrect"
	msgUserDeleted      = "User deleted successfully"
	msgMissingPasswords = "Current and new password are required"
)

type Service struct {
	tx         db.Transactor
	userRepo   domainUser.Repository
	noteRepo   domainNote.Repository
	movieRepo  domainMovie.Repository
	aggregator note.Aggregator
	hasher     auth.PasswordHasher
	tokens     auth.TokenIssuer
	logger     logger.Interface

	// allowAdminRegistration lets Register honor role "admin".
	allowAdminRegistration bool
}

func NewService(
	tx db.Transactor,
	userRepo domainUser.Repository,
	noteRepo domainNote.Repository,
	movieRepo domainMovie.Repository,
	aggregator note.Aggregator,
	hasher auth.PasswordHasher,
	tokens auth.TokenIssuer,
	log logger.Interface,
) *Service {
	return &Service{
		tx:         tx,
		userRepo:   userRepo,
		noteRepo:   noteRepo,
		movieRepo:  movieRepo,
		aggregator: aggregator,
		hasher:     hasher,
		tokens:     tokens,
		logger:     log,
	}
}

// SetAdminRegistration controls whether Register accepts role "admin".
// It is off unless auth.allow_admin_registration is set.
func (s *Service) SetAdminRegistration(allow bool) {
	s.allowAdminRegistration = allow
}

// Register creates an account and signs the caller in. Role "admin" is only
// honored when admin registration is enabled; anything else registers a
// plain user.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	if len(input.Password) < minPasswordLength {
		return nil, errors.NewValidationError(fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	}

	email, err := domainUser.NormalizeEmail(input.Email)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	taken, err := s.userRepo.ExistsByEmail(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, errors.NewConflictError(msgEmailTaken)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := authorization.ParseUserRole(strings.ToLower(strings.TrimSpace(input.Role)))
	if role.IsAdmin() && !s.allowAdminRegistration {
		s.logger.Warnw("admin role requested at registration, registering a plain user", "email", email)
		role = authorization.RoleUser
	}

	u, err := domainUser.NewUser(email, hash, input.FirstName, input.LastName, role)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Infow("user registered", "user_id", u.ID(), "role", u.Role())
	return s.signIn(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	u, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		s.logger.Debugw("login for unknown email")
		return nil, errors.NewInvalidCredentialsError()
	}
	if err := s.hasher.Verify(password, u.PasswordHash()); err != nil {
		if !stderrors.Is(err, auth.ErrPasswordMismatch) {
			return nil, fmt.Errorf("failed to verify password: %w", err)
		}
		s.logger.Warnw("login with wrong password", "user_id", u.ID())
		return nil, errors.NewInvalidCredentialsError()
	}
	if !u.IsActive() {
		return nil, errors.NewAccountInactiveError()
	}

	s.logger.Infow("user logged in", "user_id", u.ID())
	return s.signIn(u)
}

// Authenticate resolves a bearer token to an active user.
func (s *Service) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, errors.NewTokenInvalidError()
	}
	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, errors.NewUnauthorizedError(msgUserNotFound)
	}
	if !u.IsActive() {
		return nil, errors.NewAccountInactiveError()
	}
	return &Principal{UserID: u.ID(), Role: u.Role()}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uint) (*UserResponse, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*ProfileResponse, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email, err := domainUser.NormalizeEmail(*input.Email)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if email != u.Email() {
			taken, err := s.userRepo.ExistsByEmail(ctx, email, userID)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return nil, errors.NewConflictError(msgEmailTaken)
			}
		}
	}

	if err := u.UpdateProfile(input.FirstName, input.LastName, input.Email); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Infow("profile updated", "user_id", userID)
	return &ProfileResponse{User: ToUserResponse(u)}, nil
}

func (s *Service) UpdatePassword(ctx context.Context, userID uint, input PasswordInput) (*MessageResponse, error) {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return nil, errors.NewValidationError(msgMissingPasswords)
	}
	u, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Verify(input.CurrentPassword, u.PasswordHash()); err != nil {
		if stderrors.Is(err, auth.ErrPasswordMismatch) {
			return nil, errors.NewUnauthorizedError(msgWrongPassword)
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if len(input.NewPassword) < minPasswordLength {
		return nil, errors.NewValidationError(fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := u.ChangePasswordHash(hash); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Infow("password changed", "user_id", userID)
	return &MessageResponse{Message: msgPasswordUpdated}, nil
}

// List pages through all users newest first, optionally matching search
// against names and email.
func (s *Service) List(ctx context.Context, q ListQuery) (*ListResponse, error) {
	page := query.PageFilter{Page: q.Page, Limit: q.Limit}.Normalize(defaultListLimit, constants.MaxLimit)
	users, total, err := s.userRepo.List(ctx, domainUser.ListFilter{
		Page:   page,
		Search: strings.TrimSpace(q.Search),
	})
	if err != nil {
		s.logger.Errorw("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserResponse(u))
	}
	return &ListResponse{
		Users: items,
		Pagination: UserPagination{
			Total: total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: page.TotalPages(total),
		},
	}, nil
}

// Delete removes the user with everything they own and refreshes the rating
// summary of every movie they had rated.
func (s *Service) Delete(ctx context.Context, id uint) (*MessageResponse, error) {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		notes, err := s.noteRepo.ListByUser(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list user notes: %w", err)
		}
		movieIDs, err := s.lockRatedMovies(ctx, notes)
		if err != nil {
			return err
		}
		if err := s.userRepo.Delete(ctx, id); err != nil {
			return err
		}
		for _, movieID := range movieIDs {
			if _, err := s.aggregator.Recompute(ctx, movieID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			s.logger.Errorw("failed to delete user", "user_id", id, "error", err)
		}
		return nil, err
	}

	s.logger.Infow("user deleted", "user_id", id)
	return &MessageResponse{Message: msgUserDeleted}, nil
}

// lockRatedMovies row-locks every movie the notes belong to, in ascending id
// order so it cannot deadlock against rating writes. It returns the ids of
// the movies that still exist.
func (s *Service) lockRatedMovies(ctx context.Context, notes []*domainNote.Note) ([]uint, error) {
	ids := make([]uint, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.MovieID())
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	locked := ids[:0]
	for _, movieID := range ids {
		found, err := s.movieRepo.LockForRatingUpdate(ctx, movieID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock movie: %w", err)
		}
		if found {
			locked = append(locked, movieID)
		}
	}
	return locked, nil
}

func (s *Service) get(ctx context.Context, id uint) (*domainUser.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("failed to get user", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, errors.NewNotFoundError(msgUserNotFound)
	}
	return u, nil
}

func (s *Service) signIn(u *domainUser.User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(u.ID(), u.Role())
	if err != nil {
		s.logger.Errorw("failed to generate token", "user_id", u.ID(), "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: ToUserResponse(u), Token: token}, nil
}
