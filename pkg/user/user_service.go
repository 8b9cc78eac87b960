package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, token string) error
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, viewerID string, p domain.PaginationRequest) ([]domain.UserResponse, int64, error)
		GetUserByID(ctx context.Context, viewerID string, id string) (domain.UserResponse, error)
		SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error
		GetSubscriptions(ctx context.Context, userID string, p domain.PaginationRequest, recipesLimit int) ([]domain.UserWithRecipesResponse, int64, error)
		Subscribe(ctx context.Context, userID string, authorID string, recipesLimit int) (domain.UserWithRecipesResponse, error)
		Unsubscribe(ctx context.Context, userID string, authorID string) error
	}

	// AuthorRecipeProvider lists the newest recipes of an author together with
	// the author's total recipe count.
	AuthorRecipeProvider interface {
		GetAuthorRecipes(ctx context.Context, authorID string, limit int) ([]domain.RecipeShortResponse, int64, error)
	}

	userService struct {
		userRepository UserRepository
		recipes        AuthorRecipeProvider
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, recipes AuthorRecipeProvider, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		recipes:        recipes,
		jwtService:     jwtService,
	}
}

func ToUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

func (s *userService) getUser(ctx context.Context, id string) (*entities.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if exists {
		return domain.UserResponse{}, domain.ErrEmailTaken
	}

	exists, err = s.userRepository.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if exists {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
		Role:      domain.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.UserResponse{}, fmt.Errorf("create user: %w", err)
	}
	return ToUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), role)
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	return s.jwtService.RevokeToken(ctx, token)
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user), nil
}

// withSubscriptionFlags sets is_subscribed for everyone except the viewer.
// Anonymous viewers get no flag at all.
func (s *userService) withSubscriptionFlags(ctx context.Context, viewerID string, users []*entities.User) ([]domain.UserResponse, error) {
	res := make([]domain.UserResponse, 0, len(users))
	subscribed := map[string]bool{}

	if viewerID != "" {
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID.String())
		}
		var err error
		subscribed, err = s.userRepository.GetSubscribedToIDs(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	for _, u := range users {
		item := ToUserResponse(u)
		if viewerID != "" && viewerID != item.ID {
			flag := subscribed[item.ID]
			item.IsSubscribed = &flag
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *userService) GetUsers(ctx context.Context, viewerID string, p domain.PaginationRequest) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, p.Page, p.Limit)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.withSubscriptionFlags(ctx, viewerID, users)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

func (s *userService) GetUserByID(ctx context.Context, viewerID string, id string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}

	res, err := s.withSubscriptionFlags(ctx, viewerID, []*entities.User{user})
	if err != nil {
		return domain.UserResponse{}, err
	}
	return res[0], nil
}

func (s *userService) SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepository.UpdatePassword(ctx, userID, string(hash))
}

func (s *userService) withRecipes(ctx context.Context, author *entities.User, recipesLimit int) (domain.UserWithRecipesResponse, error) {
	recipes, count, err := s.recipes.GetAuthorRecipes(ctx, author.ID.String(), recipesLimit)
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}

	subscribed := true
	res := domain.UserWithRecipesResponse{
		UserResponse: ToUserResponse(author),
		Recipes:      recipes,
		RecipesCount: count,
	}
	res.IsSubscribed = &subscribed
	return res, nil
}

func (s *userService) GetSubscriptions(ctx context.Context, userID string, p domain.PaginationRequest, recipesLimit int) ([]domain.UserWithRecipesResponse, int64, error) {
	authors, count, err := s.userRepository.GetSubscriptions(ctx, userID, p.Page, p.Limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.UserWithRecipesResponse, 0, len(authors))
	for _, author := range authors {
		item, err := s.withRecipes(ctx, author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, item)
	}
	return res, count, nil
}

func (s *userService) Subscribe(ctx context.Context, userID string, authorID string, recipesLimit int) (domain.UserWithRecipesResponse, error) {
	author, err := s.getUser(ctx, authorID)
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}
	if author.ID.String() == userID {
		return domain.UserWithRecipesResponse{}, domain.ErrSelfSubscription
	}

	subscriberID, err := uuid.Parse(userID)
	if err != nil {
		return domain.UserWithRecipesResponse{}, domain.ErrParseUUID
	}

	exists, err := s.userRepository.IsSubscribed(ctx, userID, authorID)
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}
	if exists {
		return domain.UserWithRecipesResponse{}, domain.ErrAlreadySubscribed
	}

	if err := s.userRepository.CreateSubscription(ctx, subscriberID, author.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserWithRecipesResponse{}, domain.ErrAlreadySubscribed
		}
		return domain.UserWithRecipesResponse{}, fmt.Errorf("create subscription: %w", err)
	}

	return s.withRecipes(ctx, author, recipesLimit)
}

func (s *userService) Unsubscribe(ctx context.Context, userID string, authorID string) error {
	if _, err := s.getUser(ctx, authorID); err != nil {
		return err
	}

	deleted, err := s.userRepository.DeleteSubscription(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotSubscribed
	}
	return nil
}
