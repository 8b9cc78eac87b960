package user

import (
	"context"
	"strings"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	users         map[string]*entities.User
	subscriptions map[[2]string]bool
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:         map[string]*entities.User{},
		subscriptions: map[[2]string]bool{},
	}
}

func (r *fakeUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	r.users[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) GetUsers(_ context.Context, _, _ int) ([]*entities.User, int64, error) {
	res := make([]*entities.User, 0, len(r.users))
	for _, u := range r.users {
		res = append(res, u)
	}
	return res, int64(len(res)), nil
}

func (r *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.users[id].Password = passwordHash
	return nil
}

func (r *fakeUserRepository) CreateSubscription(_ context.Context, subscriberID, subscribedToID uuid.UUID) error {
	r.subscriptions[[2]string{subscriberID.String(), subscribedToID.String()}] = true
	return nil
}

func (r *fakeUserRepository) DeleteSubscription(_ context.Context, subscriberID, subscribedToID string) (int64, error) {
	key := [2]string{subscriberID, subscribedToID}
	if !r.subscriptions[key] {
		return 0, nil
	}
	delete(r.subscriptions, key)
	return 1, nil
}

func (r *fakeUserRepository) IsSubscribed(_ context.Context, subscriberID, subscribedToID string) (bool, error) {
	return r.subscriptions[[2]string{subscriberID, subscribedToID}], nil
}

func (r *fakeUserRepository) GetSubscribedToIDs(_ context.Context, subscriberID string, candidateIDs []string) (map[string]bool, error) {
	res := map[string]bool{}
	for _, id := range candidateIDs {
		if r.subscriptions[[2]string{subscriberID, id}] {
			res[id] = true
		}
	}
	return res, nil
}

func (r *fakeUserRepository) GetSubscriptions(_ context.Context, subscriberID string, _, _ int) ([]*entities.User, int64, error) {
	var res []*entities.User
	for key := range r.subscriptions {
		if key[0] == subscriberID {
			res = append(res, r.users[key[1]])
		}
	}
	return res, int64(len(res)), nil
}

type fakeRecipeProvider struct{}

func (fakeRecipeProvider) GetAuthorRecipes(_ context.Context, _ string, limit int) ([]domain.RecipeShortResponse, int64, error) {
	all := []domain.RecipeShortResponse{{Name: "Soup"}, {Name: "Pie"}, {Name: "Salad"}}
	if limit > 0 && limit < len(all) {
		return all[:limit], int64(len(all)), nil
	}
	return all, int64(len(all)), nil
}

type fakeJWTService struct {
	jwt.JWTService
	revoked []string
}

func (f *fakeJWTService) GenerateTokenUser(userID string, role string) (string, error) {
	return userID + ":" + role, nil
}

func (f *fakeJWTService) RevokeToken(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

func newTestService() (UserService, *fakeUserRepository, *fakeJWTService) {
	repo := newFakeUserRepository()
	jwtService := &fakeJWTService{}
	return NewUserService(repo, fakeRecipeProvider{}, jwtService), repo, jwtService
}

func register(t *testing.T, svc UserService, username string) domain.UserResponse {
	t.Helper()
	res, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	res := register(t, svc, "alice")
	assert.NotEqual(t, "s3cret-pass", repo.users[res.ID].Password)

	_, err := svc.Register(ctx, domain.RegisterRequest{Email: "ALICE@example.com", Username: "other", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Register(ctx, domain.RegisterRequest{Email: "new@example.com", Username: "alice", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	login, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, res.ID+":"+domain.RoleUser, login.AuthToken)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, jwtService := newTestService()

	require.NoError(t, svc.Logout(context.Background(), "token-1"))
	assert.Equal(t, []string{"token-1"}, jwtService.revoked)
}

func TestSetPassword(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	alice := register(t, svc, "alice")

	err := svc.SetPassword(ctx, alice.ID, domain.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "another-pass"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, svc.SetPassword(ctx, alice.ID, domain.SetPasswordRequest{CurrentPassword: "s3cret-pass", NewPassword: "another-pass"}))
	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "another-pass"})
	assert.NoError(t, err)
}

func TestSubscribe(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	_, err := svc.Subscribe(ctx, alice.ID, alice.ID, 6)
	assert.ErrorIs(t, err, domain.ErrSelfSubscription)

	res, err := svc.Subscribe(ctx, alice.ID, bob.ID, 2)
	require.NoError(t, err)
	assert.Len(t, res.Recipes, 2)
	assert.EqualValues(t, 3, res.RecipesCount)
	require.NotNil(t, res.IsSubscribed)
	assert.True(t, *res.IsSubscribed)

	_, err = svc.Subscribe(ctx, alice.ID, bob.ID, 2)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)

	subs, total, err := svc.GetSubscriptions(ctx, alice.ID, domain.PaginationRequest{Page: 1, Limit: 6}, 6)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, bob.ID, subs[0].ID)

	require.NoError(t, svc.Unsubscribe(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, alice.ID, bob.ID), domain.ErrNotSubscribed)

	_, err = svc.Subscribe(ctx, alice.ID, uuid.NewString(), 6)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetUserSubscriptionFlag(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	anonymous, err := svc.GetUserByID(ctx, "", bob.ID)
	require.NoError(t, err)
	assert.Nil(t, anonymous.IsSubscribed)

	self, err := svc.GetUserByID(ctx, bob.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, self.IsSubscribed)

	viewed, err := svc.GetUserByID(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, viewed.IsSubscribed)
	assert.False(t, *viewed.IsSubscribed)

	_, err = svc.Subscribe(ctx, alice.ID, bob.ID, 6)
	require.NoError(t, err)

	viewed, err = svc.GetUserByID(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, *viewed.IsSubscribed)
}
