package recipe

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"sort"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRecipeRepository struct {
	recipes   map[string]*entities.Recipe
	favorites map[[2]string]bool
	cart      map[[2]string]bool
	users     map[string]*entities.User
	types     map[string]*entities.IngredientType
	tags      map[string]*entities.Tag
}

func (r *fakeRecipeRepository) hydrate(recipe *entities.Recipe) *entities.Recipe {
	copied := *recipe
	copied.Author = r.users[recipe.AuthorID.String()]
	copied.Ingredients = nil
	for _, row := range recipe.Ingredients {
		rowCopy := *row
		rowCopy.IngredientType = r.types[row.IngredientTypeID.String()]
		copied.Ingredients = append(copied.Ingredients, &rowCopy)
	}
	return &copied
}

func (r *fakeRecipeRepository) CreateRecipe(_ context.Context, recipe *entities.Recipe) error {
	r.recipes[recipe.ID.String()] = recipe
	return nil
}

func (r *fakeRecipeRepository) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	recipe, ok := r.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(recipe), nil
}

func (r *fakeRecipeRepository) GetRecipes(_ context.Context, filter domain.RecipeFilter, viewerID string) ([]*entities.Recipe, int64, error) {
	var res []*entities.Recipe
	for id, recipe := range r.recipes {
		if filter.AuthorID != "" && recipe.AuthorID.String() != filter.AuthorID {
			continue
		}
		if filter.IsInShoppingCart && !r.cart[[2]string{viewerID, id}] {
			continue
		}
		res = append(res, r.hydrate(recipe))
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, int64(len(res)), nil
}

func (r *fakeRecipeRepository) GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, int64, error) {
	res, count, _ := r.GetRecipes(ctx, domain.RecipeFilter{AuthorID: authorID}, "")
	if limit > 0 && limit < len(res) {
		res = res[:limit]
	}
	return res, count, nil
}

func (r *fakeRecipeRepository) UpdateRecipe(_ context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient, tags []*entities.Tag) error {
	stored := r.recipes[recipe.ID.String()]
	stored.Name = recipe.Name
	stored.Text = recipe.Text
	stored.CookingTime = recipe.CookingTime
	stored.ImageURL = recipe.ImageURL
	if ingredients != nil {
		stored.Ingredients = ingredients
	}
	if tags != nil {
		stored.Tags = tags
	}
	return nil
}

func (r *fakeRecipeRepository) DeleteRecipe(_ context.Context, id string) error {
	delete(r.recipes, id)
	for key := range r.cart {
		if key[1] == id {
			delete(r.cart, key)
		}
	}
	return nil
}

func (r *fakeRecipeRepository) AddFavorite(_ context.Context, userID, recipeID uuid.UUID) error {
	r.favorites[[2]string{userID.String(), recipeID.String()}] = true
	return nil
}

func (r *fakeRecipeRepository) RemoveFavorite(_ context.Context, userID, recipeID string) (int64, error) {
	key := [2]string{userID, recipeID}
	if !r.favorites[key] {
		return 0, nil
	}
	delete(r.favorites, key)
	return 1, nil
}

func (r *fakeRecipeRepository) IsFavorited(_ context.Context, userID, recipeID string) (bool, error) {
	return r.favorites[[2]string{userID, recipeID}], nil
}

func (r *fakeRecipeRepository) GetFavoritedIDs(_ context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	res := map[string]bool{}
	for _, id := range recipeIDs {
		if r.favorites[[2]string{userID, id}] {
			res[id] = true
		}
	}
	return res, nil
}

func (r *fakeRecipeRepository) AddToShoppingCart(_ context.Context, userID, recipeID uuid.UUID) error {
	r.cart[[2]string{userID.String(), recipeID.String()}] = true
	return nil
}

func (r *fakeRecipeRepository) RemoveFromShoppingCart(_ context.Context, userID, recipeID string) (int64, error) {
	key := [2]string{userID, recipeID}
	if !r.cart[key] {
		return 0, nil
	}
	delete(r.cart, key)
	return 1, nil
}

func (r *fakeRecipeRepository) IsInShoppingCart(_ context.Context, userID, recipeID string) (bool, error) {
	return r.cart[[2]string{userID, recipeID}], nil
}

func (r *fakeRecipeRepository) GetShoppingCartIDs(_ context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	res := map[string]bool{}
	for _, id := range recipeIDs {
		if r.cart[[2]string{userID, id}] {
			res[id] = true
		}
	}
	return res, nil
}

func (r *fakeRecipeRepository) GetShoppingCartUserIDs(_ context.Context, recipeID string) ([]string, error) {
	var res []string
	for key := range r.cart {
		if key[1] == recipeID {
			res = append(res, key[0])
		}
	}
	return res, nil
}

type fakeTagRepository struct {
	tag.TagRepository
	tags map[string]*entities.Tag
}

func (r *fakeTagRepository) GetTagsByIDs(_ context.Context, ids []string) ([]*entities.Tag, error) {
	var res []*entities.Tag
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			res = append(res, t)
		}
	}
	return res, nil
}

type fakeIngredientRepository struct {
	ingredient.IngredientRepository
	types map[string]*entities.IngredientType
}

func (r *fakeIngredientRepository) GetIngredientsByIDs(_ context.Context, ids []string) ([]*entities.IngredientType, error) {
	var res []*entities.IngredientType
	for _, id := range ids {
		if t, ok := r.types[id]; ok {
			res = append(res, t)
		}
	}
	return res, nil
}

type fakeUserRepository struct {
	user.UserRepository
	subscriptions map[[2]string]bool
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

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func (s *fakeStorage) UploadFile(_ context.Context, objectKey string, data []byte, _ string) (string, error) {
	s.objects[objectKey] = data
	return objectKey, nil
}

func (s *fakeStorage) DeleteFile(_ context.Context, objectKey string) error {
	delete(s.objects, objectKey)
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func (s *fakeStorage) GetObjectKeyFromLink(link string) string {
	return link[len("https://cdn.test/"):]
}

func (s *fakeStorage) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

type fakeInvalidator struct {
	invalidated  []string
	onInvalidate func()
}

func (f *fakeInvalidator) Invalidate(_ context.Context, userIDs ...string) {
	f.invalidated = append(f.invalidated, userIDs...)
	if f.onInvalidate != nil {
		f.onInvalidate()
	}
}

type recipeFixture struct {
	service     RecipeService
	repo        *fakeRecipeRepository
	storage     *fakeStorage
	invalidator *fakeInvalidator
	subs        map[[2]string]bool
	author      *entities.User
	viewer      *entities.User
	egg         *entities.IngredientType
	flour       *entities.IngredientType
	breakfast   *entities.Tag
}

func newRecipeFixture() recipeFixture {
	author := &entities.User{ID: uuid.New(), Username: "author"}
	viewer := &entities.User{ID: uuid.New(), Username: "viewer"}
	egg := &entities.IngredientType{ID: uuid.New(), Name: "Egg", MeasurementUnit: "pcs"}
	flour := &entities.IngredientType{ID: uuid.New(), Name: "Flour", MeasurementUnit: "g"}
	breakfast := &entities.Tag{ID: uuid.New(), Name: "Breakfast", Color: "#fff", Slug: "breakfast"}

	types := map[string]*entities.IngredientType{egg.ID.String(): egg, flour.ID.String(): flour}
	tags := map[string]*entities.Tag{breakfast.ID.String(): breakfast}
	subs := map[[2]string]bool{}

	repo := &fakeRecipeRepository{
		recipes:   map[string]*entities.Recipe{},
		favorites: map[[2]string]bool{},
		cart:      map[[2]string]bool{},
		users:     map[string]*entities.User{author.ID.String(): author, viewer.ID.String(): viewer},
		types:     types,
		tags:      tags,
	}
	storage := &fakeStorage{objects: map[string][]byte{}}
	invalidator := &fakeInvalidator{}

	return recipeFixture{
		service: NewRecipeService(
			repo,
			&fakeTagRepository{tags: tags},
			&fakeIngredientRepository{types: types},
			&fakeUserRepository{subscriptions: subs},
			storage,
			invalidator,
		),
		repo:        repo,
		storage:     storage,
		invalidator: invalidator,
		subs:        subs,
		author:      author,
		viewer:      viewer,
		egg:         egg,
		flour:       flour,
		breakfast:   breakfast,
	}
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func (f recipeFixture) createRequest(t *testing.T) domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.egg.ID.String(), Amount: 2},
			{ID: f.flour.ID.String(), Amount: 100},
			{ID: f.egg.ID.String(), Amount: 1},
		},
		Tags:        []string{f.breakfast.ID.String()},
		Image:       pngDataURI(t),
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
	}
}

func TestCreateRecipe(t *testing.T) {
	f := newRecipeFixture()

	res, err := f.service.CreateRecipe(context.Background(), f.createRequest(t), f.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", res.Name)
	assert.Equal(t, f.author.ID.String(), res.Author.ID)
	require.Len(t, res.Ingredients, 3)
	assert.Equal(t, "Egg", res.Ingredients[0].Name)
	assert.Equal(t, "Flour", res.Ingredients[1].Name)
	assert.Equal(t, 1.0, res.Ingredients[2].Amount)
	require.Len(t, res.Tags, 1)
	assert.Len(t, f.storage.objects, 1)
	assert.Contains(t, res.Image, "https://cdn.test/recipes/")

	require.NotNil(t, res.IsFavorited)
	assert.False(t, *res.IsFavorited)
	assert.Nil(t, res.Author.IsSubscribed)
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	userID := f.author.ID.String()

	req := f.createRequest(t)
	req.CookingTime = 0
	_, err := f.service.CreateRecipe(ctx, req, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidCookingTime)

	req = f.createRequest(t)
	req.CookingTime = 361
	_, err = f.service.CreateRecipe(ctx, req, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidCookingTime)

	req = f.createRequest(t)
	req.Ingredients[1].Amount = 0
	_, err = f.service.CreateRecipe(ctx, req, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = f.createRequest(t)
	req.Ingredients = nil
	_, err = f.service.CreateRecipe(ctx, req, userID)
	assert.ErrorIs(t, err, domain.ErrNoIngredients)

	req = f.createRequest(t)
	req.Ingredients[0].ID = uuid.NewString()
	_, err = f.service.CreateRecipe(ctx, req, userID)
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	req = f.createRequest(t)
	req.Tags = []string{uuid.NewString()}
	_, err = f.service.CreateRecipe(ctx, req, userID)
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	req = f.createRequest(t)
	req.Image = "not an image"
	_, err = f.service.CreateRecipe(ctx, req, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidImage)

	assert.Empty(t, f.repo.recipes)
	assert.Empty(t, f.storage.objects)
}

func TestUpdateRecipePermissions(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(t), f.author.ID.String())
	require.NoError(t, err)

	_, err = f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Name: "Mine"}, f.viewer.ID.String(), domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	author := f.viewer.ID.String()
	_, err = f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Author: &author}, f.author.ID.String(), domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrAuthorImmutable)

	res, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Name: "Admin edit"}, f.viewer.ID.String(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Admin edit", res.Name)
	assert.Len(t, res.Ingredients, 3)
}

func TestUpdateRecipeCookingTime(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	authorID := f.author.ID.String()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(t), authorID)
	require.NoError(t, err)

	zero := 0
	_, err = f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{CookingTime: &zero}, authorID, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrInvalidCookingTime)

	res, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Name: "Renamed"}, authorID, domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 20, res.CookingTime)

	minutes := 45
	res, err = f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{CookingTime: &minutes}, authorID, domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 45, res.CookingTime)
}

func TestUpdateRecipeReplacesIngredientsAndImage(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	authorID := f.author.ID.String()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(t), authorID)
	require.NoError(t, err)
	_, err = f.service.AddToShoppingCart(ctx, created.ID, f.viewer.ID.String())
	require.NoError(t, err)
	f.invalidator.invalidated = nil

	res, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.flour.ID.String(), Amount: 250}},
		Image:       pngDataURI(t),
	}, authorID, domain.RoleUser)
	require.NoError(t, err)

	require.Len(t, res.Ingredients, 1)
	assert.Equal(t, 250.0, res.Ingredients[0].Amount)
	assert.NotEqual(t, created.Image, res.Image)
	assert.Len(t, f.storage.objects, 1)
	assert.Equal(t, []string{f.storage.GetObjectKeyFromLink(created.Image)}, f.storage.deleted)
	assert.Equal(t, []string{f.viewer.ID.String()}, f.invalidator.invalidated)
}

func TestDeleteRecipe(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(t), f.author.ID.String())
	require.NoError(t, err)

	_, err = f.service.AddToShoppingCart(ctx, created.ID, f.viewer.ID.String())
	require.NoError(t, err)
	f.invalidator.invalidated = nil

	assert.ErrorIs(t, f.service.DeleteRecipe(ctx, created.ID, f.viewer.ID.String(), domain.RoleUser), domain.ErrUnauthorizedRecipeAccess)
	assert.Empty(t, f.invalidator.invalidated)

	// a list rebuilt before the delete commits must not survive it
	f.invalidator.onInvalidate = func() {
		assert.NotContains(t, f.repo.recipes, created.ID)
	}
	require.NoError(t, f.service.DeleteRecipe(ctx, created.ID, f.author.ID.String(), domain.RoleUser))
	assert.Equal(t, []string{f.viewer.ID.String()}, f.invalidator.invalidated)

	assert.Empty(t, f.repo.recipes)
	assert.Empty(t, f.storage.objects)

	_, err = f.service.GetRecipeDetail(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestFavoriteAndCartToggles(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	viewerID := f.viewer.ID.String()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(t), f.author.ID.String())
	require.NoError(t, err)

	short, err := f.service.AddFavorite(ctx, created.ID, viewerID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecipeShortResponse{ID: created.ID, Name: "Pancakes", Image: created.Image, CookingTime: 20}, short)

	_, err = f.service.AddFavorite(ctx, created.ID, viewerID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)

	_, err = f.service.AddToShoppingCart(ctx, created.ID, viewerID)
	require.NoError(t, err)
	_, err = f.service.AddToShoppingCart(ctx, created.ID, viewerID)
	assert.ErrorIs(t, err, domain.ErrAlreadyInCart)
	assert.Contains(t, f.invalidator.invalidated, viewerID)

	detail, err := f.service.GetRecipeDetail(ctx, created.ID, viewerID)
	require.NoError(t, err)
	assert.True(t, *detail.IsFavorited)
	assert.True(t, *detail.IsInShoppingCart)
	require.NotNil(t, detail.Author.IsSubscribed)
	assert.False(t, *detail.Author.IsSubscribed)

	require.NoError(t, f.service.RemoveFavorite(ctx, created.ID, viewerID))
	assert.ErrorIs(t, f.service.RemoveFavorite(ctx, created.ID, viewerID), domain.ErrNotFavorited)
	require.NoError(t, f.service.RemoveFromShoppingCart(ctx, created.ID, viewerID))
	assert.ErrorIs(t, f.service.RemoveFromShoppingCart(ctx, created.ID, viewerID), domain.ErrNotInCart)

	_, err = f.service.AddFavorite(ctx, uuid.NewString(), viewerID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestGetRecipesFlagsForViewer(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	viewerID := f.viewer.ID.String()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(t), f.author.ID.String())
	require.NoError(t, err)
	f.subs[[2]string{viewerID, f.author.ID.String()}] = true
	_, err = f.service.AddToShoppingCart(ctx, created.ID, viewerID)
	require.NoError(t, err)

	anonymous, total, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Nil(t, anonymous[0].IsFavorited)
	assert.Nil(t, anonymous[0].Author.IsSubscribed)

	viewed, _, err := f.service.GetRecipes(ctx, domain.RecipeFilter{IsInShoppingCart: true}, viewerID)
	require.NoError(t, err)
	require.Len(t, viewed, 1)
	assert.True(t, *viewed[0].IsInShoppingCart)
	assert.False(t, *viewed[0].IsFavorited)
	assert.True(t, *viewed[0].Author.IsSubscribed)
}

func TestGetAuthorRecipes(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		req := f.createRequest(t)
		req.Name = name
		_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
		require.NoError(t, err)
	}

	recipes, count, err := f.service.GetAuthorRecipes(ctx, f.author.ID.String(), 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, recipes, 2)
}
