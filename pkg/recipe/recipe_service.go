package recipe

import (
	"context"
	"errors"
	"fmt"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/imagecodec"
	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string, role string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string, role string) error

		AddFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeShortResponse, error)
		RemoveFavorite(ctx context.Context, recipeID string, userID string) error
		AddToShoppingCart(ctx context.Context, recipeID string, userID string) (domain.RecipeShortResponse, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID string, userID string) error

		GetAuthorRecipes(ctx context.Context, authorID string, limit int) ([]domain.RecipeShortResponse, int64, error)
	}

	// ShoppingListInvalidator drops cached shopping lists of the given users.
	ShoppingListInvalidator interface {
		Invalidate(ctx context.Context, userIDs ...string)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		userRepository       user.UserRepository
		s3                   storage.AwsS3
		shoppingLists        ShoppingListInvalidator
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
	shoppingLists ShoppingListInvalidator,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		userRepository:       userRepository,
		s3:                   s3,
		shoppingLists:        shoppingLists,
	}
}

func ToRecipeShortResponse(recipe *entities.Recipe) domain.RecipeShortResponse {
	return domain.RecipeShortResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

type viewerFlags struct {
	favorited  map[string]bool
	inCart     map[string]bool
	subscribed map[string]bool
}

func toRecipeResponse(recipe *entities.Recipe, viewerID string, flags viewerFlags) domain.RecipeResponse {
	res := domain.RecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Image:       recipe.ImageURL,
		Ingredients: make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients)),
		Tags:        make([]domain.TagResponse, 0, len(recipe.Tags)),
		CreatedAt:   recipe.CreatedAt,
	}

	if recipe.Author != nil {
		res.Author = user.ToUserResponse(recipe.Author)
		if viewerID != "" && viewerID != res.Author.ID {
			subscribed := flags.subscribed[res.Author.ID]
			res.Author.IsSubscribed = &subscribed
		}
	} else {
		res.Author = domain.UserResponse{ID: recipe.AuthorID.String()}
	}

	for _, row := range recipe.Ingredients {
		item := domain.RecipeIngredientResponse{
			ID:     row.IngredientTypeID.String(),
			Amount: row.Amount,
		}
		if row.IngredientType != nil {
			item.Name = row.IngredientType.Name
			item.MeasurementUnit = row.IngredientType.MeasurementUnit
		}
		res.Ingredients = append(res.Ingredients, item)
	}

	for _, t := range recipe.Tags {
		res.Tags = append(res.Tags, tag.ToTagResponse(t))
	}

	if viewerID != "" {
		favorited := flags.favorited[res.ID]
		inCart := flags.inCart[res.ID]
		res.IsFavorited = &favorited
		res.IsInShoppingCart = &inCart
	}
	return res
}

func (s *recipeService) loadViewerFlags(ctx context.Context, viewerID string, recipes []*entities.Recipe) (viewerFlags, error) {
	flags := viewerFlags{}
	if viewerID == "" || len(recipes) == 0 {
		return flags, nil
	}

	recipeIDs := make([]string, 0, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID.String())
		authorIDs = append(authorIDs, recipe.AuthorID.String())
	}

	var err error
	if flags.favorited, err = s.recipeRepository.GetFavoritedIDs(ctx, viewerID, recipeIDs); err != nil {
		return flags, err
	}
	if flags.inCart, err = s.recipeRepository.GetShoppingCartIDs(ctx, viewerID, recipeIDs); err != nil {
		return flags, err
	}
	if flags.subscribed, err = s.userRepository.GetSubscribedToIDs(ctx, viewerID, authorIDs); err != nil {
		return flags, err
	}
	return flags, nil
}

func (s *recipeService) getRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID)
	if err != nil {
		return nil, 0, err
	}

	flags, err := s.loadViewerFlags(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, toRecipeResponse(recipe, viewerID, flags))
	}
	return res, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	flags, err := s.loadViewerFlags(ctx, viewerID, []*entities.Recipe{recipe})
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(recipe, viewerID, flags), nil
}

// buildIngredientRows checks amounts and that every referenced ingredient type
// exists. Repeated ingredient ids stay separate rows.
func (s *recipeService) buildIngredientRows(ctx context.Context, recipeID uuid.UUID, reqs []domain.RecipeIngredientRequest) ([]*entities.RecipeIngredient, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrNoIngredients
	}

	ids := make([]string, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		if req.Amount <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		id, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, domain.ErrIngredientNotFound
		}
		if _, ok := seen[id.String()]; !ok {
			seen[id.String()] = struct{}{}
			ids = append(ids, id.String())
		}
	}

	found, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, domain.ErrIngredientNotFound
	}

	rows := make([]*entities.RecipeIngredient, 0, len(reqs))
	for i, req := range reqs {
		rows = append(rows, &entities.RecipeIngredient{
			ID:               uuid.New(),
			RecipeID:         recipeID,
			IngredientTypeID: uuid.MustParse(req.ID),
			Amount:           req.Amount,
			Position:         i,
		})
	}
	return rows, nil
}

func (s *recipeService) resolveTags(ctx context.Context, ids []string) ([]*entities.Tag, error) {
	if len(ids) == 0 {
		return nil, domain.ErrNoTags
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, domain.ErrTagNotFound
		}
		if _, ok := seen[parsed.String()]; ok {
			continue
		}
		seen[parsed.String()] = struct{}{}
		unique = append(unique, parsed.String())
	}

	tags, err := s.tagRepository.GetTagsByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, domain.ErrTagNotFound
	}
	return tags, nil
}

func validateCookingTime(minutes int) error {
	if minutes < domain.MinCookingTime || minutes > domain.MaxCookingTime {
		return domain.ErrInvalidCookingTime
	}
	return nil
}

func (s *recipeService) uploadImage(ctx context.Context, payload string) (string, error) {
	img, err := imagecodec.DecodeBase64(payload, imagecodec.DefaultMaxDimension)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("%s/%s.%s", imageFolder, uuid.NewString(), img.Extension)
	if _, err := s.s3.UploadFile(ctx, objectKey, img.Data, img.ContentType); err != nil {
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) deleteImage(ctx context.Context, link string) {
	if link == "" {
		return
	}
	objectKey := s.s3.GetObjectKeyFromLink(link)
	if objectKey == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
		logging.Warn().Err(err).Str("object_key", objectKey).Msg("failed to delete recipe image")
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}
	if err := validateCookingTime(req.CookingTime); err != nil {
		return domain.RecipeResponse{}, err
	}

	recipeID := uuid.New()
	rows, err := s.buildIngredientRows(ctx, recipeID, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL, err := s.uploadImage(ctx, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          recipeID,
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
		Ingredients: rows,
		Tags:        tags,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		s.deleteImage(ctx, imageURL)
		return domain.RecipeResponse{}, fmt.Errorf("create recipe: %w", err)
	}

	return s.GetRecipeDetail(ctx, recipeID.String(), userID)
}

func canModify(recipe *entities.Recipe, userID, role string) bool {
	return role == domain.RoleAdmin || recipe.AuthorID.String() == userID
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string, role string) (domain.RecipeResponse, error) {
	if req.Author != nil {
		return domain.RecipeResponse{}, domain.ErrAuthorImmutable
	}

	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if !canModify(recipe, userID, role) {
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Text != "" {
		recipe.Text = req.Text
	}
	if req.CookingTime != nil {
		if err := validateCookingTime(*req.CookingTime); err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.CookingTime = *req.CookingTime
	}

	var rows []*entities.RecipeIngredient
	if req.Ingredients != nil {
		if rows, err = s.buildIngredientRows(ctx, recipe.ID, req.Ingredients); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	var tags []*entities.Tag
	if req.Tags != nil {
		if tags, err = s.resolveTags(ctx, req.Tags); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	oldImage := recipe.ImageURL
	if req.Image != "" {
		imageURL, err := s.uploadImage(ctx, req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.ImageURL = imageURL
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, rows, tags); err != nil {
		if recipe.ImageURL != oldImage {
			s.deleteImage(ctx, recipe.ImageURL)
		}
		return domain.RecipeResponse{}, fmt.Errorf("update recipe: %w", err)
	}
	if recipe.ImageURL != oldImage {
		s.deleteImage(ctx, oldImage)
	}

	if rows != nil {
		s.shoppingLists.Invalidate(ctx, s.cartUserIDs(ctx, recipe.ID.String())...)
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) cartUserIDs(ctx context.Context, recipeID string) []string {
	userIDs, err := s.recipeRepository.GetShoppingCartUserIDs(ctx, recipeID)
	if err != nil {
		logging.Warn().Err(err).Str("recipe_id", recipeID).Msg("failed to load carts for invalidation")
		return nil
	}
	return userIDs
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string, role string) error {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !canModify(recipe, userID, role) {
		return domain.ErrUnauthorizedRecipeAccess
	}

	// cart rows cascade with the recipe, so collect their owners first
	userIDs := s.cartUserIDs(ctx, recipeID)
	if err := s.recipeRepository.DeleteRecipe(ctx, recipeID); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	s.shoppingLists.Invalidate(ctx, userIDs...)
	s.deleteImage(ctx, recipe.ImageURL)
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeShortResponse{}, domain.ErrParseUUID
	}

	exists, err := s.recipeRepository.IsFavorited(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if exists {
		return domain.RecipeShortResponse{}, domain.ErrAlreadyFavorited
	}

	if err := s.recipeRepository.AddFavorite(ctx, userUUID, recipe.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeShortResponse{}, err
	}
	return ToRecipeShortResponse(recipe), nil
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID string, userID string) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	deleted, err := s.recipeRepository.RemoveFavorite(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFavorited
	}
	return nil
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID string, userID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeShortResponse{}, domain.ErrParseUUID
	}

	exists, err := s.recipeRepository.IsInShoppingCart(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if exists {
		return domain.RecipeShortResponse{}, domain.ErrAlreadyInCart
	}

	if err := s.recipeRepository.AddToShoppingCart(ctx, userUUID, recipe.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyInCart
		}
		return domain.RecipeShortResponse{}, err
	}
	s.shoppingLists.Invalidate(ctx, userID)
	return ToRecipeShortResponse(recipe), nil
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID string, userID string) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	deleted, err := s.recipeRepository.RemoveFromShoppingCart(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotInCart
	}
	s.shoppingLists.Invalidate(ctx, userID)
	return nil
}

func (s *recipeService) GetAuthorRecipes(ctx context.Context, authorID string, limit int) ([]domain.RecipeShortResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipesByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, ToRecipeShortResponse(recipe))
	}
	return res, count, nil
}
