package shopping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/utils/cache"
	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/internal/utils/mailing"
	"Foodgram-Backend/pkg/user"

	"gorm.io/gorm"
)

const (
	DefaultCacheTTL = 10 * time.Minute
	cacheKeyFormat  = "shopping_list:%s"
)

type (
	ShoppingService interface {
		GetShoppingList(ctx context.Context, userID string) (domain.ShoppingList, error)
		Export(ctx context.Context, userID string, format string) (domain.ShoppingExport, error)
		EmailShoppingList(ctx context.Context, userID string) error
		Invalidate(ctx context.Context, userIDs ...string)
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
		userRepository     user.UserRepository
		cache              cache.Cache
		cacheTTL           time.Duration
		mailer             mailing.Mailer
	}
)

func NewShoppingService(
	shoppingRepository ShoppingRepository,
	userRepository user.UserRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	mailer mailing.Mailer,
) ShoppingService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &shoppingService{
		shoppingRepository: shoppingRepository,
		userRepository:     userRepository,
		cache:              c,
		cacheTTL:           cacheTTL,
		mailer:             mailer,
	}
}

func cacheKey(userID string) string {
	return fmt.Sprintf(cacheKeyFormat, userID)
}

func (s *shoppingService) GetShoppingList(ctx context.Context, userID string) (domain.ShoppingList, error) {
	var list domain.ShoppingList
	err := s.cache.GetJSON(ctx, cacheKey(userID), &list)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logging.Warn().Err(err).Str("user_id", userID).Msg("shopping list cache read failed")
	}

	rows, err := s.shoppingRepository.GetCartRows(ctx, userID)
	if err != nil {
		return domain.ShoppingList{}, fmt.Errorf("load cart rows: %w", err)
	}
	list = AggregateRows(rows)

	if err := s.cache.SetJSON(ctx, cacheKey(userID), list, s.cacheTTL); err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("shopping list cache write failed")
	}
	return list, nil
}

func (s *shoppingService) Invalidate(ctx context.Context, userIDs ...string) {
	if len(userIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, cacheKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logging.Warn().Err(err).Strs("user_ids", userIDs).Msg("shopping list cache invalidation failed")
	}
}

func (s *shoppingService) getUsername(ctx context.Context, userID string) (string, string, error) {
	u, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", domain.ErrUserNotFound
		}
		return "", "", err
	}
	return u.Username, u.Email, nil
}

func (s *shoppingService) Export(ctx context.Context, userID string, format string) (domain.ShoppingExport, error) {
	if format != domain.ShoppingFormatText && format != domain.ShoppingFormatPDF {
		return domain.ShoppingExport{}, domain.ErrUnknownShoppingFormat
	}

	username, _, err := s.getUsername(ctx, userID)
	if err != nil {
		return domain.ShoppingExport{}, err
	}
	list, err := s.GetShoppingList(ctx, userID)
	if err != nil {
		return domain.ShoppingExport{}, err
	}

	export := domain.ShoppingExport{
		Filename: fmt.Sprintf("shopping_list_%s.%s", username, format),
	}
	switch format {
	case domain.ShoppingFormatText:
		export.ContentType = "text/plain; charset=utf-8"
		export.Data = RenderText(list, username)
	case domain.ShoppingFormatPDF:
		export.ContentType = "application/pdf"
		if export.Data, err = RenderPDF(list, username); err != nil {
			return domain.ShoppingExport{}, err
		}
	}
	return export, nil
}

// EmailShoppingList mails the text list to the user with the PDF attached.
func (s *shoppingService) EmailShoppingList(ctx context.Context, userID string) error {
	username, email, err := s.getUsername(ctx, userID)
	if err != nil {
		return err
	}
	list, err := s.GetShoppingList(ctx, userID)
	if err != nil {
		return err
	}

	pdf, err := RenderPDF(list, username)
	if err != nil {
		return err
	}

	if err := s.mailer.SendMail(
		email,
		"Your Foodgram shopping list",
		string(RenderText(list, username)),
		mailing.Attachment{Filename: fmt.Sprintf("shopping_list_%s.pdf", username), Data: pdf},
	); err != nil {
		return fmt.Errorf("send shopping list: %w", err)
	}

	logging.Info().Str("user_id", userID).Int("items", len(list.Items)).Msg("shopping list mailed")
	return nil
}
