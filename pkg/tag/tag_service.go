package tag

import (
	"context"
	"errors"
	"fmt"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTagByID(ctx context.Context, id string) (domain.TagResponse, error)
		CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.TagResponse, error)
		UpdateTag(ctx context.Context, id string, req domain.UpdateTagRequest) (domain.TagResponse, error)
		DeleteTag(ctx context.Context, id string) error
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func ToTagResponse(tag *entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    tag.ID.String(),
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		res = append(res, ToTagResponse(tag))
	}
	return res, nil
}

func (s *tagService) getTag(ctx context.Context, id string) (*entities.Tag, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrTagNotFound
	}
	tag, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) GetTagByID(ctx context.Context, id string) (domain.TagResponse, error) {
	tag, err := s.getTag(ctx, id)
	if err != nil {
		return domain.TagResponse{}, err
	}
	return ToTagResponse(tag), nil
}

func (s *tagService) CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.TagResponse, error) {
	exists, err := s.tagRepository.ExistsByNameOrSlug(ctx, req.Name, req.Slug, "")
	if err != nil {
		return domain.TagResponse{}, err
	}
	if exists {
		return domain.TagResponse{}, domain.ErrTagExists
	}

	tag := &entities.Tag{
		ID:    uuid.New(),
		Name:  req.Name,
		Color: req.Color,
		Slug:  req.Slug,
	}
	if err := s.tagRepository.CreateTag(ctx, tag); err != nil {
		return domain.TagResponse{}, fmt.Errorf("create tag: %w", err)
	}
	return ToTagResponse(tag), nil
}

func (s *tagService) UpdateTag(ctx context.Context, id string, req domain.UpdateTagRequest) (domain.TagResponse, error) {
	tag, err := s.getTag(ctx, id)
	if err != nil {
		return domain.TagResponse{}, err
	}

	if req.Name != "" {
		tag.Name = req.Name
	}
	if req.Color != "" {
		tag.Color = req.Color
	}
	if req.Slug != "" {
		tag.Slug = req.Slug
	}

	exists, err := s.tagRepository.ExistsByNameOrSlug(ctx, tag.Name, tag.Slug, tag.ID.String())
	if err != nil {
		return domain.TagResponse{}, err
	}
	if exists {
		return domain.TagResponse{}, domain.ErrTagExists
	}

	if err := s.tagRepository.UpdateTag(ctx, tag); err != nil {
		return domain.TagResponse{}, fmt.Errorf("update tag: %w", err)
	}
	return ToTagResponse(tag), nil
}

func (s *tagService) DeleteTag(ctx context.Context, id string) error {
	if _, err := s.getTag(ctx, id); err != nil {
		return err
	}
	return s.tagRepository.DeleteTag(ctx, id)
}
