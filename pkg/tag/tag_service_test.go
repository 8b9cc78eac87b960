package tag

import (
	"context"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTagRepository struct {
	tags map[string]*entities.Tag
}

func newFakeTagRepository() *fakeTagRepository {
	return &fakeTagRepository{tags: map[string]*entities.Tag{}}
}

func (r *fakeTagRepository) CreateTag(_ context.Context, tag *entities.Tag) error {
	r.tags[tag.ID.String()] = tag
	return nil
}

func (r *fakeTagRepository) GetTagByID(_ context.Context, id string) (*entities.Tag, error) {
	tag, ok := r.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *tag
	return &copied, nil
}

func (r *fakeTagRepository) GetTags(_ context.Context) ([]*entities.Tag, error) {
	res := make([]*entities.Tag, 0, len(r.tags))
	for _, tag := range r.tags {
		res = append(res, tag)
	}
	return res, nil
}

func (r *fakeTagRepository) GetTagsByIDs(_ context.Context, ids []string) ([]*entities.Tag, error) {
	var res []*entities.Tag
	for _, id := range ids {
		if tag, ok := r.tags[id]; ok {
			res = append(res, tag)
		}
	}
	return res, nil
}

func (r *fakeTagRepository) ExistsByNameOrSlug(_ context.Context, name, slug, excludeID string) (bool, error) {
	for id, tag := range r.tags {
		if id == excludeID {
			continue
		}
		if tag.Name == name || tag.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTagRepository) UpdateTag(_ context.Context, tag *entities.Tag) error {
	r.tags[tag.ID.String()] = tag
	return nil
}

func (r *fakeTagRepository) DeleteTag(_ context.Context, id string) error {
	delete(r.tags, id)
	return nil
}

func TestCreateTag(t *testing.T) {
	svc := NewTagService(newFakeTagRepository())
	ctx := context.Background()

	res, err := svc.CreateTag(ctx, domain.CreateTagRequest{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"})
	require.NoError(t, err)
	assert.Equal(t, "breakfast", res.Slug)

	_, err = svc.CreateTag(ctx, domain.CreateTagRequest{Name: "Morning", Color: "#fff", Slug: "breakfast"})
	assert.ErrorIs(t, err, domain.ErrTagExists)
}

func TestUpdateTagKeepsOwnSlug(t *testing.T) {
	repo := newFakeTagRepository()
	svc := NewTagService(repo)
	ctx := context.Background()

	created, err := svc.CreateTag(ctx, domain.CreateTagRequest{Name: "Lunch", Color: "#49B64E", Slug: "lunch"})
	require.NoError(t, err)

	res, err := svc.UpdateTag(ctx, created.ID, domain.UpdateTagRequest{Color: "#000"})
	require.NoError(t, err)
	assert.Equal(t, "#000", res.Color)
	assert.Equal(t, "lunch", res.Slug)
}

func TestGetTagNotFound(t *testing.T) {
	svc := NewTagService(newFakeTagRepository())

	_, err := svc.GetTagByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	_, err = svc.GetTagByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	assert.ErrorIs(t, svc.DeleteTag(context.Background(), uuid.NewString()), domain.ErrTagNotFound)
}
