package inmem

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/scala-steward/diesel-core/server/dao"
)

func Test_HistoryRepo_CreateAndGetByID(t *testing.T) {
	assert := assert.New(t)

	store := NewDatastore()
	defer store.Close()

	created, err := store.History().Create(context.Background(), dao.Entry{
		Axiom:   "E",
		Text:    "1 + 2",
		Success: true,
	})
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(created.ID.String(), "")

	fetched, err := store.History().GetByID(context.Background(), created.ID)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created.Text, fetched.Text)
	assert.Equal(created.Axiom, fetched.Axiom)
}

func Test_HistoryRepo_GetByID_notFound(t *testing.T) {
	assert := assert.New(t)

	store := NewDatastore()
	defer store.Close()

	_, err := store.History().GetByID(context.Background(), uuid.New())
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_HistoryRepo_GetRecent_mostRecentFirst(t *testing.T) {
	assert := assert.New(t)

	store := NewDatastore()
	defer store.Close()

	var ids []string
	for i := 0; i < 3; i++ {
		e, err := store.History().Create(context.Background(), dao.Entry{Text: string(rune('a' + i))})
		if !assert.NoError(err) {
			return
		}
		ids = append(ids, e.ID.String())
	}

	recent, err := store.History().GetRecent(context.Background(), 2)
	if !assert.NoError(err) {
		return
	}
	assert.Len(recent, 2)
}

func Test_HistoryRepo_GetRecent_zeroLimitReturnsAll(t *testing.T) {
	assert := assert.New(t)

	store := NewDatastore()
	defer store.Close()

	for i := 0; i < 3; i++ {
		_, err := store.History().Create(context.Background(), dao.Entry{Text: string(rune('a' + i))})
		if !assert.NoError(err) {
			return
		}
	}

	recent, err := store.History().GetRecent(context.Background(), 0)
	if !assert.NoError(err) {
		return
	}
	assert.Len(recent, 3)
}
