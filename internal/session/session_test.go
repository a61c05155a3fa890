package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"

	"promptgen-backend/internal/models"
)

func setupMockRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestNewSession(t *testing.T) {
	s := New()
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Authenticated())
	assert.Equal(t, models.EmptyForm(), s.Form)
	assert.Equal(t, models.ToneProfessional, s.Form.Tone)
}

func TestClearForm(t *testing.T) {
	s := New()
	s.Form = models.FormValues{User: "a", SelectedRole: "x", CustomRole: "y", Task: "b", Context: "c", Outcome: "d", Tone: models.ToneCasual}
	s.ClearForm()
	assert.Equal(t, models.FormValues{Tone: models.ToneProfessional}, s.Form)
}

func exerciseStore(t *testing.T, st Store) {
	ctx := context.Background()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := New()
	s.Token = map[string]string{"access_token": "abc"}
	s.Form.User = "a@b.com"
	assert.NoError(t, st.Save(ctx, s))

	got, err := st.Get(ctx, s.ID)
	assert.NoError(t, err)
	assert.Equal(t, "abc", got.Token["access_token"])
	assert.Equal(t, "a@b.com", got.Form.User)

	got.Token["access_token"] = "mutated"
	again, err := st.Get(ctx, s.ID)
	assert.NoError(t, err)
	assert.Equal(t, "abc", again.Token["access_token"])

	assert.NoError(t, st.Delete(ctx, s.ID))
	_, err = st.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	_, client := setupMockRedis(t)
	exerciseStore(t, NewRedisStore(client, time.Hour))
}

func TestRedisStoreExpires(t *testing.T) {
	mr, client := setupMockRedis(t)
	st := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	s := New()
	assert.NoError(t, st.Save(ctx, s))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+s.ID))

	mr.FastForward(2 * time.Minute)
	_, err := st.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreCorruptValue(t *testing.T) {
	mr, client := setupMockRedis(t)
	assert.NoError(t, mr.Set(keyPrefix+"bad", "{not json"))

	_, err := NewRedisStore(client, time.Hour).Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
