package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/storage/badger"
)

func turnAt(i int, ts time.Time) *core.Turn {
	return &core.Turn{
		Timestamp:   ts,
		UserQuery:   fmt.Sprintf("question %d", i),
		BotResponse: fmt.Sprintf("answer %d", i),
		Language:    core.LanguageEnglish,
	}
}

func TestGetOrCreate(t *testing.T) {
	s := NewStore()

	t.Run("existing id passes through", func(t *testing.T) {
		assert.Equal(t, "sess-1", s.GetOrCreate("sess-1"))
	})

	t.Run("empty id mints a unique one", func(t *testing.T) {
		a := s.GetOrCreate("")
		b := s.GetOrCreate("")
		assert.NotEmpty(t, a)
		assert.NotEqual(t, a, b)
	})
}

func TestAppendTurnWindow(t *testing.T) {
	s := NewStore(WithCapacity(3))
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendTurn(ctx, "s1", turnAt(i, base.Add(time.Duration(i)*time.Minute))))
	}

	turns := s.Turns(ctx, "s1")
	require.Len(t, turns, 3)
	assert.Equal(t, "question 2", turns[0].UserQuery)
	assert.Equal(t, "question 4", turns[2].UserQuery)
}

func TestAppendTurnValidates(t *testing.T) {
	s := NewStore()
	err := s.AppendTurn(context.Background(), "s1", &core.Turn{
		Timestamp: time.Now().UTC(),
		Language:  core.LanguageEnglish,
	})
	assert.Error(t, err)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.AppendTurn(ctx, "s1", turnAt(1, ts)))
	require.NoError(t, s.AppendTurn(ctx, "s2", turnAt(2, ts)))

	assert.Len(t, s.Turns(ctx, "s1"), 1)
	assert.Len(t, s.Turns(ctx, "s2"), 1)
	assert.Empty(t, s.Turns(ctx, "unknown"))
}

func TestFlattenedContext(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("empty history renders empty", func(t *testing.T) {
		assert.Equal(t, "", s.FlattenedContext(ctx, "empty", core.LanguageEnglish))
	})

	require.NoError(t, s.AppendTurn(ctx, "s1", &core.Turn{
		Timestamp:   ts,
		UserQuery:   "what is dharma",
		BotResponse: "dharma is duty",
		Language:    core.LanguageEnglish,
	}))

	t.Run("english prologue", func(t *testing.T) {
		got := s.FlattenedContext(ctx, "s1", core.LanguageEnglish)
		assert.Equal(t, "Previous conversation:\nQ: what is dharma\nA: dharma is duty", got)
	})

	t.Run("telugu prologue", func(t *testing.T) {
		got := s.FlattenedContext(ctx, "s1", core.LanguageTelugu)
		assert.Contains(t, got, "మునుపటి సంభాషణ:")
		assert.Contains(t, got, "Q: what is dharma")
	})
}

func TestMessages(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	assert.Nil(t, s.Messages(ctx, "empty"))

	require.NoError(t, s.AppendTurn(ctx, "s1", &core.Turn{
		Timestamp:   ts,
		UserQuery:   "what is dharma",
		BotResponse: "dharma is duty",
		Language:    core.LanguageEnglish,
	}))
	require.NoError(t, s.AppendTurn(ctx, "s1", &core.Turn{
		Timestamp: ts.Add(time.Minute),
		UserQuery: "and karma",
		Language:  core.LanguageEnglish,
	}))

	messages := s.Messages(ctx, "s1")
	require.Len(t, messages, 4)
	assert.Equal(t, core.RoleSystem, messages[0].Role)
	assert.Equal(t, core.RoleUser, messages[1].Role)
	assert.Equal(t, "what is dharma", messages[1].Content)
	assert.Equal(t, core.RoleAssistant, messages[2].Role)
	assert.Equal(t, core.RoleUser, messages[3].Role)
	assert.Equal(t, "and karma", messages[3].Content)
}

func TestDurableBacking(t *testing.T) {
	_, repo, _, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	s := NewStore(WithRepository(repo), WithCapacity(5))
	require.NoError(t, s.AppendTurn(ctx, "s1", turnAt(1, ts)))
	require.NoError(t, s.AppendTurn(ctx, "s1", turnAt(2, ts.Add(time.Minute))))

	// A fresh store over the same repository sees the history.
	fresh := NewStore(WithRepository(repo), WithCapacity(5))
	turns := fresh.Turns(ctx, "s1")
	require.Len(t, turns, 2)
	assert.Equal(t, "question 1", turns[0].UserQuery)
	assert.Equal(t, "question 2", turns[1].UserQuery)
}
