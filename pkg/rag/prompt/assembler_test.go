package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/pkg/llm"
	"skintech-consultant-be/pkg/rag/websearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
}

func history(n int) []*entity.Message {
	msgs := make([]*entity.Message, n)
	for i := range msgs {
		role := entity.RoleUser
		if i%2 == 1 {
			role = entity.RoleAssistant
		}
		msgs[i] = &entity.Message{Role: role, Content: fmt.Sprintf("msg-%02d %s", i, strings.Repeat("x", i*100))}
	}
	return msgs
}

func TestAssemble_MinimalPrompt(t *testing.T) {
	a := NewAssembler(DefaultHistoryWindow).WithClock(fixedClock)

	got := a.Assemble(Input{Query: "hi"})

	require.Len(t, got, 2)
	assert.Equal(t, llm.RoleSystem, got[0].Role)
	assert.Contains(t, got[0].Content, "Current System Time: 2025-03-14 09:30:00")
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "hi"}, got[1])
}

func TestAssemble_HistoryTruncatedToLastTen(t *testing.T) {
	a := NewAssembler(DefaultHistoryWindow).WithClock(fixedClock)

	got := a.Assemble(Input{Query: "now", History: history(15)})

	// persona + 10 history + query
	require.Len(t, got, 12)
	for i := 0; i < 10; i++ {
		assert.True(t, strings.HasPrefix(got[1+i].Content, fmt.Sprintf("msg-%02d", i+5)), "position %d", i)
	}
	assert.Equal(t, "now", got[len(got)-1].Content)
	assert.Equal(t, llm.RoleUser, got[len(got)-1].Role)
}

func TestAssemble_ContextBlock(t *testing.T) {
	skin := entity.SkinTypeOily
	a := NewAssembler(DefaultHistoryWindow).WithClock(fixedClock)

	got := a.Assemble(Input{
		Query: "推荐一款祛痘精华",
		Profile: &entity.UserProfile{
			SkinType:      &skin,
			Sensitivities: []string{"alcohol"},
		},
		Products: []entity.Product{{
			ProductName:       "Clear Serum",
			Brand:             "The Ordinary",
			CoreIngredients:   []string{"Salicylic Acid", "Niacinamide"},
			SuitableSkinTypes: []string{"oily", "combination"},
		}},
		WebResults: []websearch.SearchResult{{Title: "Acne 101", URL: "https://example.com", Snippet: "Basics."}},
		History:    history(2),
	})

	require.Len(t, got, 5)
	ctx := got[1]
	assert.Equal(t, llm.RoleSystem, ctx.Role)
	assert.True(t, strings.HasPrefix(ctx.Content, "Context Information:"))
	assert.Contains(t, ctx.Content, "- Skin Type: oily")
	assert.Contains(t, ctx.Content, "- Sensitivities: alcohol")
	assert.Contains(t, ctx.Content, "- Concerns: None")
	assert.Contains(t, ctx.Content, "- Budget: Unknown")
	assert.Contains(t, ctx.Content, "- Clear Serum (The Ordinary): Salicylic Acid, Niacinamide. Good for oily, combination.")
	assert.Contains(t, ctx.Content, "- Acne 101 (https://example.com): Basics.")

	profileAt := strings.Index(ctx.Content, "**User Profile:**")
	productsAt := strings.Index(ctx.Content, "**Retrieved Product Knowledge:**")
	webAt := strings.Index(ctx.Content, "**Web Search Results:**")
	assert.True(t, profileAt < productsAt && productsAt < webAt)

	assert.Equal(t, entity.RoleUser, got[2].Role)
	assert.Equal(t, entity.RoleAssistant, got[3].Role)
}

func TestAssemble_EmptyProfileOmitsContext(t *testing.T) {
	a := NewAssembler(DefaultHistoryWindow).WithClock(fixedClock)

	got := a.Assemble(Input{Query: "hello", Profile: &entity.UserProfile{Version: 3}})

	require.Len(t, got, 2)
}
