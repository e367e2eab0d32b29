package prompt

import (
	"fmt"
	"strings"
	"time"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/pkg/llm"
	"skintech-consultant-be/pkg/rag/websearch"
)

const DefaultHistoryWindow = 10

const personaPrompt = `You are SkinTech AI Consultant, a professional cosmetic chemist and skincare formulator.
Give personalized, science-backed skincare advice.

**Persona Guidelines:**
- Tone: professional, empathetic, scientific yet accessible.
- Perspective: reason from ingredients, formulations and skin physiology.
- Constraints: never give a medical diagnosis. Suggest seeing a dermatologist for serious conditions.
- Context: tailor the advice with the product knowledge and user profile provided.

**Response Structure:**
1. Direct Answer: address the question first.
2. Scientific Rationale: explain it through ingredients and skin type.
3. Product Recommendations (if applicable): use the retrieved products.
4. Usage Advice: how to fit it into a routine.

**Current Context:**
Current System Time: %s
`

// Input is everything a single generation request is built from.
type Input struct {
	Query      string
	Products   []entity.Product
	WebResults []websearch.SearchResult
	Profile    *entity.UserProfile
	History    []*entity.Message
}

type Assembler struct {
	historyWindow int
	now           func() time.Time
}

func NewAssembler(historyWindow int) *Assembler {
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &Assembler{historyWindow: historyWindow, now: time.Now}
}

// WithClock pins the time interpolated into the persona block.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Assemble orders messages as persona, context, history oldest first, then the query.
func (a *Assembler) Assemble(in Input) []llm.Message {
	messages := []llm.Message{{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf(personaPrompt, a.now().Format("2006-01-02 15:04:05")),
	}}

	if block := contextBlock(in); block != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: "Context Information:\n" + block})
	}

	history := in.History
	if len(history) > a.historyWindow {
		history = history[len(history)-a.historyWindow:]
	}
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	return append(messages, llm.Message{Role: llm.RoleUser, Content: in.Query})
}

func contextBlock(in Input) string {
	var b strings.Builder

	if !in.Profile.IsEmpty() {
		writeProfile(&b, in.Profile)
	}

	if len(in.Products) > 0 {
		b.WriteString("\n**Retrieved Product Knowledge:**\n")
		for _, p := range in.Products {
			fmt.Fprintf(&b, "- %s (%s): %s. Good for %s.\n",
				p.ProductName, p.Brand, strings.Join(p.CoreIngredients, ", "), strings.Join(p.SuitableSkinTypes, ", "))
		}
	}

	if len(in.WebResults) > 0 {
		b.WriteString("\n**Web Search Results:**\n")
		for _, r := range in.WebResults {
			fmt.Fprintf(&b, "- %s (%s): %s\n", r.Title, r.URL, r.Snippet)
		}
	}

	return b.String()
}

func writeProfile(b *strings.Builder, p *entity.UserProfile) {
	b.WriteString("**User Profile:**\n")
	fmt.Fprintf(b, "- Skin Type: %s\n", orDefault(p.SkinType, "Unknown"))
	fmt.Fprintf(b, "- Sensitivities: %s\n", joinOrNone(p.Sensitivities))
	fmt.Fprintf(b, "- Concerns: %s\n", joinOrNone(p.Concerns))
	fmt.Fprintf(b, "- Budget: %s\n", orDefault(p.BudgetRange, "Unknown"))
}

func orDefault(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}
