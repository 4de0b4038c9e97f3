package conversations

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/jurislens-poc/server/internal/agent/repo"
)

func TestBuildResponseContext(t *testing.T) {
	ctx := context.Background()
	mm := NewMessagesManager(repo.NewInMemoryConversationRepository())

	if err := mm.RecordUserMessage(ctx, "c1", "Check sanctions for Ivan Drago"); err != nil {
		t.Fatalf("RecordUserMessage: %v", err)
	}
	if err := mm.SaveResponse(ctx, "c1", "He is sanctioned."); err != nil {
		t.Fatalf("SaveResponse: %v", err)
	}
	if err := mm.RecordUserMessage(ctx, "c1", "What about John Smith?"); err != nil {
		t.Fatalf("RecordUserMessage: %v", err)
	}

	msgs, err := mm.BuildResponseContext(ctx, "c1", "system instructions")
	if err != nil {
		t.Fatalf("BuildResponseContext: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("context length = %d, want 4", len(msgs))
	}
	if msgs[0].Role != schema.System || msgs[0].Content != "system instructions" {
		t.Errorf("first message must be the system prompt, got %+v", msgs[0])
	}
	if msgs[3].Role != schema.User || msgs[3].Content != "What about John Smith?" {
		t.Errorf("last message must be the current user turn, got %+v", msgs[3])
	}
}

func TestClearConversation(t *testing.T) {
	ctx := context.Background()
	r := repo.NewInMemoryConversationRepository()
	mm := NewMessagesManager(r)

	_ = mm.RecordUserMessage(ctx, "c1", "hello")
	if err := mm.ClearConversation(ctx, "c1"); err != nil {
		t.Fatalf("ClearConversation: %v", err)
	}
	if n, _ := r.GetMessageCount(ctx, "c1"); n != 0 {
		t.Fatalf("count after clear = %d, want 0", n)
	}
}
