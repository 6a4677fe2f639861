package service

import (
	"sync"
	"testing"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"
)

func TestGetOrCreateLazyAndIdempotent(t *testing.T) {
	svc := NewConversationService(newFakeConversationStore())

	conv, err := svc.GetOrCreate(traveler.UserID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if conv.Status != model.ConversationPending {
		t.Errorf("status = %q, ожидалось %q", conv.Status, model.ConversationPending)
	}
	if conv.SupportAgentID != nil {
		t.Error("новый диалог не должен иметь агента")
	}

	again, err := svc.GetOrCreate(traveler.UserID)
	if err != nil {
		t.Fatalf("повторный GetOrCreate: %v", err)
	}
	if again.ID != conv.ID {
		t.Errorf("повторный вызов вернул другой диалог: %s != %s", again.ID, conv.ID)
	}
}

func TestGetOrCreateConcurrentSingleConversation(t *testing.T) {
	svc := NewConversationService(newFakeConversationStore())

	const callers = 16
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conv, err := svc.GetOrCreate(traveler.UserID)
			if err != nil {
				t.Errorf("GetOrCreate: %v", err)
				return
			}
			ids[i] = conv.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("одновременные вызовы создали разные диалоги: %s != %s", ids[i], ids[0])
		}
	}
}

func TestAssignAgentFlipsActive(t *testing.T) {
	svc := NewConversationService(newFakeConversationStore())
	conv, _ := svc.GetOrCreate(traveler.UserID)

	if err := svc.AssignAgent(agentX, conv.ID); err != nil {
		t.Fatalf("AssignAgent: %v", err)
	}
	got, _ := svc.GetOrCreate(traveler.UserID)
	if got.Status != model.ConversationActive {
		t.Errorf("status = %q, ожидалось %q", got.Status, model.ConversationActive)
	}
	if got.SupportAgentID == nil || *got.SupportAgentID != agentX.UserID {
		t.Errorf("support_agent_id = %v, ожидалось %d", got.SupportAgentID, agentX.UserID)
	}

	// повторное назначение тем же агентом - идемпотентный no-op
	if err := svc.AssignAgent(agentX, conv.ID); err != nil {
		t.Errorf("идемпотентный AssignAgent: %v", err)
	}
	// другой агент получает Conflict
	if err := svc.AssignAgent(agentY, conv.ID); !apperr.IsConflict(err) {
		t.Errorf("AssignAgent вторым агентом: ожидался Conflict, получено %v", err)
	}
}

func TestResolveAndReopen(t *testing.T) {
	svc := NewConversationService(newFakeConversationStore())
	conv, _ := svc.GetOrCreate(traveler.UserID)
	if err := svc.AssignAgent(agentX, conv.ID); err != nil {
		t.Fatalf("AssignAgent: %v", err)
	}
	if err := svc.Resolve(agentX, conv.ID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// назначение в закрытый диалог - Conflict; возобновление - явный переход
	if err := svc.AssignAgent(agentY, conv.ID); !apperr.IsConflict(err) {
		t.Errorf("AssignAgent в resolved: ожидался Conflict, получено %v", err)
	}
	if err := svc.Reopen(agentY, conv.ID); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	got, _ := svc.GetOrCreate(traveler.UserID)
	if got.Status != model.ConversationActive {
		t.Errorf("status = %q после Reopen, ожидалось %q", got.Status, model.ConversationActive)
	}
	if got.SupportAgentID == nil || *got.SupportAgentID != agentY.UserID {
		t.Errorf("support_agent_id = %v после Reopen, ожидалось %d", got.SupportAgentID, agentY.UserID)
	}

	// возобновить можно только закрытый диалог
	if err := svc.Reopen(agentX, conv.ID); !apperr.IsConflict(err) {
		t.Errorf("Reopen активного диалога: ожидался Conflict, получено %v", err)
	}
}

func TestConversationRoleChecks(t *testing.T) {
	svc := NewConversationService(newFakeConversationStore())
	conv, _ := svc.GetOrCreate(traveler.UserID)

	if err := svc.AssignAgent(traveler, conv.ID); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("AssignAgent путешественником: ожидался Unauthorized, получено %v", err)
	}
	if err := svc.Resolve(traveler, conv.ID); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("Resolve путешественником: ожидался Unauthorized, получено %v", err)
	}
	if _, err := svc.ListAll(traveler); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("ListAll путешественником: ожидался Unauthorized, получено %v", err)
	}
}

func TestAssignUnknownConversationNotFound(t *testing.T) {
	svc := NewConversationService(newFakeConversationStore())
	if err := svc.AssignAgent(agentX, "нет-такого"); !apperr.IsNotFound(err) {
		t.Errorf("ожидался NotFound, получено %v", err)
	}
}
