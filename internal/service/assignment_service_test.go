package service

import (
	"sync"
	"testing"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/authctx"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"
)

func newClaimableTrip(t *testing.T) (*TripService, *AssignmentService, int) {
	t.Helper()
	store := newFakeTripStore()
	trips := NewTripService(store)
	assignments := NewAssignmentService(store)
	id, err := trips.CreateTrip(traveler, "Huế - Hội An", nil)
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if err := trips.Approve(admin, id); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := trips.RequestSupport(traveler, id); err != nil {
		t.Fatalf("RequestSupport: %v", err)
	}
	return trips, assignments, id
}

func TestClaimExclusivity(t *testing.T) {
	trips, assignments, id := newClaimableTrip(t)

	const agents = 32
	var wg sync.WaitGroup
	errs := make([]error, agents)
	for i := 0; i < agents; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			act := authctx.Actor{UserID: 100 + i, Role: authctx.RoleSupport}
			errs[i] = assignments.Claim(act, id)
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case apperr.IsConflict(err):
		default:
			t.Errorf("агент %d: ожидался успех или Conflict, получено %v", 100+i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("успешных Claim = %d, ожидался ровно один", wins)
	}
	trip, _ := trips.GetTrip(id)
	if trip.BookingStatus != model.BookingAssigned {
		t.Errorf("booking_status = %q, ожидалось %q", trip.BookingStatus, model.BookingAssigned)
	}
	if trip.SupporterID == nil {
		t.Error("supporter_id пуст после успешного Claim")
	}
}

func TestClaimRaceLoserCannotComplete(t *testing.T) {
	trips, assignments, id := newClaimableTrip(t)

	errX := assignments.Claim(agentX, id)
	errY := assignments.Claim(agentY, id)
	if (errX == nil) == (errY == nil) {
		t.Fatalf("ожидался ровно один успех: X=%v Y=%v", errX, errY)
	}
	winner, loser := agentX, agentY
	if errX != nil {
		if !apperr.IsConflict(errX) {
			t.Fatalf("проигравший X: ожидался Conflict, получено %v", errX)
		}
		winner, loser = agentY, agentX
	}

	trip, _ := trips.GetTrip(id)
	if trip.SupporterID == nil || *trip.SupporterID != winner.UserID {
		t.Errorf("supporter_id = %v, ожидалось %d", trip.SupporterID, winner.UserID)
	}

	// проигравший не может завершить чужую заявку
	if err := assignments.Complete(loser, id); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("Complete проигравшим: ожидался Unauthorized, получено %v", err)
	}
	if err := assignments.Complete(winner, id); err != nil {
		t.Fatalf("Complete победителем: %v", err)
	}
	trip, _ = trips.GetTrip(id)
	if trip.BookingStatus != model.BookingDone {
		t.Errorf("booking_status = %q, ожидалось %q", trip.BookingStatus, model.BookingDone)
	}
}

func TestClaimRequiresSupportRole(t *testing.T) {
	_, assignments, id := newClaimableTrip(t)
	if err := assignments.Claim(traveler, id); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("Claim путешественником: ожидался Unauthorized, получено %v", err)
	}
}

func TestClaimNotEligibleTrip(t *testing.T) {
	store := newFakeTripStore()
	trips := NewTripService(store)
	assignments := NewAssignmentService(store)
	id, _ := trips.CreateTrip(traveler, "Sapa", nil)

	// сопровождение не запрошено - booking_status все еще none
	if err := assignments.Claim(agentX, id); !apperr.IsConflict(err) {
		t.Errorf("Claim без запроса сопровождения: ожидался Conflict, получено %v", err)
	}
	if err := assignments.Claim(agentX, 404); !apperr.IsNotFound(err) {
		t.Errorf("Claim несуществующей заявки: ожидался NotFound, получено %v", err)
	}
}

func TestCompleteTwiceConflict(t *testing.T) {
	_, assignments, id := newClaimableTrip(t)
	if err := assignments.Claim(agentX, id); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if err := assignments.Complete(agentX, id); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	// done - терминальное состояние
	if err := assignments.Complete(agentX, id); !apperr.IsConflict(err) {
		t.Errorf("повторный Complete: ожидался Conflict, получено %v", err)
	}
}
