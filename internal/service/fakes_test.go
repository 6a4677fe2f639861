package service

import (
	"database/sql"
	"sync"
	"time"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// fakeTripStore - память вместо PostgreSQL с тем же контрактом условных
// обновлений: предикат и мутация атомарны под мьютексом, промах - ноль строк.
type fakeTripStore struct {
	mu    sync.Mutex
	seq   int
	trips map[int]*model.TripRequest
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: make(map[int]*model.TripRequest)}
}

func (f *fakeTripStore) Create(ownerID int, title string, payload types.JSONText) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.trips[f.seq] = &model.TripRequest{
		ID:            f.seq,
		OwnerID:       ownerID,
		Title:         title,
		ReviewStatus:  model.ReviewPending,
		BookingStatus: model.BookingNone,
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
	return f.seq, nil
}

func (f *fakeTripStore) GetByID(id int) (*model.TripRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *trip
	return &copy, nil
}

func (f *fakeTripStore) Approve(id, reviewerID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	if !ok || trip.ReviewStatus != model.ReviewPending {
		return 0, nil
	}
	now := time.Now()
	trip.ReviewStatus = model.ReviewApproved
	trip.IsPublic = true
	trip.ReviewerID = &reviewerID
	trip.ReviewedAt = &now
	trip.RejectReason = nil
	return 1, nil
}

func (f *fakeTripStore) Reject(id, reviewerID int, reason string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	if !ok || trip.ReviewStatus != model.ReviewPending {
		return 0, nil
	}
	now := time.Now()
	trip.ReviewStatus = model.ReviewRejected
	trip.IsPublic = false
	trip.ReviewerID = &reviewerID
	trip.ReviewedAt = &now
	trip.RejectReason = &reason
	return 1, nil
}

func (f *fakeTripStore) Resubmit(id, ownerID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	if !ok || trip.OwnerID != ownerID || trip.ReviewStatus != model.ReviewRejected {
		return 0, nil
	}
	trip.ReviewStatus = model.ReviewPending
	trip.IsPublic = false
	trip.ReviewerID = nil
	trip.ReviewedAt = nil
	trip.RejectReason = nil
	return 1, nil
}

func (f *fakeTripStore) RequestSupport(id, ownerID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	if !ok || trip.OwnerID != ownerID || trip.BookingStatus != model.BookingNone {
		return 0, nil
	}
	trip.BookingStatus = model.BookingPending
	return 1, nil
}

func (f *fakeTripStore) Claim(id, agentID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	if !ok || trip.BookingStatus != model.BookingPending || trip.SupporterID != nil {
		return 0, nil
	}
	trip.SupporterID = &agentID
	trip.BookingStatus = model.BookingAssigned
	return 1, nil
}

func (f *fakeTripStore) Complete(id, agentID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	if !ok || trip.BookingStatus != model.BookingAssigned ||
		trip.SupporterID == nil || *trip.SupporterID != agentID {
		return 0, nil
	}
	trip.BookingStatus = model.BookingDone
	return 1, nil
}

func (f *fakeTripStore) ListPublic() ([]model.TripRequest, error) {
	return f.list(func(t *model.TripRequest) bool { return t.IsPublic })
}

func (f *fakeTripStore) ListByOwner(ownerID int) ([]model.TripRequest, error) {
	return f.list(func(t *model.TripRequest) bool { return t.OwnerID == ownerID })
}

func (f *fakeTripStore) ListPendingReview() ([]model.TripRequest, error) {
	return f.list(func(t *model.TripRequest) bool { return t.ReviewStatus == model.ReviewPending })
}

func (f *fakeTripStore) ListClaimable() ([]model.TripRequest, error) {
	return f.list(func(t *model.TripRequest) bool {
		return t.BookingStatus == model.BookingPending && t.SupporterID == nil
	})
}

func (f *fakeTripStore) list(keep func(*model.TripRequest) bool) ([]model.TripRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trips := []model.TripRequest{}
	for id := 1; id <= f.seq; id++ {
		if trip, ok := f.trips[id]; ok && keep(trip) {
			trips = append(trips, *trip)
		}
	}
	return trips, nil
}

// fakeConversationStore воспроизводит контракт уникального индекса по
// traveler_id: повторный Insert возвращает repository.ErrDuplicateTraveler.
type fakeConversationStore struct {
	mu         sync.Mutex
	byID       map[string]*model.Conversation
	byTraveler map[int]string
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		byID:       make(map[string]*model.Conversation),
		byTraveler: make(map[int]string),
	}
}

func (f *fakeConversationStore) GetByID(id string) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *conv
	return &copy, nil
}

func (f *fakeConversationStore) GetByTraveler(travelerID int) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byTraveler[travelerID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *f.byID[id]
	return &copy, nil
}

func (f *fakeConversationStore) Insert(travelerID int) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byTraveler[travelerID]; exists {
		return nil, repository.ErrDuplicateTraveler
	}
	conv := &model.Conversation{
		ID:         uuid.NewString(),
		TravelerID: travelerID,
		Status:     model.ConversationPending,
		CreatedAt:  time.Now(),
	}
	f.byID[conv.ID] = conv
	f.byTraveler[travelerID] = conv.ID
	copy := *conv
	return &copy, nil
}

func (f *fakeConversationStore) AssignAgent(id string, agentID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.byID[id]
	if !ok || conv.Status != model.ConversationPending {
		return 0, nil
	}
	conv.SupportAgentID = &agentID
	conv.Status = model.ConversationActive
	return 1, nil
}

func (f *fakeConversationStore) Resolve(id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.byID[id]
	if !ok {
		return 0, nil
	}
	conv.Status = model.ConversationResolved
	return 1, nil
}

func (f *fakeConversationStore) Reopen(id string, agentID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.byID[id]
	if !ok || conv.Status != model.ConversationResolved {
		return 0, nil
	}
	conv.SupportAgentID = &agentID
	conv.Status = model.ConversationActive
	return 1, nil
}

func (f *fakeConversationStore) ResetUnread(id, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	if role == model.SenderSupport {
		conv.UnreadAgent = 0
	} else {
		conv.UnreadTraveler = 0
	}
	return nil
}

func (f *fakeConversationStore) ListAll() ([]model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	convs := []model.Conversation{}
	for _, conv := range f.byID {
		convs = append(convs, *conv)
	}
	return convs, nil
}

// fakeReviewStore - хранилище отзывов в памяти.
type fakeReviewStore struct {
	mu      sync.Mutex
	seq     int
	reviews map[int]*model.Review
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: make(map[int]*model.Review)}
}

func (f *fakeReviewStore) Create(review *model.Review) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	stored := *review
	stored.ID = f.seq
	stored.Visibility = model.ReviewVisible
	stored.CreatedAt = time.Now()
	f.reviews[f.seq] = &stored
	return f.seq, nil
}

func (f *fakeReviewStore) GetByID(id int) (*model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	review, ok := f.reviews[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *review
	return &copy, nil
}

func (f *fakeReviewStore) SetVisibility(id int, visibility string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	review, ok := f.reviews[id]
	if !ok {
		return 0, nil
	}
	review.Visibility = visibility
	return 1, nil
}

func (f *fakeReviewStore) VisibleRatings(targetType string, targetID int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ratings := []int{}
	for id := 1; id <= f.seq; id++ {
		review, ok := f.reviews[id]
		if ok && review.TargetType == targetType && review.TargetID == targetID &&
			review.Visibility == model.ReviewVisible {
			ratings = append(ratings, review.Rating)
		}
	}
	return ratings, nil
}

func (f *fakeReviewStore) ListByTarget(targetType string, targetID int) ([]model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reviews := []model.Review{}
	for id := 1; id <= f.seq; id++ {
		review, ok := f.reviews[id]
		if ok && review.TargetType == targetType && review.TargetID == targetID &&
			review.Visibility == model.ReviewVisible {
			reviews = append(reviews, *review)
		}
	}
	return reviews, nil
}

// fakeRatingTarget запоминает последний записанный агрегат.
type fakeRatingTarget struct {
	mu    sync.Mutex
	count map[int]int
	avg   map[int]float64
}

func newFakeRatingTarget() *fakeRatingTarget {
	return &fakeRatingTarget{count: make(map[int]int), avg: make(map[int]float64)}
}

func (f *fakeRatingTarget) UpdateRating(id, count int, avg float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count[id] = count
	f.avg[id] = avg
	return nil
}
