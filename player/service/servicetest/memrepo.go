// player/service/servicetest/memrepo.go

// Package servicetest provides an in-memory PlayerRepository for tests.
package servicetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemRepo is an in-memory PlayerRepository keeping insertion order.
// CallCount reports how many repository calls were made.
type MemRepo struct {
	mu      sync.Mutex
	order   []primitive.ObjectID
	players map[primitive.ObjectID]*models.Player
	calls   int
}

// NewMemRepo returns an empty repository.
func NewMemRepo() *MemRepo {
	return &MemRepo{players: make(map[primitive.ObjectID]*models.Player)}
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, mongo.ErrNoDocuments)
}

func clonePlayer(p *models.Player) *models.Player {
	c := *p
	if p.Reviews != nil {
		c.Reviews = append([]models.Review{}, p.Reviews...)
	}
	if p.Attributes != nil {
		c.Attributes = bson.M{}
		for k, v := range p.Attributes {
			c.Attributes[k] = v
		}
	}
	return &c
}

func (m *MemRepo) ListPlayers(ctx context.Context, skip, limit int64) ([]*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := []*models.Player{}
	for i := skip; i < int64(len(m.order)) && int64(len(out)) < limit; i++ {
		out = append(out, clonePlayer(m.players[m.order[i]]))
	}
	return out, nil
}

func (m *MemRepo) GetPlayer(ctx context.Context, id primitive.ObjectID) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.players[id]
	if !ok {
		return nil, notFound("player")
	}
	return clonePlayer(p), nil
}

func (m *MemRepo) InsertPlayer(ctx context.Context, player *models.Player) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p := clonePlayer(player)
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.players[p.ID] = p
	m.order = append(m.order, p.ID)
	return p.ID, nil
}

func (m *MemRepo) UpdatePlayerFields(ctx context.Context, id primitive.ObjectID, fields models.PlayerFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.players[id]
	if !ok {
		return notFound("player")
	}
	p.SetFields(fields)
	return nil
}

func (m *MemRepo) DeletePlayer(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.players[id]; !ok {
		return notFound("player")
	}
	delete(m.players, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemRepo) GetReviews(ctx context.Context, playerID primitive.ObjectID) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.players[playerID]
	if !ok {
		return nil, notFound("player")
	}
	return append([]models.Review(nil), p.Reviews...), nil
}

func (m *MemRepo) PushReview(ctx context.Context, playerID primitive.ObjectID, review models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.players[playerID]
	if !ok {
		return notFound("player")
	}
	p.Reviews = append(p.Reviews, review)
	return nil
}

func (m *MemRepo) FindReview(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, id := range m.order {
		for _, r := range m.players[id].Reviews {
			if r.ID == reviewID {
				r := r
				return &r, nil
			}
		}
	}
	return nil, notFound("review")
}

func (m *MemRepo) UpdateReview(ctx context.Context, reviewID primitive.ObjectID, username, comment, rating string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, id := range m.order {
		p := m.players[id]
		for i := range p.Reviews {
			if p.Reviews[i].ID == reviewID {
				p.Reviews[i].Username = models.Value(username)
				p.Reviews[i].Comment = models.Value(comment)
				p.Reviews[i].Rating = models.Value(rating)
				return nil
			}
		}
	}
	return notFound("review")
}

func (m *MemRepo) PullReview(ctx context.Context, playerID, reviewID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.players[playerID]
	if !ok {
		return nil
	}
	kept := p.Reviews[:0]
	for _, r := range p.Reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	p.Reviews = kept
	return nil
}

func (m *MemRepo) ScanPlayers(ctx context.Context, fn func(raw bson.Raw) error) error {
	m.mu.Lock()
	docs := make([]bson.Raw, 0, len(m.order))
	for _, id := range m.order {
		raw, err := bson.Marshal(m.players[id])
		if err != nil {
			m.mu.Unlock()
			return err
		}
		docs = append(docs, raw)
	}
	m.calls++
	m.mu.Unlock()

	for _, raw := range docs {
		if err := fn(raw); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemRepo) FilterPlayers(ctx context.Context, field string, values []interface{}, limit int64) ([]*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := []*models.Player{}
	for _, id := range m.order {
		if int64(len(out)) >= limit {
			break
		}
		p := m.players[id]
		got, ok := p.Attribute(field)
		if !ok {
			continue
		}
		for _, want := range values {
			if fmt.Sprint(got) == fmt.Sprint(want) {
				out = append(out, clonePlayer(p))
				break
			}
		}
	}
	return out, nil
}

// CallCount returns the number of repository calls so far.
func (m *MemRepo) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
