package otpchallenges

import (
	"context"
	"strings"
	"sync"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/server/models"
)

// MemoryRepository is an in-process implementation used in tests and
// single-node development. Unlike Redis it never self-expires; the service
// layer's expiry check makes that unobservable.
type MemoryRepository struct {
	mu         sync.Mutex
	challenges map[string]*models.OtpChallenge
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{challenges: make(map[string]*models.OtpChallenge)}
}

func (r *MemoryRepository) Put(ctx context.Context, challenge *models.OtpChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *challenge
	r.challenges[strings.ToLower(challenge.Email)] = &c
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, email string) (*models.OtpChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.challenges, strings.ToLower(email))
	return nil
}
