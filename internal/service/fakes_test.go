package service

import (
	"context"
	"sort"
	"sync"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/repository/contract"
	"skintech-consultant-be/internal/repository/specification"
	"skintech-consultant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// memoryDB backs every fake repository; transactions are not isolated.
type memoryDB struct {
	mu            sync.Mutex
	users         []*entity.User
	profiles      map[uuid.UUID]*entity.UserProfile
	conversations []*entity.Conversation
	messages      []*entity.Message
	saves         int
	commits       int
}

func newMemoryDB() *memoryDB {
	return &memoryDB{profiles: map[uuid.UUID]*entity.UserProfile{}}
}

func (db *memoryDB) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &memoryUow{db: db}
}

type memoryUow struct{ db *memoryDB }

func (u *memoryUow) Begin(context.Context) error { return nil }
func (u *memoryUow) Commit() error {
	u.db.mu.Lock()
	u.db.commits++
	u.db.mu.Unlock()
	return nil
}
func (u *memoryUow) Rollback() error { return nil }

func (u *memoryUow) UserRepository() contract.UserRepository               { return memoryUsers{u.db} }
func (u *memoryUow) UserProfileRepository() contract.UserProfileRepository { return memoryProfiles{u.db} }
func (u *memoryUow) ConversationRepository() contract.ConversationRepository {
	return memoryConversationRepo{u.db}
}
func (u *memoryUow) MessageRepository() contract.MessageRepository { return memoryMessages{u.db} }
func (u *memoryUow) ProductEmbeddingRepository() contract.ProductEmbeddingRepository {
	return nil
}

type memoryUsers struct{ db *memoryDB }

func (r memoryUsers) Create(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == user.Username {
			return contract.ErrUsernameExists
		}
	}
	r.db.users = append(r.db.users, user)
	return nil
}

func (r memoryUsers) match(specs []specification.Specification) []*entity.User {
	var out []*entity.User
	for _, u := range r.db.users {
		ok := true
		for _, s := range specs {
			if by, isName := s.(specification.ByUsername); isName && by.Username != u.Username {
				ok = false
			}
		}
		if ok {
			out = append(out, u)
		}
	}
	return out
}

func (r memoryUsers) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	found := r.match(specs)
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

type memoryProfiles struct{ db *memoryDB }

func (r memoryProfiles) FindByUserId(_ context.Context, userId uuid.UUID) (*entity.UserProfile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[userId]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memoryProfiles) EnsureExists(_ context.Context, userId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.profiles[userId]; !ok {
		r.db.profiles[userId] = &entity.UserProfile{UserId: userId}
	}
	return nil
}

func (r memoryProfiles) FindByUserIdForUpdate(ctx context.Context, userId uuid.UUID) (*entity.UserProfile, error) {
	return r.FindByUserId(ctx, userId)
}

func (r memoryProfiles) Save(_ context.Context, profile *entity.UserProfile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *profile
	r.db.profiles[profile.UserId] = &cp
	r.db.saves++
	return nil
}

type memoryConversationRepo struct{ db *memoryDB }

func (r memoryConversationRepo) Create(_ context.Context, c *entity.Conversation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.conversations = append(r.db.conversations, c)
	return nil
}

func (r memoryConversationRepo) match(specs []specification.Specification) []*entity.Conversation {
	var out []*entity.Conversation
	for _, c := range r.db.conversations {
		ok := true
		for _, s := range specs {
			switch spec := s.(type) {
			case specification.OwnedConversation:
				ok = ok && c.Id == spec.ID && c.UserId == spec.UserID
			case specification.UserOwnedBy:
				ok = ok && c.UserId == spec.UserID
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

func (r memoryConversationRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	found := r.match(specs)
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r memoryConversationRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	found := r.match(specs)
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.After(found[j].CreatedAt) })
	for _, s := range specs {
		if page, ok := s.(specification.Pagination); ok && page.Limit > 0 {
			found = found[min(page.Offset, len(found)):]
			found = found[:min(page.Limit, len(found))]
		}
	}
	return found, nil
}

type memoryMessages struct{ db *memoryDB }

func (r memoryMessages) CreateBulk(_ context.Context, messages []*entity.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.messages = append(r.db.messages, messages...)
	return nil
}

func (r memoryMessages) FindRecent(_ context.Context, conversationId uuid.UUID, limit int) ([]*entity.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.db.messages {
		if m.ConversationId == conversationId {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
