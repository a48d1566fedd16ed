package memory

import (
	"sync"

	"github.com/Keshavsspppp/municipality/internal/domain/entity"
	"github.com/Keshavsspppp/municipality/internal/domain/repository"
)

type commentStore struct {
	mu            sync.Mutex
	comments      []string
	groups        []entity.Group
	added         uint64
	groupsVersion uint64
	epoch         uint64
}

// NewCommentStore creates an in-memory comment store
func NewCommentStore() repository.CommentStore {
	return &commentStore{groups: []entity.Group{}}
}

func (s *commentStore) Add(comment string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments = append(s.comments, comment)
	s.added++
}

func (s *commentStore) Snapshot() repository.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := make([]string, len(s.comments))
	copy(comments, s.comments)
	return repository.Snapshot{
		Comments: comments,
		Version:  s.added,
		Epoch:    s.epoch,
	}
}

func (s *commentStore) SaveGroups(snap repository.Snapshot, groups []entity.Group) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Epoch != s.epoch || snap.Version < s.groupsVersion {
		return false
	}
	s.groups = groups
	s.groupsVersion = snap.Version
	return true
}

func (s *commentStore) Groups() ([]entity.Group, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make([]entity.Group, len(s.groups))
	copy(groups, s.groups)
	return groups, len(s.comments)
}

func (s *commentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments = nil
	s.groups = []entity.Group{}
	s.added = 0
	s.groupsVersion = 0
	s.epoch++
}
