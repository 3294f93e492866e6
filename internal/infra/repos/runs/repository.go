package runs

import "github.com/mmrzaf/seeder/internal/domain"

// Repository is the run journal: one row per seed, drop or run invocation.
type Repository interface {
	Init() error
	Create(run *domain.Run) error
	Update(run *domain.Run) error
	Get(id string) (*domain.Run, error)
	List(limit int, status string) ([]*domain.Run, error)
	Close() error
}
