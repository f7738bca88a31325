package categories

import (
	"context"
	"errors"

	"autostyle/internal/catalog"
	"autostyle/internal/params"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicate     = errors.New("a category with that id or slug already exists")
	ErrInvalidParent = errors.New("parent category does not exist")
	ErrSelfParent    = errors.New("a category cannot be its own parent")
	ErrInUse         = errors.New("category still has products")
)

type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// Patch holds the fields of a partial update. Nil pointers are left alone;
// ParentID and Description can also be cleared with an explicit null.
type Patch struct {
	Name        *string
	Slug        *string
	Description params.Optional[string]
	ParentID    params.Optional[string]
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.Slug == nil && !p.Description.Set && !p.ParentID.Set
}

type Store interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	// Nodes returns the id/parent pairs used to resolve subtrees.
	Nodes(ctx context.Context) ([]catalog.Node, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error
}
