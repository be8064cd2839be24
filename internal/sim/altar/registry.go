package altar

import "fmt"

// Registry holds recipes in load order. Matching walks them in that order.
type Registry struct {
	recipes   []*Recipe
	byID      map[string]*Recipe
	catalysts *CatalystIndex
}

func NewRegistry(recipes []*Recipe) (*Registry, error) {
	r := &Registry{
		recipes: make([]*Recipe, 0, len(recipes)),
		byID:    make(map[string]*Recipe, len(recipes)),
	}
	for _, rec := range recipes {
		if rec == nil {
			continue
		}
		if rec.ID == "" {
			return nil, fmt.Errorf("recipe with empty id")
		}
		if _, dup := r.byID[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate recipe id %q", rec.ID)
		}
		for i, in := range rec.Inputs {
			if in.Count <= 0 {
				return nil, fmt.Errorf("recipe %q: input %d: count must be positive", rec.ID, i)
			}
		}
		for i, s := range rec.Sacrifices.Entries {
			if s.Count <= 0 {
				return nil, fmt.Errorf("recipe %q: sacrifice %d: count must be positive", rec.ID, i)
			}
		}
		r.recipes = append(r.recipes, rec)
		r.byID[rec.ID] = rec
	}
	r.catalysts = NewCatalystIndex(r.recipes)
	return r, nil
}

func (r *Registry) Recipes() []*Recipe {
	if r == nil {
		return nil
	}
	return r.recipes
}

func (r *Registry) Get(id string) (*Recipe, bool) {
	if r == nil {
		return nil, false
	}
	rec, ok := r.byID[id]
	return rec, ok
}

func (r *Registry) Catalysts() *CatalystIndex {
	if r == nil {
		return nil
	}
	return r.catalysts
}

// CatalystIndex answers "can this item start any ritual" without scanning recipes.
type CatalystIndex struct {
	items map[string]struct{}
}

func NewCatalystIndex(recipes []*Recipe) *CatalystIndex {
	idx := &CatalystIndex{items: map[string]struct{}{}}
	for _, r := range recipes {
		for it := range r.Catalyst.items {
			idx.items[it] = struct{}{}
		}
	}
	return idx
}

func (c *CatalystIndex) IsCatalyst(item string) bool {
	if c == nil {
		return false
	}
	_, ok := c.items[item]
	return ok
}

func (c *CatalystIndex) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}
