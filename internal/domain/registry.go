package domain

// LateRegistry maps module names to the repositories found late for them.
// Entries keep configuration order; repositories keep arrival order.
// Modules sharing a name share one entry.
type LateRegistry struct {
	order   []string
	entries map[string]*ModuleResult
}

// NewLateRegistry creates a registry with an empty entry for every module.
func NewLateRegistry(modules []Module) *LateRegistry {
	r := &LateRegistry{entries: make(map[string]*ModuleResult, len(modules))}
	for _, m := range modules {
		if _, ok := r.entries[m.Name]; ok {
			continue
		}
		r.order = append(r.order, m.Name)
		r.entries[m.Name] = &ModuleResult{Module: m, Late: []LateRepository{}}
	}
	return r
}

// Add records repo as late for module m.
func (r *LateRegistry) Add(m Module, repo Repository) {
	entry, ok := r.entries[m.Name]
	if !ok {
		entry = &ModuleResult{Module: m, Late: []LateRepository{}}
		r.order = append(r.order, m.Name)
		r.entries[m.Name] = entry
	}
	entry.Late = append(entry.Late, LateRepository{
		Name:           repo.Name,
		CreatedAt:      repo.CreatedAt,
		UpdatedAt:      repo.UpdatedAt,
		OverdueSeconds: repo.UpdatedAt.Sub(m.End).Seconds(),
	})
}

// Get returns the entry for the named module.
func (r *LateRegistry) Get(name string) (*ModuleResult, bool) {
	entry, ok := r.entries[name]
	return entry, ok
}

// Results returns the entries in configuration order.
func (r *LateRegistry) Results() []*ModuleResult {
	results := make([]*ModuleResult, 0, len(r.order))
	for _, name := range r.order {
		results = append(results, r.entries[name])
	}
	return results
}
