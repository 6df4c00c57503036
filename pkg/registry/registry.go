// Package registry picks the best renderer for a descriptor among a set of
// independently registered resolvers.
//
// Each resolver inspects a descriptor and either declines or proposes a
// renderer with a confidence between 0 and 100. Resolve returns the proposal
// with the strictly highest confidence; on a tie the earliest registered
// resolver keeps the match.
package registry

const (
	MinConfidence = 0
	MaxConfidence = 100
)

// Resolver proposes a renderer for d. ok is false when it cannot handle d.
type Resolver[D, R any] func(d D) (renderer R, confidence int, ok bool)

// Match is the winning proposal of a Resolve call.
type Match[R any] struct {
	Resolver   string
	Renderer   R
	Confidence int
}

type entry[D, R any] struct {
	name    string
	resolve Resolver[D, R]
}

// Registry is an ordered list of named resolvers. It is built once at startup
// and is not safe for concurrent Register calls.
type Registry[D, R any] struct {
	entries []entry[D, R]
}

func New[D, R any]() *Registry[D, R] {
	return &Registry[D, R]{}
}

// Register appends a resolver. Registration order only matters for ties.
func (r *Registry[D, R]) Register(name string, fn Resolver[D, R]) {
	r.entries = append(r.entries, entry[D, R]{name: name, resolve: fn})
}

// Len returns the number of registered resolvers.
func (r *Registry[D, R]) Len() int {
	return len(r.entries)
}

// Names returns the resolver names in registration order.
func (r *Registry[D, R]) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Match runs every resolver against d and returns the best proposal.
// A later proposal replaces the current one only with a strictly greater
// confidence.
func (r *Registry[D, R]) Match(d D) (Match[R], bool) {
	var best Match[R]
	found := false
	for _, e := range r.entries {
		renderer, confidence, ok := e.resolve(d)
		if !ok {
			continue
		}
		confidence = clamp(confidence)
		if !found || confidence > best.Confidence {
			best = Match[R]{Resolver: e.name, Renderer: renderer, Confidence: confidence}
			found = true
		}
	}
	return best, found
}

// Resolve returns the renderer of the best proposal. ok is false when no
// resolver matched; callers must fall back on their own.
func (r *Registry[D, R]) Resolve(d D) (R, bool) {
	m, ok := r.Match(d)
	return m.Renderer, ok
}

func clamp(confidence int) int {
	if confidence < MinConfidence {
		return MinConfidence
	}
	if confidence > MaxConfidence {
		return MaxConfidence
	}
	return confidence
}
