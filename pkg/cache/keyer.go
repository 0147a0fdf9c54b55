package cache

// Keyer derives cache keys.
type Keyer interface {
	// DrawingKey identifies the routed drawing of a topology.
	DrawingKey(topologyHash string, opts DrawingKeyOpts) string

	// ArtifactKey identifies one rendered output format of a drawing.
	ArtifactKey(drawingHash string, opts ArtifactKeyOpts) string
}

// DrawingKeyOpts are the options that change a routed drawing.
type DrawingKeyOpts struct {
	CellSize             float64    `json:"cell_size"`
	Padding              float64    `json:"padding"`
	Costs                [7]float64 `json:"costs"`
	Order                string     `json:"order"`
	MaxCandidateDistance float64    `json:"max_candidate_distance"`
	DisplacementCost     float64    `json:"displacement_cost"`
	Grid                 bool       `json:"grid,omitempty"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Labels     bool    `json:"labels,omitempty"`
	Grid       bool    `json:"grid,omitempty"`
	CellPoints float64 `json:"cell_points,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DrawingKey returns "drawing:<hash>".
func (DefaultKeyer) DrawingKey(topologyHash string, opts DrawingKeyOpts) string {
	return hashKey("drawing", topologyHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(drawingHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", drawingHash, opts)
}

// ScopedKeyer prefixes every key of an inner keyer, for example to keep
// the entries of several API deployments apart in one redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DrawingKey returns the prefixed drawing key.
func (k *ScopedKeyer) DrawingKey(topologyHash string, opts DrawingKeyOpts) string {
	return k.prefix + k.inner.DrawingKey(topologyHash, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(drawingHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(drawingHash, opts)
}
