package cache

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	TreeKey(rowsHash string, opts TreeKeyOpts) string
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// TreeKeyOpts holds the options that change the hierarchy build.
type TreeKeyOpts struct {
	Schema [4]string `json:"schema"`
	Metric string    `json:"metric"`
	Strict bool      `json:"strict"`
}

// LayoutKeyOpts holds the options that change a layout.
type LayoutKeyOpts struct {
	VizType  string  `json:"viz_type"`
	Height   float64 `json:"height"`
	Width    float64 `json:"width"`
	Collapse int     `json:"collapse"`
	Expanded bool    `json:"expanded"`
	Settings string  `json:"settings"` // hash of the remaining renderer settings
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Title  string  `json:"title"`
	Scale  float64 `json:"scale"`
	Frames int     `json:"frames"`
	Colors string  `json:"colors"`
}

// DefaultKeyer hashes stage inputs and options into prefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unscoped keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey returns the key of a built hierarchy.
func (DefaultKeyer) TreeKey(rowsHash string, opts TreeKeyOpts) string {
	return hashKey("tree", rowsHash, opts)
}

// LayoutKey returns the key of a computed layout.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey returns the key of a rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
