package catalog

// Entry maps a site product id to its Printful sync product.
type Entry struct {
	ProductID     string
	SyncProductID int64
	Name          string
}

// Repository is a read-only product catalog lookup. The validator only ever
// asks "which Printful product backs this product id"; how the table is
// sourced is not its concern.
type Repository interface {
	Lookup(productID string) (Entry, bool)
}

// StaticRepository serves the catalog from an in-memory table.
type StaticRepository struct {
	entries map[string]Entry
}

// NewStaticRepository builds a repository over the given entries.
func NewStaticRepository(entries []Entry) *StaticRepository {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.ProductID] = e
	}
	return &StaticRepository{entries: m}
}

func (r *StaticRepository) Lookup(productID string) (Entry, bool) {
	e, ok := r.entries[productID]
	return e, ok
}

// DefaultEntries is the merch table for the site. Sync product ids come from
// the Printful store dashboard.
func DefaultEntries() []Entry {
	return []Entry{
		{ProductID: "flower-of-life-tee", SyncProductID: 384061422, Name: "Flower of Life Tee"},
		{ProductID: "metatrons-cube-tee", SyncProductID: 384061587, Name: "Metatron's Cube Tee"},
		{ProductID: "seed-of-life-mug", SyncProductID: 384062105, Name: "Seed of Life Mug"},
		{ProductID: "sri-yantra-print", SyncProductID: 384062349, Name: "Sri Yantra Art Print"},
		{ProductID: "vesica-piscis-tote", SyncProductID: 384062771, Name: "Vesica Piscis Tote"},
		{ProductID: "torus-hoodie", SyncProductID: 384063018, Name: "Torus Hoodie"},
	}
}
