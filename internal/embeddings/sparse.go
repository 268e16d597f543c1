package embeddings

// SparseEntry is a single (index, value) pair of a sparse embedding.
type SparseEntry struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// SparseStub returns the placeholder sparse embedding served for every
// input: a single zero entry. Clients only check that the endpoint responds
// with validly shaped JSON, so the content is intentionally constant.
func SparseStub() []SparseEntry {
	return []SparseEntry{{Index: 0, Value: 0.0}}
}
