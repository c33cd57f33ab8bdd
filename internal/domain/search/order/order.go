package order

// Order is the presentation order of a result set.
type Order string

// Order constants.
const (
	// Newest sorts by descending creation time (default).
	Newest Order = "newest"
	Oldest Order = "oldest"
	// Relevance sorts by ascending match score; only meaningful with free text.
	Relevance Order = "relevance"
	// Name sorts by display name, case-insensitively.
	Name Order = "name"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Newest || o == Oldest || o == Relevance || o == Name
}
