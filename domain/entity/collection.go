package entity

// Collection is one distributable token collection with its operator-set
// fixed quantity per claim. The quantity is configuration, never
// user-supplied.
type Collection struct {
	Label       string `json:"label"`
	Address     string `json:"address"`
	FixedAmount int    `json:"fixed_amount"`
}

// FindCollection resolves a collection by label or address.
func FindCollection(collections []Collection, key string) (Collection, bool) {
	for _, c := range collections {
		if c.Label == key || c.Address == key {
			return c, true
		}
	}
	return Collection{}, false
}
