package domain

// RelationshipType names the kind of association between two tickets.
type RelationshipType string

const (
	RelationshipRelated    RelationshipType = "related"
	RelationshipBlocks     RelationshipType = "blocks"
	RelationshipBlockedBy  RelationshipType = "blocked_by"
	RelationshipDuplicates RelationshipType = "duplicates"
)

// RelationshipTypes lists every accepted relationship.
var RelationshipTypes = []RelationshipType{
	RelationshipRelated,
	RelationshipBlocks,
	RelationshipBlockedBy,
	RelationshipDuplicates,
}

// Valid reports whether r is a known relationship.
func (r RelationshipType) Valid() bool {
	for _, candidate := range RelationshipTypes {
		if r == candidate {
			return true
		}
	}
	return false
}

var reverseRelationships = map[RelationshipType]RelationshipType{
	RelationshipBlocks:    RelationshipBlockedBy,
	RelationshipBlockedBy: RelationshipBlocks,
}

// Reverse returns the type held by the other side of a link.
// Types without an explicit inverse are their own inverse.
func (r RelationshipType) Reverse() RelationshipType {
	if rev, ok := reverseRelationships[r]; ok {
		return rev
	}
	return r
}

// Link is one entry of a ticket's relatedTickets list.
type Link struct {
	ID   string           `json:"id"`
	Type RelationshipType `json:"type"`
}

// FindLink returns the index of the link pointing at targetID, or -1.
func FindLink(links []Link, targetID string) int {
	for i, link := range links {
		if link.ID == targetID {
			return i
		}
	}
	return -1
}

// WithoutLink returns a copy of links with every entry for targetID removed.
func WithoutLink(links []Link, targetID string) []Link {
	out := make([]Link, 0, len(links))
	for _, link := range links {
		if link.ID != targetID {
			out = append(out, link)
		}
	}
	return out
}
