package domain

// FamilyMembership joins a user to a family. One user may belong to
// multiple families; the RTBF scope is always the full membership set.
type FamilyMembership struct {
	FamilyID   string `json:"family_id"`
	FamilyName string `json:"family_name"`
	Role       string `json:"role"`
}

// FamilyIDs extracts the id set used to scope every count and delete.
func FamilyIDs(memberships []FamilyMembership) []string {
	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.FamilyID)
	}
	return ids
}

// FamilyNames extracts the display names for the impact report.
func FamilyNames(memberships []FamilyMembership) []string {
	names := make([]string, 0, len(memberships))
	for _, m := range memberships {
		names = append(names, m.FamilyName)
	}
	return names
}
