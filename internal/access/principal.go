package access

// Kind tells the two principal tables apart.
type Kind string

const (
	KindAdmin  Kind = "admin"
	KindMember Kind = "member"
)

func (k Kind) Valid() bool {
	return k == KindAdmin || k == KindMember
}

// Principal is the authenticated actor of a request. It is resolved once by
// the session middleware and never re-parsed from strings afterwards.
type Principal struct {
	Kind     Kind   `json:"kind"`
	ID       uint   `json:"id"`
	Username string `json:"username"`
	// Superadmin is only ever true for an AdminUser flagged is_superadmin.
	Superadmin bool `json:"is_superadmin"`
}

func Admin(id uint, username string, superadmin bool) Principal {
	return Principal{Kind: KindAdmin, ID: id, Username: username, Superadmin: superadmin}
}

func Member(id uint, username string) Principal {
	return Principal{Kind: KindMember, ID: id, Username: username}
}

func (p Principal) IsSuperadmin() bool {
	return p.Kind == KindAdmin && p.Superadmin
}

func (p Principal) IsMember() bool {
	return p.Kind == KindMember
}
