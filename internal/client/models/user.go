package models

import "github.com/dmitrijs2005/filekeeper/internal/common"

// User is the identity currently bound to the session.
type User struct {
	Username string
	// Password holds the argon2id hash, hex encoded, as replicated remotely.
	Password []byte
	TrustID  string
	// Online is the connectivity at bind time. The live flag is
	// session.Session.Online.
	Online bool

	Node *Node

	// Key is derived from Node.UUID and Username, see cryptox.DeriveUserKey.
	Key []byte
}

// Wipe zeroes the secret material held by u.
func (u *User) Wipe() {
	if u == nil {
		return
	}
	common.WipeByteArray(u.Key)
	common.WipeByteArray(u.Password)
	u.Key = nil
	u.Password = nil
}
