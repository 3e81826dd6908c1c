package models

// User is an account reference. Whisper authorship references users but never
// owns them; anonymous whispers carry no user at all.
type User struct {
	ID       int    `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"`
}
