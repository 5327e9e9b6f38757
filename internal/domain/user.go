package domain

var (
	ErrUniqueViolation = "23505"
)

// User is the author of an inbound event, as reported by the messaging platform.
type User struct {
	TelegramID int64
	Name       string
	Username   string
}

// Handle is what listings show after "@": the username when set, otherwise the
// first name.
func (u User) Handle() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Name
}
