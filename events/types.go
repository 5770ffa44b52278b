package events

type AuthAction string

const (
	AuthLogin  AuthAction = "login"
	AuthLogout AuthAction = "logout"
)

type AuthChanged struct {
	UserID int
	Action AuthAction
}

type CartChanged struct {
	Owner      int
	TotalLines int
	TotalPrice int64
	Cleared    bool
}

// Bus groups the feeds shared by the HTTP layer and the stores.
type Bus struct {
	Auth *Feed[AuthChanged]
	Cart *Feed[CartChanged]
}

func NewBus() *Bus {
	return &Bus{
		Auth: NewFeed[AuthChanged](),
		Cart: NewFeed[CartChanged](),
	}
}
