package authctx

// Роли участников системы. Выдача и проверка учетных данных выполняются
// внешним компонентом авторизации; ядро получает уже аутентифицированную пару
// (UserID, Role) и само ничего не проверяет.
const (
	RoleTraveler = "traveler"
	RoleSupport  = "support"
	RoleAdmin    = "admin"
)

// Actor - явный контекст действующего лица, передаваемый в каждый вызов ядра.
// Заменяет глобальное состояние сессии: никакого процессного синглтона.
type Actor struct {
	UserID int
	Role   string
}

// IsAdmin сообщает, является ли участник администратором.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsSupport сообщает, является ли участник агентом поддержки.
func (a Actor) IsSupport() bool { return a.Role == RoleSupport }

// IsTraveler сообщает, является ли участник путешественником.
func (a Actor) IsTraveler() bool { return a.Role == RoleTraveler }
