package domain

import (
	"errors"
	"fmt"
)

// Классификация ошибок сервисного слоя. Транспорт опирается только на эти
// три вида: бизнес-нарушения (ErrBadRequest, ErrNotFound) отображаются в
// клиентские статусы, ошибки хранилища (ErrDatabase) — в серверные.
var (
	// ErrBadRequest — нарушение бизнес-правила: отсутствующая связанная
	// сущность, дубликат контакта, некорректное поле запроса.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound — целевая запись операции не найдена.
	ErrNotFound = errors.New("not found")
	// ErrDatabase — любая ошибка слоя хранилища, включая неудачное
	// повторное чтение после успешной записи.
	ErrDatabase = errors.New("database error")
)

// BadRequestf оборачивает бизнес-нарушение с описанием причины.
// Сообщение обязано называть идентификатор, из-за которого операция отклонена.
func BadRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// NotFoundf оборачивает отсутствие целевой записи.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// DatabaseError оборачивает ошибку хранилища. Сырые ошибки репозиториев
// наружу сервисного слоя не утекают.
func DatabaseError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrDatabase, err)
}

// DatabaseErrorf оборачивает ошибку хранилища с собственным описанием.
func DatabaseErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDatabase, fmt.Sprintf(format, args...))
}

// IsBadRequest проверяет, относится ли ошибка к бизнес-нарушениям.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsNotFound проверяет, является ли ошибка отсутствием записи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDatabase проверяет, является ли ошибка ошибкой хранилища.
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}
