// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель: единообразно формировать структурированные поля лога
// для ошибок и HTTP-статусов исходящих вызовов.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Для nil-ошибки значение пустое.
//
// Пример:
//
//	log.Error("login failed", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Status возвращает slog.Attr с HTTP-статусом ответа бэкенда.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}
