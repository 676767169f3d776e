package breaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// New создаёт предохранитель для внешнего сервиса: после серии отказов
// вызовы сразу возвращают gobreaker.ErrOpenState, пока не истечёт Timeout.
//
// isSuccessful отбирает ошибки, которые не говорят о недоступности сервиса
// (например, ответ сервера на некорректную команду). nil — любая ошибка считается отказом.
func New(name string, logger *slog.Logger, isSuccessful func(err error) bool) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
