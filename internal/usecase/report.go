package usecase

import (
	"context"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

// ReportInput — данные человека, который видел питомца.
type ReportInput struct {
	ReportName  string
	ReportPhone string
	ReportAbout string
}

// ReportUseCase — сообщения о найденных питомцах и уведомления владельцев.
type ReportUseCase interface {
	// ReportPet сохраняет сообщение о питомце petID. Индекс не затрагивается.
	ReportPet(ctx context.Context, petID int64, in ReportInput) (*domain.Report, error)

	// NotifyOwner ставит в очередь письмо владельцу питомца из сообщения reportID.
	NotifyOwner(ctx context.Context, reportID int64) error

	// DeliverSighting отправляет письмо из очереди (вызывается воркером).
	DeliverSighting(ctx context.Context, n payloads.SightingNotification) error
}
